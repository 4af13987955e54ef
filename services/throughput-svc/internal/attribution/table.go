package attribution

import (
	"fmt"

	"distflow/pkg/domain"
)

// DefaultPrecision число знаков после запятой при выводе потоков
const DefaultPrecision = 2

// Row поток, приписанный паре терминал-магазин
type Row struct {
	Terminal string  `json:"terminal"`
	Store    string  `json:"store"`
	Flow     float64 `json:"flow"`
}

// Formatted возвращает поток с заданным числом знаков после запятой
func (r Row) Formatted(precision int) string {
	return FormatFlow(r.Flow, precision)
}

// Contribution вклад одного склада в пару терминал-магазин.
// Warehouse пуст, если поток шёл от терминала к магазину напрямую.
type Contribution struct {
	Terminal  string  `json:"terminal"`
	Warehouse string  `json:"warehouse,omitempty"`
	Store     string  `json:"store"`
	Flow      float64 `json:"flow"`
}

// Table результат атрибуции
type Table struct {
	Strategy      string         `json:"strategy"`
	Rows          []Row          `json:"rows"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// Lookup возвращает поток для пары терминал-магазин
func (t *Table) Lookup(terminal, store string) (float64, bool) {
	for _, r := range t.Rows {
		if r.Terminal == terminal && r.Store == store {
			return r.Flow, true
		}
	}
	return 0, false
}

// TotalFor суммирует поток, приписанный терминалу
func (t *Table) TotalFor(terminal string) float64 {
	var total float64
	for _, r := range t.Rows {
		if r.Terminal == terminal {
			total += r.Flow
		}
	}
	return total
}

// StoreTotal суммирует поток, приписанный магазину
func (t *Table) StoreTotal(store string) float64 {
	var total float64
	for _, r := range t.Rows {
		if r.Store == store {
			total += r.Flow
		}
	}
	return total
}

// Total суммирует все строки таблицы
func (t *Table) Total() float64 {
	var total float64
	for _, r := range t.Rows {
		total += r.Flow
	}
	return total
}

// FormatFlow форматирует поток; значения в пределах Epsilon выводятся как ноль
func FormatFlow(v float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	if domain.IsZero(v) {
		v = 0
	}
	return fmt.Sprintf("%.*f", precision, v)
}

// grid накапливает вклады в порядке терминал, магазин, склад
type grid struct {
	terminals  []string
	stores     []string
	warehouses []string
	cells      map[[3]string]float64
}

func newGrid(in *Input) *grid {
	return &grid{
		terminals:  in.Terminals,
		stores:     in.Stores,
		warehouses: in.Warehouses,
		cells:      make(map[[3]string]float64),
	}
}

func (g *grid) add(terminal, warehouse, store string, flow float64) {
	g.cells[[3]string{terminal, warehouse, store}] += flow
}

// table строит строки для всех пар, включая нулевые
func (g *grid) table(strategy string) *Table {
	t := &Table{
		Strategy: strategy,
		Rows:     make([]Row, 0, len(g.terminals)*len(g.stores)),
	}
	via := append([]string{""}, g.warehouses...)
	for _, terminal := range g.terminals {
		for _, store := range g.stores {
			var sum float64
			for _, w := range via {
				flow, ok := g.cells[[3]string{terminal, w, store}]
				if !ok || domain.IsZero(flow) {
					continue
				}
				sum += flow
				t.Contributions = append(t.Contributions, Contribution{
					Terminal:  terminal,
					Warehouse: w,
					Store:     store,
					Flow:      flow,
				})
			}
			t.Rows = append(t.Rows, Row{Terminal: terminal, Store: store, Flow: sum})
		}
	}
	return t
}
