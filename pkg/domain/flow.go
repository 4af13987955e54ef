package domain

// EdgeFlow поток на одном ребре
type EdgeFlow struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Flow float64 `json:"flow"`
}

// Key возвращает ключ ребра
func (f EdgeFlow) Key() EdgeKey {
	return EdgeKey{From: f.From, To: f.To}
}

// FlowAssignment неизменяемое отображение ребро -> поток.
// Рёбра, отсутствующие в назначении, несут нулевой поток.
type FlowAssignment struct {
	flows   map[EdgeKey]float64
	order   []EdgeKey
	inflow  map[string]float64
	outflow map[string]float64
}

// NewFlowAssignment строит назначение из списка потоков.
// Порядок списка сохраняется; повторный ключ перезаписывает значение.
func NewFlowAssignment(flows []EdgeFlow) *FlowAssignment {
	a := &FlowAssignment{
		flows:   make(map[EdgeKey]float64, len(flows)),
		order:   make([]EdgeKey, 0, len(flows)),
		inflow:  make(map[string]float64),
		outflow: make(map[string]float64),
	}

	for _, f := range flows {
		key := f.Key()
		if prev, ok := a.flows[key]; ok {
			a.inflow[f.To] -= prev
			a.outflow[f.From] -= prev
		} else {
			a.order = append(a.order, key)
		}
		a.flows[key] = f.Flow
		a.inflow[f.To] += f.Flow
		a.outflow[f.From] += f.Flow
	}

	return a
}

// Flow возвращает поток на ребре (0, если ребра нет)
func (a *FlowAssignment) Flow(from, to string) float64 {
	return a.flows[EdgeKey{From: from, To: to}]
}

// Inflow суммарный входящий поток узла
func (a *FlowAssignment) Inflow(node string) float64 {
	return a.inflow[node]
}

// Outflow суммарный исходящий поток узла
func (a *FlowAssignment) Outflow(node string) float64 {
	return a.outflow[node]
}

// Len количество рёбер в назначении
func (a *FlowAssignment) Len() int {
	return len(a.order)
}

// Edges возвращает потоки в порядке построения
func (a *FlowAssignment) Edges() []EdgeFlow {
	result := make([]EdgeFlow, 0, len(a.order))
	for _, key := range a.order {
		result = append(result, EdgeFlow{From: key.From, To: key.To, Flow: a.flows[key]})
	}
	return result
}

// Without возвращает копию без рёбер, удовлетворяющих предикату
func (a *FlowAssignment) Without(drop func(EdgeKey) bool) *FlowAssignment {
	kept := make([]EdgeFlow, 0, len(a.order))
	for _, f := range a.Edges() {
		if !drop(f.Key()) {
			kept = append(kept, f)
		}
	}
	return NewFlowAssignment(kept)
}

// Active возвращает только рёбра с положительным потоком
func (a *FlowAssignment) Active() []EdgeFlow {
	var result []EdgeFlow
	for _, f := range a.Edges() {
		if IsPositive(f.Flow) {
			result = append(result, f)
		}
	}
	return result
}
