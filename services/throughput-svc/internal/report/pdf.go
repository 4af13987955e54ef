package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// maxPDFFlowRows ограничивает таблицу потоков по рёбрам
const maxPDFFlowRows = 60

// PDFGenerator генератор PDF: сводка, итоги по терминалам, таблица
// атрибуции и, по запросу, потоки по рёбрам
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() Format {
	return FormatPDF
}

var (
	inkColor    = &props.Color{Red: 33, Green: 47, Blue: 61}
	accentColor = &props.Color{Red: 22, Green: 160, Blue: 133}
	ruleColor   = &props.Color{Red: 220, Green: 224, Blue: 228}
	mutedColor  = &props.Color{Red: 120, Green: 130, Blue: 140}
	white       = &props.Color{Red: 255, Green: 255, Blue: 255}

	mutedText   = props.Text{Size: 8, Color: mutedColor}
	sectionText = props.Text{Size: 13, Style: fontstyle.Bold, Color: inkColor, Top: 3}
	headCell    = &props.Cell{BackgroundColor: accentColor}
	headText    = props.Text{Size: 9, Style: fontstyle.Bold, Color: white, Align: align.Center}
	bodyCell    = &props.Cell{BorderType: border.Bottom, BorderColor: ruleColor}
	bodyText    = props.Text{Size: 9, Align: align.Center}
)

// pdfReport собирает документ построчно
type pdfReport struct {
	g    *PDFGenerator
	m    core.Maroto
	data *Data
}

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	r := &pdfReport{g: g, m: maroto.New(cfg), data: data}
	r.header()
	r.summary()
	r.terminalTotals()
	r.attribution()
	if data.IncludeFlows {
		r.edgeFlows()
	}
	r.footer()

	doc, err := r.m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *pdfReport) header() {
	r.m.AddRow(14, text.NewCol(12, r.g.GetTitle(r.data),
		props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Left, Color: inkColor}))

	meta := fmt.Sprintf("%s | %s", r.g.GetAuthor(r.data), r.g.FormatTimestamp(r.g.GetGeneratedAt(r.data)))
	if r.data.Network != "" {
		meta = r.data.Network + " | " + meta
	}
	r.m.AddRow(6, text.NewCol(12, meta, mutedText))
	if r.data.RunID != "" {
		r.m.AddRow(5, text.NewCol(12, "run "+r.data.RunID, mutedText))
	}
	r.m.AddRow(4, line.NewCol(12, props.Line{Color: accentColor, Thickness: 0.8}))
	r.m.AddRow(4)
}

func (r *pdfReport) section(title string) {
	r.m.AddRow(10, text.NewCol(12, title, sectionText))
	r.m.AddRow(3, line.NewCol(12, props.Line{Color: ruleColor}))
}

// summary карточки с величинами одного запуска
func (r *pdfReport) summary() {
	stats := []struct{ value, label string }{
		{r.g.FormatMaxFlow(r.data.MaxFlow), "maximum flow"},
		{strconv.Itoa(r.data.Iterations), "augmenting paths"},
		{strconv.Itoa(r.data.Nodes), "nodes"},
		{strconv.Itoa(r.data.Edges), "edges"},
	}

	cols := make([]core.Col, 0, len(stats))
	for _, s := range stats {
		cols = append(cols, col.New(12/len(stats)).Add(
			text.New(s.value, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center, Color: accentColor}),
			text.New(s.label, props.Text{Size: 8, Align: align.Center, Color: mutedColor, Top: 9}),
		))
	}
	r.section("Summary")
	r.m.AddRow(18, cols...)
}

func (r *pdfReport) terminalTotals() {
	terminals := r.g.Terminals(r.data)
	if len(terminals) == 0 {
		return
	}

	r.section("Supply by Terminal")
	r.tableHead([3]string{"Terminal", "Stores served", "Total"})
	for _, t := range terminals {
		served := 0
		for _, row := range r.g.Rows(r.data) {
			if row.Terminal == t && row.Flow > 0 {
				served++
			}
		}
		r.tableRow([3]string{t, strconv.Itoa(served), r.g.FormatFlow(r.data, r.data.Table.TotalFor(t))})
	}
}

func (r *pdfReport) attribution() {
	rows := r.g.Rows(r.data)
	if len(rows) == 0 {
		return
	}

	r.section("Terminal to Store Flow")
	if r.data.Strategy != "" {
		r.m.AddRow(6, text.NewCol(12, "attribution: "+r.data.Strategy, mutedText))
	}
	r.tableHead([3]string{"Terminal", "Store", "Flow"})
	for _, row := range rows {
		r.tableRow([3]string{row.Terminal, row.Store, r.g.FormatFlow(r.data, row.Flow)})
	}
}

func (r *pdfReport) edgeFlows() {
	flows := r.data.Flows
	if len(flows) == 0 {
		return
	}

	r.section("Edge Flows")
	r.tableHead([3]string{"From", "To", "Flow"})
	for i, f := range flows {
		if i == maxPDFFlowRows {
			r.m.AddRow(6, text.NewCol(12, fmt.Sprintf("%d more edges omitted", len(flows)-maxPDFFlowRows), mutedText))
			break
		}
		r.tableRow([3]string{f.From, f.To, r.g.FormatFlow(r.data, f.Flow)})
	}
}

// Ширины колонок трёхколоночных таблиц (сумма 12)
var tableWidths = [3]int{5, 4, 3}

func (r *pdfReport) tableHead(cells [3]string) {
	r.tableLine(8, cells, headText, headCell)
}

func (r *pdfReport) tableRow(cells [3]string) {
	r.tableLine(6, cells, bodyText, bodyCell)
}

func (r *pdfReport) tableLine(height float64, cells [3]string, style props.Text, cell *props.Cell) {
	cols := make([]core.Col, len(cells))
	for i, c := range cells {
		cols[i] = text.NewCol(tableWidths[i], c, style).WithStyle(cell)
	}
	r.m.AddRow(height, cols...)
}

func (r *pdfReport) footer() {
	r.m.AddRow(8)
	r.m.AddRow(2, line.NewCol(12, props.Line{Color: ruleColor}))
	r.m.AddRow(6, text.NewCol(12, "distflow "+r.g.FormatTimestamp(r.g.GetGeneratedAt(r.data)),
		props.Text{Size: 7, Color: mutedColor, Align: align.Center}))
}
