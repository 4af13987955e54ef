package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Имена листов Excel
const (
	sheetSummary     = "Summary"
	sheetAttribution = "Attribution"
	sheetFlows       = "Edge Flows"
)

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() Format {
	return FormatExcel
}

// Generate генерирует Excel отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("excel style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: g.numberFormat(data),
	})
	if err != nil {
		return nil, fmt.Errorf("excel style: %w", err)
	}

	// Лист по умолчанию становится сводкой
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	g.writeSummary(f, data, headerStyle)

	if _, err := f.NewSheet(sheetAttribution); err != nil {
		return nil, err
	}
	g.writeAttribution(f, data, headerStyle, numberStyle)

	if data.IncludeFlows && len(data.Flows) > 0 {
		if _, err := f.NewSheet(sheetFlows); err != nil {
			return nil, err
		}
		g.writeFlows(f, data, headerStyle, numberStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) numberFormat(data *Data) *string {
	format := "0"
	if data.Precision > 0 {
		format += "."
		for i := 0; i < data.Precision; i++ {
			format += "0"
		}
	}
	return &format
}

func (g *ExcelGenerator) writeSummary(f *excelize.File, data *Data, headerStyle int) {
	row := 1
	f.SetCellValue(sheetSummary, Cell("A", row), g.GetTitle(data))
	f.MergeCell(sheetSummary, Cell("A", row), Cell("B", row))
	row += 2

	f.SetCellValue(sheetSummary, Cell("A", row), "Metric")
	f.SetCellValue(sheetSummary, Cell("B", row), "Value")
	f.SetCellStyle(sheetSummary, Cell("A", row), Cell("B", row), headerStyle)
	row++

	items := []struct {
		key   string
		value any
	}{
		{"Run", data.RunID},
		{"Network", data.Network},
		{"Maximum flow", data.MaxFlow},
		{"Augmenting paths", data.Iterations},
		{"Nodes", data.Nodes},
		{"Edges", data.Edges},
		{"Attribution", data.Strategy},
		{"Author", g.GetAuthor(data)},
		{"Generated", g.FormatTimestamp(g.GetGeneratedAt(data))},
	}
	for _, item := range items {
		f.SetCellValue(sheetSummary, Cell("A", row), item.key)
		f.SetCellValue(sheetSummary, Cell("B", row), item.value)
		row++
	}

	f.SetColWidth(sheetSummary, "A", "A", 20)
	f.SetColWidth(sheetSummary, "B", "B", 40)
}

func (g *ExcelGenerator) writeAttribution(f *excelize.File, data *Data, headerStyle, numberStyle int) {
	headers := []string{"Terminal", "Store", "Flow"}
	for i, h := range headers {
		f.SetCellValue(sheetAttribution, Cell(ColName(i), 1), h)
	}
	f.SetCellStyle(sheetAttribution, "A1", Cell(ColName(len(headers)-1), 1), headerStyle)

	row := 2
	for _, r := range g.Rows(data) {
		f.SetCellValue(sheetAttribution, Cell("A", row), r.Terminal)
		f.SetCellValue(sheetAttribution, Cell("B", row), r.Store)
		f.SetCellValue(sheetAttribution, Cell("C", row), r.Flow)
		row++
	}
	if row > 2 {
		f.SetCellStyle(sheetAttribution, "C2", Cell("C", row-1), numberStyle)
	}

	// Итоги по терминалам
	row++
	f.SetCellValue(sheetAttribution, Cell("A", row), "Terminal")
	f.SetCellValue(sheetAttribution, Cell("B", row), "Total")
	f.SetCellStyle(sheetAttribution, Cell("A", row), Cell("B", row), headerStyle)
	row++
	for _, t := range g.Terminals(data) {
		f.SetCellValue(sheetAttribution, Cell("A", row), t)
		f.SetCellValue(sheetAttribution, Cell("B", row), data.Table.TotalFor(t))
		f.SetCellStyle(sheetAttribution, Cell("B", row), Cell("B", row), numberStyle)
		row++
	}

	f.SetColWidth(sheetAttribution, "A", "B", 16)
	f.SetColWidth(sheetAttribution, "C", "C", 14)
}

func (g *ExcelGenerator) writeFlows(f *excelize.File, data *Data, headerStyle, numberStyle int) {
	headers := []string{"From", "To", "Flow"}
	for i, h := range headers {
		f.SetCellValue(sheetFlows, Cell(ColName(i), 1), h)
	}
	f.SetCellStyle(sheetFlows, "A1", "C1", headerStyle)

	for i, fl := range data.Flows {
		row := i + 2
		f.SetCellValue(sheetFlows, Cell("A", row), fl.From)
		f.SetCellValue(sheetFlows, Cell("B", row), fl.To)
		f.SetCellValue(sheetFlows, Cell("C", row), fl.Flow)
	}
	f.SetCellStyle(sheetFlows, "C2", Cell("C", len(data.Flows)+1), numberStyle)

	f.SetColWidth(sheetFlows, "A", "B", 16)
}
