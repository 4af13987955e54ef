package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// CSVGenerator генератор CSV отчётов.
// Первая секция содержит строки атрибуции; с IncludeFlows после пустой
// строки следует секция потоков по рёбрам.
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() Format {
	return FormatCSV
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	rows := g.Rows(data)
	records := make([][]string, 0, len(rows)+len(data.Flows)+3)
	records = append(records, []string{"terminal", "store", "flow"})
	for _, r := range rows {
		records = append(records, []string{r.Terminal, r.Store, g.FormatFlow(data, r.Flow)})
	}

	if data.IncludeFlows && len(data.Flows) > 0 {
		records = append(records, []string{""}, []string{"from", "to", "flow"})
		for _, f := range data.Flows {
			records = append(records, []string{f.From, f.To, g.FormatFlow(data, f.Flow)})
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// Записи разной длины допустимы: csv.Writer не проверяет FieldsPerRecord
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
