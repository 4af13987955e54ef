package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Ширины колонок текстовой таблицы
const (
	terminalWidth = 10
	storeWidth    = 10
	flowWidth     = 22
)

// TextGenerator генератор текстовых отчётов: строка с максимальным потоком
// и таблица с разделителями "|".
type TextGenerator struct {
	BaseGenerator
}

// NewTextGenerator создаёт новый генератор
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// Format возвращает формат генератора
func (g *TextGenerator) Format() Format {
	return FormatText
}

// Generate генерирует текстовый отчёт
func (g *TextGenerator) Generate(ctx context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Maximum flow: %s\n", g.FormatMaxFlow(data.MaxFlow))

	separator := fmt.Sprintf("| %s | %s | %s |\n",
		strings.Repeat("-", terminalWidth),
		strings.Repeat("-", storeWidth),
		strings.Repeat("-", flowWidth))

	buf.WriteString(separator)
	fmt.Fprintf(&buf, "| %-*s | %-*s | %-*s |\n",
		terminalWidth, "Terminal", storeWidth, "Store", flowWidth, "Actual Flow (units)")
	buf.WriteString(separator)
	for _, r := range g.Rows(data) {
		fmt.Fprintf(&buf, "| %-*s | %-*s | %-*s |\n",
			terminalWidth, r.Terminal, storeWidth, r.Store, flowWidth, g.FormatFlow(data, r.Flow))
	}
	buf.WriteString(separator)

	if data.IncludeFlows && len(data.Flows) > 0 {
		buf.WriteString("\nEdge flows:\n")
		for _, f := range data.Flows {
			fmt.Fprintf(&buf, "  %s: %s\n", f.Key(), g.FormatFlow(data, f.Flow))
		}
	}

	return buf.Bytes(), nil
}
