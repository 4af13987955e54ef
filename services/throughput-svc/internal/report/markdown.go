package report

import (
	"bytes"
	"context"
	"fmt"
)

// MarkdownGenerator генератор Markdown отчётов
type MarkdownGenerator struct {
	BaseGenerator
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() Format {
	return FormatMarkdown
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(ctx context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	g.writeHeader(&buf, data)
	g.writeSummary(&buf, data)
	g.writeAttribution(&buf, data)
	if data.IncludeFlows {
		g.writeFlows(&buf, data)
	}
	g.writeFooter(&buf, data)

	return buf.Bytes(), nil
}

func (g *MarkdownGenerator) writeHeader(buf *bytes.Buffer, data *Data) {
	fmt.Fprintf(buf, "# %s\n\n", g.GetTitle(data))
	fmt.Fprintf(buf, "**Author:** %s  \n", g.GetAuthor(data))
	fmt.Fprintf(buf, "**Generated:** %s  \n", g.FormatTimestamp(g.GetGeneratedAt(data)))
	if data.RunID != "" {
		fmt.Fprintf(buf, "**Run:** `%s`  \n", data.RunID)
	}
	buf.WriteString("\n---\n\n")
}

func (g *MarkdownGenerator) writeSummary(buf *bytes.Buffer, data *Data) {
	buf.WriteString("## Summary\n\n")
	buf.WriteString("| Metric | Value |\n")
	buf.WriteString("|--------|-------|\n")
	if data.Network != "" {
		fmt.Fprintf(buf, "| Network | %s |\n", data.Network)
	}
	fmt.Fprintf(buf, "| Maximum flow | **%s** |\n", g.FormatMaxFlow(data.MaxFlow))
	fmt.Fprintf(buf, "| Augmenting paths | %d |\n", data.Iterations)
	fmt.Fprintf(buf, "| Nodes | %d |\n", data.Nodes)
	fmt.Fprintf(buf, "| Edges | %d |\n", data.Edges)
	if data.Strategy != "" {
		fmt.Fprintf(buf, "| Attribution | %s |\n", data.Strategy)
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeAttribution(buf *bytes.Buffer, data *Data) {
	rows := g.Rows(data)
	if len(rows) == 0 {
		return
	}

	buf.WriteString("## Terminal to Store Flow\n\n")
	buf.WriteString("| Terminal | Store | Flow |\n")
	buf.WriteString("|----------|-------|-----:|\n")
	for _, r := range rows {
		fmt.Fprintf(buf, "| %s | %s | %s |\n", r.Terminal, r.Store, g.FormatFlow(data, r.Flow))
	}
	buf.WriteString("\n")

	buf.WriteString("### Totals by Terminal\n\n")
	buf.WriteString("| Terminal | Flow |\n")
	buf.WriteString("|----------|-----:|\n")
	for _, t := range g.Terminals(data) {
		fmt.Fprintf(buf, "| %s | %s |\n", t, g.FormatFlow(data, data.Table.TotalFor(t)))
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeFlows(buf *bytes.Buffer, data *Data) {
	if len(data.Flows) == 0 {
		return
	}

	buf.WriteString("## Edge Flows\n\n")
	buf.WriteString("| From | To | Flow |\n")
	buf.WriteString("|------|----|-----:|\n")
	for _, f := range data.Flows {
		fmt.Fprintf(buf, "| %s | %s | %s |\n", f.From, f.To, g.FormatFlow(data, f.Flow))
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeFooter(buf *bytes.Buffer, data *Data) {
	buf.WriteString("---\n\n")
	fmt.Fprintf(buf, "*Generated by distflow on %s*\n", g.FormatTimestamp(g.GetGeneratedAt(data)))
}
