package report

import (
	"context"
	"encoding/json"
	"time"

	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/attribution"
)

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() Format {
	return FormatJSON
}

// JSONReport структура JSON отчёта
type JSONReport struct {
	Metadata      JSONMetadata               `json:"metadata"`
	Summary       JSONSummary                `json:"summary"`
	Rows          []JSONRow                  `json:"rows"`
	Totals        []JSONTotal                `json:"totals"`
	Contributions []attribution.Contribution `json:"contributions,omitempty"`
	Flows         []domain.EdgeFlow          `json:"flows,omitempty"`
}

type JSONMetadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	RunID       string `json:"runId,omitempty"`
	GeneratedAt string `json:"generatedAt"`
}

type JSONSummary struct {
	Network    string  `json:"network,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`
	MaxFlow    float64 `json:"maxFlow"`
	Iterations int     `json:"iterations"`
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
}

type JSONRow struct {
	Terminal  string  `json:"terminal"`
	Store     string  `json:"store"`
	Flow      float64 `json:"flow"`
	Formatted string  `json:"formatted"`
}

type JSONTotal struct {
	Terminal string  `json:"terminal"`
	Flow     float64 `json:"flow"`
}

// Generate генерирует JSON отчёт
func (g *JSONGenerator) Generate(ctx context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	report := JSONReport{
		Metadata: JSONMetadata{
			Title:       g.GetTitle(data),
			Author:      g.GetAuthor(data),
			RunID:       data.RunID,
			GeneratedAt: g.GetGeneratedAt(data).Format(time.RFC3339),
		},
		Summary: JSONSummary{
			Network:    data.Network,
			Strategy:   data.Strategy,
			MaxFlow:    data.MaxFlow,
			Iterations: data.Iterations,
			Nodes:      data.Nodes,
			Edges:      data.Edges,
		},
		Rows:   make([]JSONRow, 0, len(g.Rows(data))),
		Totals: make([]JSONTotal, 0),
	}

	for _, r := range g.Rows(data) {
		report.Rows = append(report.Rows, JSONRow{
			Terminal:  r.Terminal,
			Store:     r.Store,
			Flow:      r.Flow,
			Formatted: g.FormatFlow(data, r.Flow),
		})
	}
	for _, t := range g.Terminals(data) {
		report.Totals = append(report.Totals, JSONTotal{Terminal: t, Flow: data.Table.TotalFor(t)})
	}
	if data.Table != nil {
		report.Contributions = data.Table.Contributions
	}
	if data.IncludeFlows {
		report.Flows = data.Flows
	}

	return json.MarshalIndent(report, "", "  ")
}
