// Package report renders a solved network and its terminal-to-store
// attribution as text, Markdown, CSV, JSON, Excel or PDF.
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/attribution"
)

// Format формат отчёта
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatExcel    Format = "xlsx"
	FormatPDF      Format = "pdf"
)

// Formats возвращает поддерживаемые форматы
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON, FormatExcel, FormatPDF}
}

// ParseFormat разбирает формат; принимаются также синонимы md, txt, excel
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", apperror.Newf(apperror.CodeInvalidFormat, "unknown report format %q", s).
			WithField("format")
	}
}

// Extension возвращает расширение файла для формата
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// Binary сообщает, что отчёт нельзя выводить в терминал
func (f Format) Binary() bool {
	return f == FormatExcel || f == FormatPDF
}

// Data данные для генерации отчёта
type Data struct {
	RunID  string
	Title  string
	Author string

	Network    string
	Strategy   string
	MaxFlow    float64
	Iterations int
	Nodes      int
	Edges      int

	// Flows are the per-edge flows of the base network, super edges excluded.
	Flows []domain.EdgeFlow
	Table *attribution.Table

	Precision    int
	IncludeFlows bool
	GeneratedAt  time.Time
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, data *Data) ([]byte, error)
	Format() Format
}

// New возвращает генератор для формата
func New(format Format) (Generator, error) {
	switch format {
	case FormatText:
		return NewTextGenerator(), nil
	case FormatMarkdown:
		return NewMarkdownGenerator(), nil
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatJSON:
		return NewJSONGenerator(), nil
	case FormatExcel:
		return NewExcelGenerator(), nil
	case FormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, apperror.Newf(apperror.CodeInvalidFormat, "unknown report format %q", format).
			WithField("format")
	}
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(data *Data) string {
	if data.Title != "" {
		return data.Title
	}
	return "Terminal to Store Flow Report"
}

// GetAuthor возвращает автора отчёта
func (b *BaseGenerator) GetAuthor(data *Data) string {
	if data.Author != "" {
		return data.Author
	}
	return "distflow"
}

// GetGeneratedAt возвращает время генерации
func (b *BaseGenerator) GetGeneratedAt(data *Data) time.Time {
	if data.GeneratedAt.IsZero() {
		return time.Now()
	}
	return data.GeneratedAt
}

// FormatFlow форматирует поток с точностью отчёта
func (b *BaseGenerator) FormatFlow(data *Data, v float64) string {
	return attribution.FormatFlow(v, data.Precision)
}

// FormatMaxFlow выводит максимальный поток без лишних нулей: 115, 12.5
func (b *BaseGenerator) FormatMaxFlow(v float64) string {
	if domain.IsZero(v) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// Rows возвращает строки таблицы атрибуции или nil
func (b *BaseGenerator) Rows(data *Data) []attribution.Row {
	if data.Table == nil {
		return nil
	}
	return data.Table.Rows
}

// Terminals возвращает терминалы в порядке строк таблицы
func (b *BaseGenerator) Terminals(data *Data) []string {
	var terminals []string
	seen := make(map[string]bool)
	for _, r := range b.Rows(data) {
		if !seen[r.Terminal] {
			seen[r.Terminal] = true
			terminals = append(terminals, r.Terminal)
		}
	}
	return terminals
}

func validate(data *Data) error {
	if data == nil {
		return apperror.New(apperror.CodeNilInput, "report data is nil")
	}
	return nil
}

// ColName преобразует индекс колонки в буквенное обозначение (0 -> A, 25 -> Z, 26 -> AA)
func ColName(index int) string {
	result := ""
	for {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}

// Cell возвращает адрес ячейки
func Cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
