package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"distflow/pkg/apperror"
)

// CSV колонки: from,to,capacity[,from_role,to_role].
// Строка заголовка необязательна и распознаётся по первой ячейке "from".
// Ёмкость "inf" делает ребро неограниченным.
const (
	colFrom = iota
	colTo
	colCapacity
	colFromRole
	colToRole
)

func decodeCSV(r io.Reader) (*Description, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	d := &Description{}
	declared := make(map[string]bool)
	declare := func(id, role string) {
		if role == "" || declared[id] {
			return
		}
		declared[id] = true
		d.Nodes = append(d.Nodes, NodeSpec{ID: id, Role: role})
	}

	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidInput, fmt.Sprintf("decode csv: %v", err))
		}

		// Номер строки в файле с учётом комментариев и пустых строк
		line, _ := reader.FieldPos(colFrom)

		if first && strings.EqualFold(strings.TrimSpace(record[colFrom]), "from") {
			continue
		}
		if len(record) != 3 && len(record) != 5 {
			return nil, apperror.Newf(apperror.CodeInvalidInput,
				"csv line %d: expected 3 or 5 columns, got %d", line, len(record))
		}

		from := strings.TrimSpace(record[colFrom])
		to := strings.TrimSpace(record[colTo])
		raw := strings.TrimSpace(record[colCapacity])

		capacity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperror.Newf(apperror.CodeInvalidCapacity,
				"csv line %d: capacity %q is not a number", line, raw)
		}

		if len(record) == 5 {
			declare(from, strings.TrimSpace(record[colFromRole]))
			declare(to, strings.TrimSpace(record[colToRole]))
		}

		d.Edges = append(d.Edges, EdgeSpec{From: from, To: to, Capacity: capacity})
	}

	if len(d.Edges) == 0 {
		return nil, apperror.New(apperror.CodeInvalidInput, "network description is empty")
	}
	return d, nil
}
