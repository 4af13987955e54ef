// Package input reads network descriptions from YAML, JSON and CSV files
// and builds domain networks from them.
//
// A YAML or JSON description lists nodes with their roles and capacitated
// edges:
//
//	name: sample
//	nodes:
//	  - {id: Terminal 1, role: terminal}
//	  - {id: Warehouse 1, role: warehouse}
//	  - {id: Store 1, role: store}
//	edges:
//	  - {from: Terminal 1, to: Warehouse 1, capacity: 25}
//	  - {from: Warehouse 1, to: Store 1, capacity: .inf}
//
// A capacity of .inf, or unbounded: true, makes an edge unbounded. Nodes
// referenced by edges but not declared are added with a role inferred from
// the ID prefix (Terminal, Warehouse or Store).
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
)

// Format формат файла описания сети
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Description описание сети до построения
type Description struct {
	Name  string     `yaml:"name,omitempty" json:"name,omitempty"`
	Nodes []NodeSpec `yaml:"nodes,omitempty" json:"nodes,omitempty"`
	Edges []EdgeSpec `yaml:"edges" json:"edges"`
}

// NodeSpec объявление узла
type NodeSpec struct {
	ID   string `yaml:"id" json:"id"`
	Role string `yaml:"role,omitempty" json:"role,omitempty"`
}

// EdgeSpec объявление ребра
type EdgeSpec struct {
	From      string  `yaml:"from" json:"from"`
	To        string  `yaml:"to" json:"to"`
	Capacity  float64 `yaml:"capacity" json:"capacity"`
	Unbounded bool    `yaml:"unbounded,omitempty" json:"unbounded,omitempty"`
}

// Build строит сеть: сначала объявленные узлы, затем рёбра в порядке описания
func (d *Description) Build() (*domain.Network, error) {
	if d == nil {
		return nil, apperror.New(apperror.CodeNilInput, "network description is nil")
	}
	if len(d.Edges) == 0 {
		return nil, apperror.New(apperror.CodeInvalidInput, "network description has no edges").
			WithField("edges")
	}

	n := domain.NewNetwork()
	n.Name = d.Name

	for i, spec := range d.Nodes {
		role, err := nodeRole(spec.ID, spec.Role)
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("node #%d %q", i+1, spec.ID))
		}
		if err := n.AddNode(spec.ID, role); err != nil {
			return nil, annotate(err, fmt.Sprintf("node #%d %q", i+1, spec.ID))
		}
	}

	for i, spec := range d.Edges {
		for _, id := range []string{spec.From, spec.To} {
			if id == "" || n.HasNode(id) {
				continue
			}
			role, err := nodeRole(id, "")
			if err != nil {
				return nil, annotate(err, fmt.Sprintf("edge #%d", i+1))
			}
			if err := n.AddNode(id, role); err != nil {
				return nil, annotate(err, fmt.Sprintf("edge #%d", i+1))
			}
		}

		var err error
		if spec.Unbounded {
			err = n.AddUnboundedEdge(spec.From, spec.To)
		} else {
			err = n.AddEdge(spec.From, spec.To, spec.Capacity)
		}
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("edge #%d %s->%s", i+1, spec.From, spec.To))
		}
	}

	return n, nil
}

// nodeRole разбирает явную роль или выводит её из префикса ID
func nodeRole(id, role string) (domain.Role, error) {
	if domain.IsReservedID(id) {
		return domain.RoleUnspecified, apperror.Newf(apperror.CodeReservedNodeID, "node id %s is reserved", id)
	}
	if role == "" {
		if r := InferRole(id); r != domain.RoleUnspecified {
			return r, nil
		}
		return domain.RoleUnspecified, apperror.Newf(apperror.CodeInvalidNodeRole,
			"node %q has no role and none can be inferred from its name", id)
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.RoleUnspecified, err
	}
	if r == domain.RoleSuperSource || r == domain.RoleSuperSink {
		return domain.RoleUnspecified, apperror.Newf(apperror.CodeInvalidNodeRole,
			"role %s is assigned by the network builder", r)
	}
	return r, nil
}

// annotate дополняет ошибку контекстом, сохраняя её код
func annotate(err error, context string) *apperror.Error {
	msg := err.Error()
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	return apperror.Wrap(err, apperror.Code(err), context+": "+msg)
}

// InferRole выводит роль из префикса ID ("Terminal 1", "warehouse-a", "Store7")
func InferRole(id string) domain.Role {
	lower := strings.ToLower(strings.TrimSpace(id))
	switch {
	case strings.HasPrefix(lower, "terminal"):
		return domain.RoleTerminal
	case strings.HasPrefix(lower, "warehouse"):
		return domain.RoleWarehouse
	case strings.HasPrefix(lower, "store"):
		return domain.RoleStore
	default:
		return domain.RoleUnspecified
	}
}

// FormatFromPath определяет формат по расширению файла
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", apperror.Newf(apperror.CodeInvalidFormat, "unsupported network file extension %q", filepath.Ext(path)).
			WithField("network")
	}
}

// Decode читает описание сети из r. Неизвестные поля считаются ошибкой.
func Decode(r io.Reader, format Format) (*Description, error) {
	var (
		d   Description
		err error
	)
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&d)
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&d)
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, apperror.Newf(apperror.CodeInvalidFormat, "unsupported network format %q", format)
	}

	if errors.Is(err, io.EOF) {
		return nil, apperror.New(apperror.CodeInvalidInput, "network description is empty")
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidInput, fmt.Sprintf("decode %s: %v", format, err))
	}
	return &d, nil
}

// Load читает и строит сеть из r
func Load(r io.Reader, format Format) (*domain.Network, error) {
	d, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return d.Build()
}

// LoadFile читает сеть из файла; формат определяется по расширению
func LoadFile(path string) (*domain.Network, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidInput, fmt.Sprintf("open %s: %v", path, err))
	}
	defer f.Close()

	n, err := Load(f, format)
	if err != nil {
		return nil, err
	}
	if n.Name == "" {
		n.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return n, nil
}
