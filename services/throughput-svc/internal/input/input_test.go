package input

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: small
nodes:
  - {id: T1, role: terminal}
  - {id: W1, role: warehouse}
  - {id: S1, role: store}
edges:
  - {from: T1, to: W1, capacity: 10}
  - {from: W1, to: S1, capacity: .inf}
`

func TestDecodeYAML(t *testing.T) {
	d, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "small", d.Name)
	require.Len(t, d.Nodes, 3)
	require.Len(t, d.Edges, 2)
	assert.True(t, math.IsInf(d.Edges[1].Capacity, 1))

	n, err := d.Build()
	require.NoError(t, err)

	e, ok := n.Edge("W1", "S1")
	require.True(t, ok)
	assert.True(t, e.Unbounded)
	assert.Equal(t, []string{"T1"}, n.NodesByRole(domain.RoleTerminal))
}

func TestDecodeJSON(t *testing.T) {
	body := `{
	"name": "json",
	"edges": [
		{"from": "Terminal A", "to": "Warehouse A", "capacity": 4},
		{"from": "Warehouse A", "to": "Store A", "unbounded": true}
	]
}`
	n, err := Load(strings.NewReader(body), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "json", n.Name)
	assert.Equal(t, []string{"Terminal A"}, n.NodesByRole(domain.RoleTerminal))
	assert.Equal(t, []string{"Warehouse A"}, n.NodesByRole(domain.RoleWarehouse))
	assert.Equal(t, []string{"Store A"}, n.NodesByRole(domain.RoleStore))

	e, ok := n.Edge("Warehouse A", "Store A")
	require.True(t, ok)
	assert.True(t, e.Unbounded)
}

func TestDecodeCSV(t *testing.T) {
	body := "from,to,capacity\n" +
		"# comment\n" +
		"Terminal 1,Warehouse 1,10\n" +
		"X,Y,5,warehouse,store\n" +
		"Warehouse 1,X,inf\n"

	d, err := Decode(strings.NewReader(body), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []NodeSpec{{ID: "X", Role: "warehouse"}, {ID: "Y", Role: "store"}}, d.Nodes)
	require.Len(t, d.Edges, 3)
	assert.True(t, math.IsInf(d.Edges[2].Capacity, 1))

	n, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, 4, n.NodeCount())
	assert.Equal(t, 3, n.EdgeCount())
}

func TestDecodeCSV_ErrorLine(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "after_comments",
			body: "from,to,capacity\n# one\n# two\n\nT1,W1,10\nW1,S1,lots\n",
			want: "csv line 6:",
		},
		{
			name: "first_record",
			body: "# header comment\nT1,W1,1,terminal\n",
			want: "csv line 2:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body), FormatCSV)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format Format
		code   apperror.ErrorCode
	}{
		{"empty_yaml", "", FormatYAML, apperror.CodeInvalidInput},
		{"unknown_yaml_field", "edges: []\nextra: 1\n", FormatYAML, apperror.CodeInvalidInput},
		{"malformed_json", "{", FormatJSON, apperror.CodeInvalidInput},
		{"unknown_json_field", `{"edges": [], "foo": 1}`, FormatJSON, apperror.CodeInvalidInput},
		{"csv_bad_capacity", "T1,W1,lots\n", FormatCSV, apperror.CodeInvalidCapacity},
		{"csv_wrong_columns", "T1,W1,1,terminal\n", FormatCSV, apperror.CodeInvalidInput},
		{"csv_empty", "from,to,capacity\n", FormatCSV, apperror.CodeInvalidInput},
		{"unsupported_format", "", Format("xml"), apperror.CodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body), tt.format)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperror.Code(err))
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		d    *Description
		code apperror.ErrorCode
	}{
		{"nil", nil, apperror.CodeNilInput},
		{"no_edges", &Description{}, apperror.CodeInvalidInput},
		{
			"negative_capacity",
			&Description{Edges: []EdgeSpec{{From: "Terminal 1", To: "Warehouse 1", Capacity: -1}}},
			apperror.CodeNegativeCapacity,
		},
		{
			"duplicate_edge",
			&Description{Edges: []EdgeSpec{
				{From: "Terminal 1", To: "Warehouse 1", Capacity: 1},
				{From: "Terminal 1", To: "Warehouse 1", Capacity: 2},
			}},
			apperror.CodeDuplicateEdge,
		},
		{
			"self_loop",
			&Description{Edges: []EdgeSpec{{From: "Warehouse 1", To: "Warehouse 1", Capacity: 1}}},
			apperror.CodeInvalidEdge,
		},
		{
			"uninferable_role",
			&Description{Edges: []EdgeSpec{{From: "Hub", To: "Store 1", Capacity: 1}}},
			apperror.CodeInvalidNodeRole,
		},
		{
			"bad_role",
			&Description{
				Nodes: []NodeSpec{{ID: "A", Role: "depot"}},
				Edges: []EdgeSpec{{From: "A", To: "Store 1", Capacity: 1}},
			},
			apperror.CodeInvalidNodeRole,
		},
		{
			"super_role",
			&Description{
				Nodes: []NodeSpec{{ID: "A", Role: "super_source"}},
				Edges: []EdgeSpec{{From: "A", To: "Store 1", Capacity: 1}},
			},
			apperror.CodeInvalidNodeRole,
		},
		{
			"reserved_id",
			&Description{Edges: []EdgeSpec{{From: domain.SuperSourceID, To: "Store 1", Capacity: 1}}},
			apperror.CodeReservedNodeID,
		},
		{
			"duplicate_node",
			&Description{
				Nodes: []NodeSpec{{ID: "T", Role: "terminal"}, {ID: "T", Role: "terminal"}},
				Edges: []EdgeSpec{{From: "T", To: "Store 1", Capacity: 1}},
			},
			apperror.CodeDuplicateNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.d.Build()
			require.Error(t, err)
			assert.Nil(t, n)
			assert.Equal(t, tt.code, apperror.Code(err))
		})
	}
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		id       string
		expected domain.Role
	}{
		{"Terminal 1", domain.RoleTerminal},
		{"warehouse-a", domain.RoleWarehouse},
		{"Store7", domain.RoleStore},
		{"  STORE 2", domain.RoleStore},
		{"Hub", domain.RoleUnspecified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferRole(tt.id), tt.id)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"net.yaml", FormatYAML, false},
		{"net.YML", FormatYAML, false},
		{"dir/net.json", FormatJSON, false},
		{"net.csv", FormatCSV, false},
		{"net.txt", "", true},
		{"net", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.Equal(t, apperror.CodeInvalidFormat, apperror.Code(err), tt.path)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, tt.path)
	}
}

func TestLoadFile_Examples(t *testing.T) {
	tests := map[string]string{
		"network.yaml": "sample",
		"network.csv":  "network",
	}
	for file, name := range tests {
		t.Run(file, func(t *testing.T) {
			n, err := LoadFile(filepath.Join("..", "..", "..", "..", "examples", file))
			require.NoError(t, err)

			sample := testutil.SampleNetwork()
			assert.Equal(t, sample.NodeCount(), n.NodeCount())
			assert.Equal(t, sample.Edges(), n.Edges())
			assert.Equal(t, name, n.Name)
		})
	}
}

func TestLoadFile_NameFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depot.csv")
	require.NoError(t, os.WriteFile(path, []byte("Terminal 1,Store 1,3\n"), 0o600))

	n, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "depot", n.Name)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidInput, apperror.Code(err))
}
