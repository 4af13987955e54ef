package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"distflow/services/throughput-svc/internal/input"
	"distflow/services/throughput-svc/internal/service"
)

func (c *CLI) validateCommand() *cobra.Command {
	var (
		network string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a network file can be built and solved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runValidate(cmd.Context(), network, asJSON)
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "", "network file (.yaml, .yml, .json or .csv)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	_ = cmd.MarkFlagRequired("network") //nolint:errcheck // flag defined above

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, path string, asJSON bool) error {
	n, err := input.LoadFile(path)
	if err != nil {
		return err
	}

	sum, err := c.newService(false).Inspect(ctx, &service.Request{Network: n})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	st := sum.Statistics
	connected := "yes"
	if !sum.Connected {
		connected = "no (maximum flow is 0)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Network:    %s\n", sum.Network)
	fmt.Fprintf(&b, "Nodes:      %d (%d terminals, %d warehouses, %d stores)\n",
		st.NodeCount, st.Terminals, st.Warehouses, st.Stores)
	fmt.Fprintf(&b, "Edges:      %d (capacity %.2f, %d unbounded, %d zero-capacity)\n",
		st.EdgeCount, st.TotalCapacity, st.UnboundedEdges, st.ZeroEdges)
	fmt.Fprintf(&b, "Connected:  %s\n", connected)
	fmt.Fprintln(&b, "OK")

	_, err = c.out.Write([]byte(b.String()))
	return err
}
