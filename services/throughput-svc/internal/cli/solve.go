package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"distflow/pkg/apperror"
	"distflow/pkg/logger"
	"distflow/services/throughput-svc/internal/input"
	"distflow/services/throughput-svc/internal/report"
	"distflow/services/throughput-svc/internal/service"
)

type solveOptions struct {
	network   string
	strategy  string
	format    string
	output    string
	terminals []string
	stores    []string
	flows     bool
	parallel  bool
}

func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOptions

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a network and print the terminal-to-store flow report",
		Example: `  distflow solve --network examples/network.yaml
  distflow solve -n network.csv --strategy paths --format markdown
  distflow solve -n network.yaml --format xlsx --output flows.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runSolve(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.network, "network", "n", "", "network file (.yaml, .yml, .json or .csv)")
	f.StringVarP(&opts.strategy, "strategy", "s", "", "attribution strategy: proportional, paths (default from config)")
	f.StringVarP(&opts.format, "format", "f", "", "report format: text, markdown, csv, json, xlsx, pdf (default from config)")
	f.StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	f.StringSliceVar(&opts.terminals, "terminals", nil, "terminal IDs to supply from (default: every terminal)")
	f.StringSliceVar(&opts.stores, "stores", nil, "store IDs to deliver to (default: every store)")
	f.BoolVar(&opts.flows, "flows", false, "include per-edge flows in the report")
	f.BoolVar(&opts.parallel, "parallel", false, "compute warehouse shares concurrently")
	_ = cmd.MarkFlagRequired("network") //nolint:errcheck // flag defined above

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, opts *solveOptions) error {
	formatName := opts.format
	if formatName == "" {
		formatName = c.cfg.Report.Format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format.Binary() && opts.output == "" {
		return apperror.Newf(apperror.CodeInvalidInput, "format %s is binary; use --output", format).
			WithField("output")
	}

	gen, err := report.New(format)
	if err != nil {
		return err
	}

	n, err := input.LoadFile(opts.network)
	if err != nil {
		return err
	}
	logger.Info("network loaded", "file", opts.network, "nodes", n.NodeCount(), "edges", n.EdgeCount())

	res, err := c.newService(opts.parallel).Run(ctx, &service.Request{
		Network:   n,
		Terminals: opts.terminals,
		Stores:    opts.stores,
		Strategy:  opts.strategy,
	})
	if err != nil {
		return err
	}

	body, err := gen.Generate(ctx, res.ReportData(c.reportOptions(opts.flows)))
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = c.out.Write(body)
		return err
	}

	if err := os.WriteFile(opts.output, body, 0o644); err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, fmt.Sprintf("write report: %v", err))
	}
	logger.WithRunID(res.RunID).Info("report written",
		"path", opts.output,
		"format", format,
		"bytes", len(body),
	)
	return nil
}
