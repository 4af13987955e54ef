// services/throughput-svc/cmd/main.go

// Command distflow computes the maximum throughput of a terminal, warehouse
// and store distribution network and attributes every store delivery back to
// the terminals that supplied it.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                      distflow (cobra)                        │
//	│        solve  │  validate  │  serve  │  version              │
//	│                 (internal/cli/*.go)                          │
//	└─────────────────────────────────────────────────────────────┘
//	                              │
//	┌─────────────────────────────────────────────────────────────┐
//	│                   HTTP transport (serve)                     │
//	│   POST /v1/solve  POST /v1/validate  GET /health  /metrics   │
//	│                (internal/transport/http.go)                  │
//	└─────────────────────────────────────────────────────────────┘
//	                              │
//	┌─────────────────────────────────────────────────────────────┐
//	│                   ThroughputService                          │
//	│     augment → cache lookup → Edmonds-Karp → attribution      │
//	│                 (internal/service/*.go)                      │
//	└─────────────────────────────────────────────────────────────┘
//	                              │
//	┌─────────────────────────────────────────────────────────────┐
//	│   network (super source/sink)  │  algorithms (max flow, cut) │
//	│   attribution (proportional, paths)  │  report (6 formats)   │
//	└─────────────────────────────────────────────────────────────┘
//
// # Usage
//
//	distflow solve --network examples/network.yaml
//	distflow solve -n examples/network.csv --format xlsx --output flows.xlsx
//	distflow validate --network examples/network.yaml --json
//	distflow serve --port 8080
//
// # Configuration
//
// Configuration is read from distflow.yaml, config/distflow.yaml or
// /etc/distflow/config.yaml, the file given by --config or DISTFLOW_CONFIG,
// and DISTFLOW_* environment variables, in increasing priority:
//
//	DISTFLOW_LOG_LEVEL          - Log level: debug, info, warn, error (default: info)
//	DISTFLOW_LOG_FORMAT         - Log format: json, text (default: json)
//	DISTFLOW_LOG_OUTPUT         - Output: stdout, stderr, file (default: stderr)
//	DISTFLOW_HTTP_PORT          - serve port (default: 8080)
//	DISTFLOW_CACHE_ENABLED      - Cache solved networks (default: false)
//	DISTFLOW_CACHE_DRIVER       - Cache backend: memory, redis (default: memory)
//	DISTFLOW_TRACING_ENABLED    - OpenTelemetry tracing (default: false)
//	DISTFLOW_METRICS_PUSH_GATEWAY - Push metrics after solve/validate
//	DISTFLOW_SOLVER_STRATEGY    - Attribution strategy: proportional, paths
//	DISTFLOW_REPORT_FORMAT      - Default report format (default: text)
//
// # Exit Codes
//
//	0   - success
//	1   - internal error
//	2   - invalid input or configuration
//	3   - unbounded flow (a terminal reaches a store through unbounded edges only)
//	130 - interrupted
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"distflow/pkg/apperror"
	"distflow/services/throughput-svc/internal/cli"
)

// Переопределяются через -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version, commit, date)

	err := cli.New(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
	if err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		stop()
		os.Exit(130)
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	stop()
	os.Exit(apperror.ExitCode(err))
}
