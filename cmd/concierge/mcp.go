package main

import (
	"context"
	"flag"

	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/dusk-indust/concierge/internal/mcptools"
)

func runMCP(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	httpAddr := fs.String("http", "", "serve streamable HTTP on this address instead of stdio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := doctors.Load(e.cfg.DoctorsPath)
	if err != nil {
		return err
	}

	if *httpAddr != "" {
		return mcptools.RunDoctorMCPServer(ctx, dir, *httpAddr)
	}
	return mcptools.RunDoctorMCPServerStdio(ctx, mcptools.NewDoctorMCPServer(dir))
}
