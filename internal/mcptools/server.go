package mcptools

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewDoctorMCPServer creates an MCP server with the list_doctors tool registered.
func NewDoctorMCPServer(dir *doctors.Directory) *mcp.Server {
	svc := NewDoctorService(dir)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "concierge-doctors",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        doctors.ToolName,
		Description: doctors.ToolDescription,
	}, svc.ListDoctors)

	return server
}

// RunDoctorMCPServerStdio runs the MCP server on stdio transport, blocking
// until stdin is closed or the context is cancelled.
func RunDoctorMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunDoctorMCPServer starts an HTTP server exposing the doctor MCP tools over
// the streamable HTTP transport.
func RunDoctorMCPServer(ctx context.Context, dir *doctors.Directory, addr string) error {
	server := NewDoctorMCPServer(dir)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	slog.Info("doctor MCP server listening", "addr", addr, "doctors", dir.Len())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
