// Package mcpserver exposes filesystem checks as MCP tools over stdio, so that
// assistants and other MCP clients can query the current usage verdicts.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"dfinspect/internal/model"
)

const (
	toolListHosts  = "list_hosts"
	toolCheckHost  = "check_host"
	toolInspectAll = "inspect_all"
)

// Inspector evaluates the items of hosts.
type Inspector interface {
	Run(ctx context.Context) (*model.InspectionResult, error)
	InspectHost(ctx context.Context, host *model.HostMeta) *model.HostResult
}

// HostLister returns the hosts that are inspected.
type HostLister interface {
	Hosts(ctx context.Context) ([]*model.HostMeta, error)
}

// Server wraps an MCP server with the df tools registered.
type Server struct {
	mcp       *server.MCPServer
	inspector Inspector
	hosts     HostLister
	logger    zerolog.Logger
}

// New creates a server and registers its tools.
func New(inspector Inspector, hosts HostLister, version string, logger zerolog.Logger) *Server {
	s := &Server{
		mcp:       server.NewMCPServer("dfinspect", version, server.WithToolCapabilities(false)),
		inspector: inspector,
		hosts:     hosts,
		logger:    logger.With().Str("component", "mcp").Logger(),
	}

	s.mcp.AddTool(mcp.NewTool(toolListHosts,
		mcp.WithDescription("List the hosts whose filesystems are inspected."),
	), s.handleListHosts)

	s.mcp.AddTool(mcp.NewTool(toolCheckHost,
		mcp.WithDescription("Evaluate the filesystem usage of one host and return one status line per item."),
		mcp.WithString("host",
			mcp.Required(),
			mcp.Description("Host ident or hostname as returned by list_hosts."),
		),
	), s.handleCheckHost)

	s.mcp.AddTool(mcp.NewTool(toolInspectAll,
		mcp.WithDescription("Inspect all hosts and return the summary and every non-OK item."),
	), s.handleInspectAll)

	return s
}

// ServeStdio serves MCP requests on stdin/stdout until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleListHosts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hosts, err := s.hosts.Hosts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list hosts: %v", err)), nil
	}
	data, err := json.MarshalIndent(hosts, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode hosts: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleCheckHost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("host", ""))
	if name == "" {
		return mcp.NewToolResultError("host is required"), nil
	}

	host, err := s.findHost(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Debug().Str("host", host.Ident).Msg("Checking host")
	result := s.inspector.InspectHost(ctx, host)
	return mcp.NewToolResultText(FormatHost(result)), nil
}

func (s *Server) handleInspectAll(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.inspector.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspection failed: %v", err)), nil
	}

	var b strings.Builder
	sum := result.Summary
	fmt.Fprintf(&b, "%d hosts: %d normal, %d warning, %d critical, %d unknown, %d skipped\n",
		sum.TotalHosts, sum.NormalHosts, sum.WarningHosts, sum.CriticalHosts, sum.UnknownHosts, sum.SkippedHosts)
	for _, alert := range model.SortAlerts(result.Alerts) {
		first, _, _ := strings.Cut(alert.Summary, "\n")
		fmt.Fprintf(&b, "%s %s %s - %s %s\n", alert.State, alert.Hostname, alert.Item, first, alert.State.Marker())
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// findHost matches name against the ident and the hostname of known hosts.
func (s *Server) findHost(ctx context.Context, name string) (*model.HostMeta, error) {
	hosts, err := s.hosts.Hosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	for _, h := range hosts {
		if h.Ident == name || h.Hostname == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("unknown host %q", name)
}

// FormatHost renders a host result as a header line followed by one line per item.
func FormatHost(host *model.HostResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", host.Hostname, host.Status)
	if host.Error != "" {
		fmt.Fprintf(&b, " (%s)", host.Error)
	}
	for _, item := range host.Items {
		b.WriteString("\n")
		b.WriteString(item.Line())
	}
	return b.String()
}
