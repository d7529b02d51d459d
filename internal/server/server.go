// Package server builds the MCP server exposing the zone-based firewall
// tools over stdio.
package server

import (
	"context"
	"fmt"

	"github.com/claytono/unifi-zbf-mcp/internal/netnames"
	"github.com/claytono/unifi-zbf-mcp/internal/unifi"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time.
var Version = "dev"

const ServerName = "unifi-zbf-mcp"

// ZoneClient is the controller surface the tools need. *unifi.Client
// satisfies it; tests substitute a fake.
type ZoneClient interface {
	ListZones(ctx context.Context, site string) ([]unifi.Zone, error)
	GetZone(ctx context.Context, site, zoneID string) (*unifi.Zone, error)
	CreateZone(ctx context.Context, site, name string, networkIDs []string) (*unifi.Zone, error)
	UpdateZone(ctx context.Context, site, zoneID string, upd unifi.ZoneUpdate) (*unifi.Zone, error)
	AssignNetwork(ctx context.Context, site, zoneID, networkID string) (*unifi.Zone, error)
	UnassignNetwork(ctx context.Context, site, zoneID, networkID string) (*unifi.Zone, error)
	DeleteZone(ctx context.Context, site, zoneID string) error
	ListACLRules(ctx context.Context, site string) ([]unifi.ACLRule, error)
	ListNetworks(ctx context.Context, site string) ([]unifi.Network, error)
}

// Options configures server creation.
type Options struct {
	Client ZoneClient
	// DefaultSite is used when a tool call omits the site argument.
	DefaultSite string
	// LogLevel drives netnames debug logging.
	LogLevel string
}

// New creates an MCP server with the zone tools and the deprecated endpoint
// guards registered.
func New(opts Options) (*server.MCPServer, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if opts.DefaultSite == "" {
		opts.DefaultSite = "default"
	}

	decorator := netnames.New(opts.Client, netnames.NewLogger(opts.LogLevel))

	s := server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(true),
	)

	registerZoneTools(s, opts.Client, opts.DefaultSite, decorator)
	registerDeprecatedTools(s)

	return s, nil
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
