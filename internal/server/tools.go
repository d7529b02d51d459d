package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claytono/unifi-zbf-mcp/internal/apierr"
	"github.com/claytono/unifi-zbf-mcp/internal/deprecated"
	"github.com/claytono/unifi-zbf-mcp/internal/netnames"
	"github.com/claytono/unifi-zbf-mcp/internal/query"
	"github.com/claytono/unifi-zbf-mcp/internal/unifi"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerZoneTools(s *server.MCPServer, c ZoneClient, defaultSite string, dec *netnames.Decorator) {
	s.AddTool(
		mcp.NewTool("list_firewall_zones",
			mcp.WithDescription("List all firewall zones for a site, including network assignments"),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithObject("filter", mcp.Description("Field filter, e.g. {\"origin\": \"SYSTEM_DEFINED\"} or {\"name\": {\"contains\": \"lan\"}}")),
			mcp.WithString("search", mcp.Description("Case-insensitive text search across zone fields")),
			mcp.WithArray("fields", mcp.Description("Project the result to these fields only")),
			mcp.WithBoolean("resolve", mcp.Description("Inject networkNames next to networkIds (default true)")),
		),
		handleListZones(c, defaultSite, dec),
	)

	s.AddTool(
		mcp.NewTool("get_firewall_zone",
			mcp.WithDescription("Get a single firewall zone by id"),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithString("zone_id", mcp.Required(), mcp.Description("Zone identifier")),
			mcp.WithBoolean("resolve", mcp.Description("Inject networkNames next to networkIds (default true)")),
		),
		handleGetZone(c, defaultSite, dec),
	)

	s.AddTool(
		mcp.NewTool("create_firewall_zone",
			mcp.WithDescription("Create a user-defined firewall zone"),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Zone name")),
			mcp.WithArray("network_ids", mcp.Description("Network ids to assign to the new zone")),
		),
		handleCreateZone(c, defaultSite),
	)

	s.AddTool(
		mcp.NewTool("update_firewall_zone",
			mcp.WithDescription("Update a firewall zone's name and/or network assignments. "+
				"Omitted network_ids are preserved, never cleared."),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithString("zone_id", mcp.Required(), mcp.Description("Zone identifier")),
			mcp.WithString("name", mcp.Description("New zone name")),
			mcp.WithArray("network_ids", mcp.Description("Full replacement set of network ids")),
		),
		handleUpdateZone(c, defaultSite),
	)

	s.AddTool(
		mcp.NewTool("delete_firewall_zone",
			mcp.WithDescription("Delete a user-defined firewall zone. System-defined zones cannot be deleted."),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithString("zone_id", mcp.Required(), mcp.Description("Zone identifier")),
		),
		handleDeleteZone(c, defaultSite),
	)

	s.AddTool(
		mcp.NewTool("assign_network_to_zone",
			mcp.WithDescription("Assign one network to a zone. Idempotent: assigning an already-present network succeeds."),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithString("zone_id", mcp.Required(), mcp.Description("Zone identifier")),
			mcp.WithString("network_id", mcp.Required(), mcp.Description("Network identifier")),
		),
		handleAssignNetwork(c, defaultSite),
	)

	s.AddTool(
		mcp.NewTool("unassign_network_from_zone",
			mcp.WithDescription("Remove one network from a zone. Idempotent: unassigning an absent network succeeds."),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithString("zone_id", mcp.Required(), mcp.Description("Zone identifier")),
			mcp.WithString("network_id", mcp.Required(), mcp.Description("Network identifier")),
		),
		handleUnassignNetwork(c, defaultSite),
	)

	s.AddTool(
		mcp.NewTool("list_acl_rules",
			mcp.WithDescription("List traditional ACL firewall rules: the supported alternative to the "+
				"zone-pair policy endpoints this API does not expose"),
			mcp.WithString("site", mcp.Description("Site UUID or alias (defaults to the configured site)")),
			mcp.WithObject("filter", mcp.Description("Field filter")),
			mcp.WithString("search", mcp.Description("Case-insensitive text search")),
			mcp.WithArray("fields", mcp.Description("Project the result to these fields only")),
		),
		handleListACLRules(c, defaultSite),
	)
}

// registerDeprecatedTools registers a guard tool for every retired ZBF
// operation. The handlers never touch the network.
func registerDeprecatedTools(s *server.MCPServer) {
	for _, op := range deprecated.Operations() {
		info, _ := deprecated.Lookup(op)
		tool := mcp.NewTool(op.ToolName(),
			mcp.WithDescription(fmt.Sprintf("NOT IMPLEMENTED: %s. Workaround: %s", info.Reason, info.Workaround)),
			mcp.WithString("site", mcp.Description("Ignored; kept for argument compatibility")),
		)
		s.AddTool(tool, handleDeprecated(op))
	}
}

func handleDeprecated(op deprecated.Operation) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return errResult(deprecated.Err(op)), nil
	}
}

// siteArg pulls the site argument, falling back to the configured default.
func siteArg(args map[string]any, defaultSite string) string {
	if site, ok := args["site"].(string); ok && site != "" {
		return site
	}
	return defaultSite
}

// stringSliceArg pulls an optional []string argument. Returns nil when the
// argument is absent, which callers treat as "not supplied".
func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// errResult renders a structured tool error. apierr errors carry their kind
// and hint in the message; anything else is passed through as-is.
func errResult(err error) *mcp.CallToolResult {
	var e *apierr.Error
	if errors.As(err, &e) {
		return mcp.NewToolResultError(e.Error())
	}
	return mcp.NewToolResultError(err.Error())
}

// jsonResult marshals v as indented JSON.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// decorate runs netnames decoration unless the caller disabled it. Failures
// degrade to the undecorated text.
func decorate(ctx context.Context, dec *netnames.Decorator, args map[string]any, site, text string) string {
	if dec == nil {
		return text
	}
	if resolveArg, ok := args["resolve"].(bool); ok && !resolveArg {
		return text
	}
	decorated, err := dec.DecorateJSON(ctx, site, text)
	if err != nil {
		return text
	}
	return decorated
}

// applyQuery marshals items through maps so query options operate uniformly.
func applyQuery[T any](items []T, opts query.Options) (any, error) {
	if !opts.HasQuery() {
		return items, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var maps []map[string]any
	if err := json.Unmarshal(raw, &maps); err != nil {
		return nil, err
	}
	return query.Apply(maps, opts), nil
}

func handleListZones(c ZoneClient, defaultSite string, dec *netnames.Decorator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)

		zones, err := c.ListZones(ctx, site)
		if err != nil {
			return errResult(err), nil
		}

		result, err := applyQuery(zones, query.ParseOptions(args))
		if err != nil {
			return nil, err
		}
		res, err := jsonResult(result)
		if err != nil {
			return nil, err
		}
		text := res.Content[0].(mcp.TextContent).Text
		return mcp.NewToolResultText(decorate(ctx, dec, args, site, text)), nil
	}
}

func handleGetZone(c ZoneClient, defaultSite string, dec *netnames.Decorator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)
		zoneID, _ := args["zone_id"].(string)
		if zoneID == "" {
			return mcp.NewToolResultError("zone_id is required"), nil
		}

		zone, err := c.GetZone(ctx, site, zoneID)
		if err != nil {
			return errResult(err), nil
		}
		res, err := jsonResult(zone)
		if err != nil {
			return nil, err
		}
		text := res.Content[0].(mcp.TextContent).Text
		return mcp.NewToolResultText(decorate(ctx, dec, args, site, text)), nil
	}
}

func handleCreateZone(c ZoneClient, defaultSite string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		zone, err := c.CreateZone(ctx, site, name, stringSliceArg(args, "network_ids"))
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(zone)
	}
}

func handleUpdateZone(c ZoneClient, defaultSite string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)
		zoneID, _ := args["zone_id"].(string)
		if zoneID == "" {
			return mcp.NewToolResultError("zone_id is required"), nil
		}

		upd := unifi.ZoneUpdate{NetworkIDs: stringSliceArg(args, "network_ids")}
		if name, ok := args["name"].(string); ok {
			upd.Name = name
		}
		if upd.Name == "" && upd.NetworkIDs == nil {
			return mcp.NewToolResultError("nothing to update: supply name and/or network_ids"), nil
		}

		zone, err := c.UpdateZone(ctx, site, zoneID, upd)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(zone)
	}
}

func handleDeleteZone(c ZoneClient, defaultSite string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)
		zoneID, _ := args["zone_id"].(string)
		if zoneID == "" {
			return mcp.NewToolResultError("zone_id is required"), nil
		}

		if err := c.DeleteZone(ctx, site, zoneID); err != nil {
			return errResult(err), nil
		}
		return jsonResult(map[string]string{"status": "deleted", "zone_id": zoneID})
	}
}

func handleAssignNetwork(c ZoneClient, defaultSite string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)
		zoneID, _ := args["zone_id"].(string)
		networkID, _ := args["network_id"].(string)
		if zoneID == "" || networkID == "" {
			return mcp.NewToolResultError("zone_id and network_id are required"), nil
		}

		zone, err := c.AssignNetwork(ctx, site, zoneID, networkID)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(zone)
	}
}

func handleUnassignNetwork(c ZoneClient, defaultSite string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)
		zoneID, _ := args["zone_id"].(string)
		networkID, _ := args["network_id"].(string)
		if zoneID == "" || networkID == "" {
			return mcp.NewToolResultError("zone_id and network_id are required"), nil
		}

		zone, err := c.UnassignNetwork(ctx, site, zoneID, networkID)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(zone)
	}
}

func handleListACLRules(c ZoneClient, defaultSite string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		site := siteArg(args, defaultSite)

		rules, err := c.ListACLRules(ctx, site)
		if err != nil {
			return errResult(err), nil
		}
		result, err := applyQuery(rules, query.ParseOptions(args))
		if err != nil {
			return nil, err
		}
		return jsonResult(result)
	}
}
