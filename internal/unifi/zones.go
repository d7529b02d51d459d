package unifi

import (
	"context"
	"fmt"
	"slices"

	"github.com/claytono/unifi-zbf-mcp/internal/apierr"
)

// Zone origins as reported by the controller. The six system-defined zones
// (Hotspot, Gateway, External, Dmz, Vpn, Internal) are always present and
// cannot be deleted.
const (
	OriginSystemDefined = "SYSTEM_DEFINED"
	OriginUserDefined   = "USER_DEFINED"
)

// Zone is a named grouping of networks used as a traffic-policy boundary.
type Zone struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	NetworkIDs []string `json:"networkIds"`
	Origin     string   `json:"origin,omitempty"`
}

// SystemDefined reports whether the controller provisioned this zone itself.
func (z Zone) SystemDefined() bool {
	return z.Origin == OriginSystemDefined
}

// zoneWrite is the request body for zone create and update calls. The
// controller treats a PUT with networkIds omitted as "clear all assignments",
// so the field carries no omitempty and is always serialized.
type zoneWrite struct {
	Name       string   `json:"name"`
	NetworkIDs []string `json:"networkIds"`
}

// ZoneUpdate describes a partial zone update. A nil NetworkIDs means "keep
// the current assignments"; the client fetches and echoes them because the
// controller clears assignments when the field is omitted.
type ZoneUpdate struct {
	Name       string
	NetworkIDs []string
}

func zonesPath(siteID string) string {
	return fmt.Sprintf("/sites/%s/firewall/zones", siteID)
}

func zonePath(siteID, zoneID string) string {
	return fmt.Sprintf("/sites/%s/firewall/zones/%s", siteID, zoneID)
}

// ListZones returns all firewall zones for a site, following pagination.
func (c *Client) ListZones(ctx context.Context, site string) ([]Zone, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	return listAll[Zone](ctx, c, zonesPath(siteID))
}

// GetZone returns a single zone by id.
func (c *Client) GetZone(ctx context.Context, site, zoneID string) (*Zone, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	var zone Zone
	if err := c.get(ctx, zonePath(siteID, zoneID), &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// CreateZone creates a user-defined zone. The controller assigns the id.
func (c *Client) CreateZone(ctx context.Context, site, name string, networkIDs []string) (*Zone, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apierr.New(apierr.Validation, "zone name is required")
	}
	if networkIDs == nil {
		networkIDs = []string{}
	}
	var zone Zone
	body := zoneWrite{Name: name, NetworkIDs: networkIDs}
	if err := c.post(ctx, zonesPath(siteID), body, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// UpdateZone updates a zone's name and/or network assignments. When the
// caller does not supply a replacement NetworkIDs set (or a new name), the
// current zone is fetched first and its values are merged into the outgoing
// payload. This read-modify-write is required: a PUT without networkIds
// silently clears the zone's network assignments.
func (c *Client) UpdateZone(ctx context.Context, site, zoneID string, upd ZoneUpdate) (*Zone, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}

	name := upd.Name
	networkIDs := upd.NetworkIDs
	if name == "" || networkIDs == nil {
		current, err := c.getZoneByID(ctx, siteID, zoneID)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = current.Name
		}
		if networkIDs == nil {
			networkIDs = current.NetworkIDs
		}
	}

	return c.putZone(ctx, siteID, zoneID, name, networkIDs)
}

// AssignNetwork adds one network to a zone's assignment set. Assigning an
// already-present id is a no-op success.
func (c *Client) AssignNetwork(ctx context.Context, site, zoneID, networkID string) (*Zone, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	zone, err := c.getZoneByID(ctx, siteID, zoneID)
	if err != nil {
		return nil, err
	}
	if slices.Contains(zone.NetworkIDs, networkID) {
		return zone, nil
	}
	updated := append(slices.Clone(zone.NetworkIDs), networkID)
	return c.putZone(ctx, siteID, zoneID, zone.Name, updated)
}

// UnassignNetwork removes one network from a zone's assignment set.
// Unassigning an absent id is a no-op success.
func (c *Client) UnassignNetwork(ctx context.Context, site, zoneID, networkID string) (*Zone, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	zone, err := c.getZoneByID(ctx, siteID, zoneID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(zone.NetworkIDs, networkID) {
		return zone, nil
	}
	updated := slices.DeleteFunc(slices.Clone(zone.NetworkIDs), func(id string) bool {
		return id == networkID
	})
	return c.putZone(ctx, siteID, zoneID, zone.Name, updated)
}

// DeleteZone deletes a user-defined zone. The controller answers 200 with an
// empty body; deleting a system-defined zone is refused with a Conflict.
func (c *Client) DeleteZone(ctx context.Context, site, zoneID string) error {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return err
	}
	return c.delete(ctx, zonePath(siteID, zoneID))
}

// getZoneByID fetches a zone for a site id that has already been resolved.
func (c *Client) getZoneByID(ctx context.Context, siteID, zoneID string) (*Zone, error) {
	var zone Zone
	if err := c.get(ctx, zonePath(siteID, zoneID), &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// putZone issues the PUT with the full replacement payload. networkIds is
// always present in the body, empty set included.
func (c *Client) putZone(ctx context.Context, siteID, zoneID, name string, networkIDs []string) (*Zone, error) {
	if networkIDs == nil {
		networkIDs = []string{}
	}
	var zone Zone
	body := zoneWrite{Name: name, NetworkIDs: networkIDs}
	if err := c.put(ctx, zonePath(siteID, zoneID), body, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}
