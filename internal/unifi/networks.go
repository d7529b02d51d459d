package unifi

import (
	"context"
	"fmt"
)

// Network is a minimal view of a site network, enough to turn the opaque ids
// held in zone assignments into human-readable names. The network registry
// itself is owned by the controller.
type Network struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListNetworks returns all networks for a site, following pagination.
func (c *Client) ListNetworks(ctx context.Context, site string) ([]Network, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	return listAll[Network](ctx, c, fmt.Sprintf("/sites/%s/networks", siteID))
}
