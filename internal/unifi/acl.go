package unifi

import (
	"context"
	"fmt"
)

// ACLRule is a traditional firewall rule. Zone-pair policy endpoints do not
// exist on current controllers, so ACL rules are the supported way to express
// inter-network policy through this API.
type ACLRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
	Enabled     bool   `json:"enabled"`
	Index       int    `json:"index,omitempty"`
}

// ListACLRules returns all traditional ACL rules for a site.
func (c *Client) ListACLRules(ctx context.Context, site string) ([]ACLRule, error) {
	siteID, err := c.resolveSite(ctx, site)
	if err != nil {
		return nil, err
	}
	return listAll[ACLRule](ctx, c, fmt.Sprintf("/sites/%s/acls", siteID))
}
