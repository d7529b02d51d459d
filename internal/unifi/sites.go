package unifi

import (
	"context"
	"regexp"
	"strings"

	"github.com/claytono/unifi-zbf-mcp/internal/apierr"
)

// Site scopes all zone operations. Sites are referenced, never created or
// destroyed, by this client.
type Site struct {
	ID string `json:"id"`
	// InternalReference is the legacy short name ("default" on most
	// installs), distinct from the UUID the Integration API requires.
	InternalReference string `json:"internalReference"`
	Name              string `json:"name"`
}

var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ListSites returns all sites visible to the API key.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	return listAll[Site](ctx, c, "/sites")
}

// resolveSite maps a caller-supplied site reference onto the UUID the
// controller requires. UUIDs pass through untouched; anything else is treated
// as an alias ("default", a site name) and resolved against the site list.
// An unresolvable alias fails with a Validation error rather than being sent
// to the controller, where it would surface as a confusing 404.
func (c *Client) resolveSite(ctx context.Context, site string) (string, error) {
	if site == "" {
		return "", apierr.New(apierr.Validation, "site is required")
	}
	if uuidRe.MatchString(strings.ToLower(site)) {
		return site, nil
	}

	sites, err := c.ListSites(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range sites {
		if s.InternalReference == site || s.Name == site {
			c.logger.WithField("site", site).WithField("site_id", s.ID).
				Debug("resolved site alias")
			return s.ID, nil
		}
	}

	e := apierr.Newf(apierr.Validation, "site %q is not a site UUID and matches no site name", site)
	e.Hint = "list sites to find the site UUID and pass it directly"
	return "", e
}
