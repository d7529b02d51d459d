// Package netnames decorates zone JSON responses with human-readable network
// names. Zone payloads carry opaque networkIds; when enabled, the decorator
// looks the referenced networks up once per request and injects a sibling
// networkNames field, preserving the original key order.
package netnames

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claytono/unifi-zbf-mcp/internal/unifi"
	"github.com/iancoleman/orderedmap"
)

const (
	idsKey   = "networkIds"
	namesKey = "networkNames"
)

// NetworkLister is the slice of the controller client the decorator needs.
type NetworkLister interface {
	ListNetworks(ctx context.Context, site string) ([]unifi.Network, error)
}

// Decorator injects networkNames fields next to networkIds fields.
type Decorator struct {
	client NetworkLister
	logger *slog.Logger
}

// New creates a Decorator. A nil logger discards debug output.
func New(client NetworkLister, logger *slog.Logger) *Decorator {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Decorator{client: client, logger: logger}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// DecorateJSON takes a JSON string (a zone object or array of zones), injects
// networkNames fields, and returns the modified JSON. The network list is
// fetched at most once per call. On any lookup failure the input is returned
// unchanged so the caller still sees the undecorated response.
func (d *Decorator) DecorateJSON(ctx context.Context, site, jsonStr string) (string, error) {
	start := time.Now()
	var names map[string]string // lazily fetched id -> name index

	lookup := func() (map[string]string, error) {
		if names != nil {
			return names, nil
		}
		networks, err := d.client.ListNetworks(ctx, site)
		if err != nil {
			return nil, err
		}
		names = make(map[string]string, len(networks))
		for _, n := range networks {
			if n.ID != "" && n.Name != "" {
				names[n.ID] = n.Name
			}
		}
		return names, nil
	}

	trimmed := strings.TrimSpace(jsonStr)
	var decorated int

	switch {
	case strings.HasPrefix(trimmed, "["):
		var items []*orderedmap.OrderedMap
		if err := json.Unmarshal([]byte(jsonStr), &items); err != nil {
			return jsonStr, fmt.Errorf("failed to parse JSON array: %w", err)
		}
		for _, item := range items {
			if item == nil {
				continue
			}
			n, err := decorateMap(item, lookup)
			if err != nil {
				return jsonStr, err
			}
			decorated += n
		}
		result, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return jsonStr, fmt.Errorf("failed to marshal decorated JSON: %w", err)
		}
		d.logger.Debug("netnames: completed",
			"fields_decorated", decorated,
			"duration", time.Since(start))
		return string(result), nil

	case strings.HasPrefix(trimmed, "{"):
		om := orderedmap.New()
		if err := json.Unmarshal([]byte(jsonStr), om); err != nil {
			return jsonStr, fmt.Errorf("failed to parse JSON object: %w", err)
		}
		n, err := decorateMap(om, lookup)
		if err != nil {
			return jsonStr, err
		}
		decorated = n
		result, err := json.MarshalIndent(om, "", "  ")
		if err != nil {
			return jsonStr, fmt.Errorf("failed to marshal decorated JSON: %w", err)
		}
		d.logger.Debug("netnames: completed",
			"fields_decorated", decorated,
			"duration", time.Since(start))
		return string(result), nil
	}

	return jsonStr, nil
}

// decorateMap injects a networkNames field immediately after networkIds,
// rebuilding the map to keep key order stable.
func decorateMap(om *orderedmap.OrderedMap, lookup func() (map[string]string, error)) (int, error) {
	value, exists := om.Get(idsKey)
	if !exists {
		return 0, nil
	}
	ids, ok := value.([]any)
	if !ok || len(ids) == 0 {
		return 0, nil
	}

	index, err := lookup()
	if err != nil {
		return 0, err
	}

	resolved := make([]string, 0, len(ids))
	for _, idRaw := range ids {
		id, ok := idRaw.(string)
		if !ok {
			continue
		}
		if name := index[id]; name != "" {
			resolved = append(resolved, name)
		}
	}
	if len(resolved) == 0 {
		return 0, nil
	}

	newOM := orderedmap.New()
	for _, key := range om.Keys() {
		v, _ := om.Get(key)
		newOM.Set(key, v)
		if key == idsKey {
			newOM.Set(namesKey, resolved)
		}
	}

	oldKeys := make([]string, len(om.Keys()))
	copy(oldKeys, om.Keys())
	for _, key := range oldKeys {
		om.Delete(key)
	}
	for _, key := range newOM.Keys() {
		v, _ := newOM.Get(key)
		om.Set(key, v)
	}

	return 1, nil
}
