package unifi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureSiteID = "88f7af54-98f8-306a-a1c7-c9349722b1f6"

// fixtureController is an in-memory stand-in for a local gateway's
// Integration v1 API, including its quirks: paths must carry the
// /proxy/network prefix, a PUT without networkIds clears assignments, and
// system-defined zones refuse deletion.
type fixtureController struct {
	t        *testing.T
	zones    []Zone
	networks []Network
	acls     []ACLRule
	// maxPage caps the server-side page size to force pagination.
	maxPage int
	// requests records "METHOD path" for every request received.
	requests []string
	// lastPutBody and lastPostBody hold the raw decoded write payloads.
	lastPutBody  map[string]any
	lastPostBody map[string]any

	srv *httptest.Server
}

func newFixture(t *testing.T) *fixtureController {
	t.Helper()
	f := &fixtureController{
		t: t,
		zones: []Zone{
			{ID: "z-hotspot", Name: "Hotspot", NetworkIDs: []string{}, Origin: OriginSystemDefined},
			{ID: "z-gateway", Name: "Gateway", NetworkIDs: []string{}, Origin: OriginSystemDefined},
			{ID: "z-external", Name: "External", NetworkIDs: []string{"net-wan"}, Origin: OriginSystemDefined},
			{ID: "z-dmz", Name: "Dmz", NetworkIDs: []string{}, Origin: OriginSystemDefined},
			{ID: "z-vpn", Name: "Vpn", NetworkIDs: []string{"net-vpn1", "net-vpn2"}, Origin: OriginSystemDefined},
			{ID: "z-internal", Name: "Internal", NetworkIDs: []string{"net-lan", "net-iot", "net-guest", "net-mgmt"}, Origin: OriginSystemDefined},
		},
		networks: []Network{
			{ID: "net-wan", Name: "WAN"},
			{ID: "net-vpn1", Name: "WireGuard"},
			{ID: "net-vpn2", Name: "Teleport"},
			{ID: "net-lan", Name: "LAN"},
			{ID: "net-iot", Name: "IoT"},
			{ID: "net-guest", Name: "Guest"},
			{ID: "net-mgmt", Name: "Management"},
		},
		acls: []ACLRule{
			{ID: "acl-1", Name: "Block IoT to LAN", Action: "BLOCK", Enabled: true, Index: 1},
			{ID: "acl-2", Name: "Allow LAN to WAN", Action: "ALLOW", Enabled: true, Index: 2},
		},
	}
	f.srv = httptest.NewTLSServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// client builds a Client pointed at the fixture. VerifySSL is false because
// httptest serves a self-signed certificate, same as a real local gateway.
func (f *fixtureController) client() *Client {
	f.t.Helper()
	c, err := NewClient(ClientConfig{
		Host:      f.srv.URL,
		APIKey:    "fixture-key",
		VerifySSL: false,
	})
	require.NoError(f.t, err)
	return c
}

func (f *fixtureController) countRequests(prefix string) int {
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fixtureController) findZone(id string) *Zone {
	for i := range f.zones {
		if f.zones[i].ID == id {
			return &f.zones[i]
		}
	}
	return nil
}

func (f *fixtureController) handle(w http.ResponseWriter, r *http.Request) {
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	if r.Header.Get("X-API-Key") != "fixture-key" {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	// Local gateways only answer under the proxy prefix.
	path, ok := strings.CutPrefix(r.URL.Path, "/proxy/network/integration/v1")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if path == "/sites" {
		sites := []Site{{ID: fixtureSiteID, InternalReference: "default", Name: "Default"}}
		f.paginate(w, r, toAny(sites))
		return
	}

	rest, ok := strings.CutPrefix(path, "/sites/"+fixtureSiteID)
	if !ok {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}

	switch {
	case rest == "/firewall/zones":
		switch r.Method {
		case http.MethodGet:
			f.paginate(w, r, toAny(f.zones))
		case http.MethodPost:
			f.createZone(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case strings.HasPrefix(rest, "/firewall/zones/"):
		f.zoneByID(w, r, strings.TrimPrefix(rest, "/firewall/zones/"))
	case rest == "/networks":
		f.paginate(w, r, toAny(f.networks))
	case rest == "/acls":
		f.paginate(w, r, toAny(f.acls))
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (f *fixtureController) createZone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string    `json:"name"`
		NetworkIDs *[]string `json:"networkIds"`
	}
	decodeBody(f.t, r, &f.lastPostBody, &body)

	for _, z := range f.zones {
		if z.Name == body.Name {
			writeError(w, http.StatusBadRequest, "a zone with this name already exists")
			return
		}
	}
	networks := []string{}
	if body.NetworkIDs != nil {
		networks = *body.NetworkIDs
	}
	zone := Zone{
		ID:         "z-user-" + strconv.Itoa(len(f.zones)),
		Name:       body.Name,
		NetworkIDs: networks,
		Origin:     OriginUserDefined,
	}
	f.zones = append(f.zones, zone)
	writeJSON(w, zone)
}

func (f *fixtureController) zoneByID(w http.ResponseWriter, r *http.Request, zoneID string) {
	zone := f.findZone(zoneID)
	if zone == nil {
		writeError(w, http.StatusNotFound, "zone not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, zone)
	case http.MethodPut:
		var body struct {
			Name       string    `json:"name"`
			NetworkIDs *[]string `json:"networkIds"`
		}
		decodeBody(f.t, r, &f.lastPutBody, &body)
		if body.Name != "" {
			zone.Name = body.Name
		}
		// The controller quirk under test: omitting networkIds clears
		// the zone's assignments.
		if body.NetworkIDs == nil {
			zone.NetworkIDs = []string{}
		} else {
			zone.NetworkIDs = *body.NetworkIDs
		}
		writeJSON(w, zone)
	case http.MethodDelete:
		if zone.Origin == OriginSystemDefined {
			writeError(w, http.StatusConflict, "system-defined zones cannot be deleted")
			return
		}
		for i := range f.zones {
			if f.zones[i].ID == zoneID {
				f.zones = append(f.zones[:i], f.zones[i+1:]...)
				break
			}
		}
		// Real controllers answer 200 with an empty body.
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (f *fixtureController) paginate(w http.ResponseWriter, r *http.Request, items []any) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 25
	}
	if f.maxPage > 0 && limit > f.maxPage {
		limit = f.maxPage
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := min(offset+limit, len(items))

	writeJSON(w, map[string]any{
		"offset":     offset,
		"limit":      limit,
		"count":      end - offset,
		"totalCount": len(items),
		"data":       items[offset:end],
	})
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func decodeBody(t *testing.T, r *http.Request, rawOut *map[string]any, typed any) []byte {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, rawOut))
	require.NoError(t, json.Unmarshal(raw, typed))
	return raw
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": status, "message": message})
}
