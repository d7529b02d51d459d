// Package deprecated is a compatibility shim for the speculative ZBF
// operations whose controller endpoints were probed on real hardware and
// found absent (HTTP 404). Every call fails fast with a structured
// NotImplemented error instead of issuing a doomed network call, so callers
// can tell a permanently missing endpoint apart from a transient failure and
// skip retrying.
package deprecated

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/claytono/unifi-zbf-mcp/internal/apierr"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Operation identifies one retired ZBF operation.
type Operation string

const (
	OpGetZoneMatrix           Operation = "GetZoneMatrix"
	OpGetZonePolicies         Operation = "GetZonePolicies"
	OpUpdateZonePolicy        Operation = "UpdateZonePolicy"
	OpDeleteZonePolicy        Operation = "DeleteZonePolicy"
	OpBlockApplicationByZone  Operation = "BlockApplicationByZone"
	OpListBlockedApplications Operation = "ListBlockedApplications"
	OpGetZoneMatrixPolicy     Operation = "GetZoneMatrixPolicy"
	OpGetZoneStatistics       Operation = "GetZoneStatistics"
)

// ToolName returns the MCP tool name for the operation.
func (op Operation) ToolName() string {
	return strcase.ToSnake(string(op))
}

// Info is the fixed explanatory payload carried by each retired operation.
type Info struct {
	Op         Operation `yaml:"op"`
	Endpoint   string    `yaml:"endpoint"`
	Reason     string    `yaml:"reason"`
	Verified   string    `yaml:"verified"`
	Hardware   string    `yaml:"hardware"`
	Workaround string    `yaml:"workaround"`
}

//go:embed deprecations.yaml
var deprecationsYAML []byte

// table is built once at process start; there is no runtime state.
var table = mustLoadTable()

func mustLoadTable() map[Operation]Info {
	var infos []Info
	if err := yaml.Unmarshal(deprecationsYAML, &infos); err != nil {
		panic(fmt.Sprintf("deprecated: bad embedded deprecations.yaml: %v", err))
	}
	t := make(map[Operation]Info, len(infos))
	for _, info := range infos {
		t[info.Op] = info
	}
	return t
}

// Operations returns all retired operations in stable order.
func Operations() []Operation {
	ops := make([]Operation, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Lookup returns the explanatory payload for an operation.
func Lookup(op Operation) (Info, bool) {
	info, ok := table[op]
	return info, ok
}

// Err builds the NotImplemented error for an operation. The message names the
// endpoint that was probed and found absent, plus when and on what hardware,
// so the caller knows the failure is permanent.
func Err(op Operation) *apierr.Error {
	info, ok := table[op]
	if !ok {
		return apierr.Newf(apierr.NotImplemented, "%s is not implemented", op.ToolName())
	}
	e := apierr.Newf(apierr.NotImplemented,
		"%s is permanently unavailable: %s; %s returned HTTP 404 when verified %s on %s",
		op.ToolName(), info.Reason, info.Endpoint, info.Verified, info.Hardware)
	e.Hint = info.Workaround
	return e
}
