// Package query post-processes zone and ACL list results before they are
// returned to the MCP caller. It supports field filtering, text search, and
// field projection so large sites don't flood the caller's context.
package query

import (
	"fmt"
	"strings"
)

// Options holds query parameters extracted from MCP request arguments.
type Options struct {
	Filter map[string]any // field -> exact value | {"contains": "..."}
	Search string         // case-insensitive search across string values
	Fields []string       // field projection (nil = all fields)
}

// HasQuery returns true if any query parameters are set.
func (o Options) HasQuery() bool {
	return len(o.Filter) > 0 || o.Search != "" || len(o.Fields) > 0
}

// ParseOptions extracts query options from MCP request arguments.
func ParseOptions(args map[string]any) Options {
	var opts Options
	if f, ok := args["filter"].(map[string]any); ok {
		opts.Filter = f
	}
	if s, ok := args["search"].(string); ok {
		opts.Search = s
	}
	if arr, ok := args["fields"].([]any); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				opts.Fields = append(opts.Fields, s)
			}
		}
	}
	return opts
}

// Apply runs filter, then search, then projection, so filter and search see
// all fields.
func Apply(items []map[string]any, opts Options) []map[string]any {
	if len(items) == 0 || !opts.HasQuery() {
		return items
	}

	result := items
	if len(opts.Filter) > 0 {
		filtered := make([]map[string]any, 0, len(result))
		for _, item := range result {
			if matchesFilter(item, opts.Filter) {
				filtered = append(filtered, item)
			}
		}
		result = filtered
	}
	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		found := make([]map[string]any, 0, len(result))
		for _, item := range result {
			if matchesSearch(item, needle) {
				found = append(found, item)
			}
		}
		result = found
	}
	if len(opts.Fields) > 0 {
		result = project(result, opts.Fields)
	}
	return result
}

func matchesFilter(item map[string]any, filter map[string]any) bool {
	for field, want := range filter {
		got, exists := item[field]
		if !exists {
			return false
		}
		// {"contains": "..."} does a case-insensitive substring match;
		// anything else is compared by string representation.
		if opMap, ok := want.(map[string]any); ok {
			needle, ok := opMap["contains"].(string)
			if !ok {
				return false
			}
			haystack := fmt.Sprintf("%v", got)
			if !strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)) {
				return false
			}
			continue
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func matchesSearch(item map[string]any, needle string) bool {
	for _, value := range item {
		switch v := value.(type) {
		case string:
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		case []any:
			// zone networkIds and similar string arrays
			for _, elem := range v {
				if s, ok := elem.(string); ok && strings.Contains(strings.ToLower(s), needle) {
					return true
				}
			}
		}
	}
	return false
}

func project(items []map[string]any, fields []string) []map[string]any {
	result := make([]map[string]any, len(items))
	for i, item := range items {
		projected := make(map[string]any, len(fields))
		for _, field := range fields {
			if val, ok := item[field]; ok {
				projected[field] = val
			}
		}
		result[i] = projected
	}
	return result
}
