// Package tools holds the static tool catalog, the schema-validating
// invoker, and the discovery facade the planner talks to.
package tools

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is an immutable index over tool definitions. It is built once at
// startup and shared read-only.
type Catalog struct {
	defs         map[string]ToolDefinition
	names        []string // sorted
	byCategory   map[string][]string
	byAction     map[string][]string
	toolCategory map[string]string
}

// NewCatalog indexes the given definitions. Duplicate names are rejected.
func NewCatalog(defs []ToolDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:         make(map[string]ToolDefinition, len(defs)),
		byCategory:   make(map[string][]string),
		byAction:     make(map[string][]string),
		toolCategory: make(map[string]string, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("tool definition with empty name")
		}
		if _, exists := c.defs[d.Name]; exists {
			return nil, fmt.Errorf("duplicate tool definition '%s'", d.Name)
		}
		c.defs[d.Name] = d
		c.names = append(c.names, d.Name)
		c.byCategory[d.Category] = append(c.byCategory[d.Category], d.Name)
		for _, action := range d.Actions {
			c.byAction[action] = append(c.byAction[action], d.Name)
		}
		c.toolCategory[d.Name] = d.Category
	}
	sort.Strings(c.names)
	return c, nil
}

// Names returns all tool names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns a tool definition by name.
func (c *Catalog) Get(name string) (ToolDefinition, bool) {
	d, ok := c.defs[name]
	return d, ok
}

// Category returns the category a tool belongs to.
func (c *Catalog) Category(name string) (string, bool) {
	cat, ok := c.toolCategory[name]
	return cat, ok
}

// IsDestructive reports whether invoking the tool permanently removes data.
func (c *Catalog) IsDestructive(name string) bool {
	d, ok := c.defs[name]
	return ok && d.Destructive
}

// ItemLabel names the kind of item a destructive tool removes, for
// confirmation prompts. The second return is false for non-destructive or
// unknown tools.
func (c *Catalog) ItemLabel(name string) (string, bool) {
	d, ok := c.defs[name]
	if !ok || !d.Destructive {
		return "", false
	}
	switch d.Category {
	case CategoryCalendar:
		return "calendar event", true
	case CategoryTasks:
		return "task", true
	case CategoryEmail:
		return "email", true
	default:
		return "item", true
	}
}

// ToolSummary is the lightweight discovery view of a tool.
type ToolSummary struct {
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	IsWrite  bool   `json:"is_write"`
}

// DiscoverQuery filters the catalog. All present filters must match; an
// empty query matches everything.
type DiscoverQuery struct {
	Categories []string
	Actions    []string
	Query      string
}

// Discover returns summaries of the tools matching the query, sorted by
// name.
func (c *Catalog) Discover(q DiscoverQuery) []ToolSummary {
	matching := make(map[string]bool, len(c.names))
	for _, name := range c.names {
		matching[name] = true
	}

	if len(q.Categories) > 0 {
		keep := make(map[string]bool)
		for _, cat := range q.Categories {
			for _, name := range c.byCategory[cat] {
				keep[name] = true
			}
		}
		matching = intersect(matching, keep)
	}
	if len(q.Actions) > 0 {
		keep := make(map[string]bool)
		for _, action := range q.Actions {
			for _, name := range c.byAction[action] {
				keep[name] = true
			}
		}
		matching = intersect(matching, keep)
	}
	if q.Query != "" {
		needle := strings.ToLower(q.Query)
		keep := make(map[string]bool)
		for name := range matching {
			d := c.defs[name]
			if strings.Contains(strings.ToLower(name), needle) ||
				strings.Contains(strings.ToLower(d.Summary), needle) {
				keep[name] = true
			}
		}
		matching = keep
	}

	names := make([]string, 0, len(matching))
	for name := range matching {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ToolSummary, 0, len(names))
	for _, name := range names {
		d := c.defs[name]
		out = append(out, ToolSummary{
			Name:     d.Name,
			Summary:  d.Summary,
			Category: d.Category,
			IsWrite:  d.Write,
		})
	}
	return out
}

func intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

// ParamDoc is the schema view of one parameter.
type ParamDoc struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Minimum     *int        `json:"minimum,omitempty"`
	Maximum     *int        `json:"maximum,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// ToolSchema is the full description of a tool, returned by the describe
// meta-operation.
type ToolSchema struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Parameters  map[string]ParamDoc `json:"parameters"`
	Required    []string            `json:"required"`
	IsWrite     bool                `json:"is_write"`
	Hint        string              `json:"hint"`
}

// Describe returns the full schema for a tool.
func (c *Catalog) Describe(name string) (*ToolSchema, bool) {
	d, ok := c.defs[name]
	if !ok {
		return nil, false
	}

	params := make(map[string]ParamDoc, len(d.Params))
	required := []string{}
	for _, p := range d.Params {
		params[p.Name] = ParamDoc{
			Type:        string(p.Type),
			Description: p.Description,
			Minimum:     p.Min,
			Maximum:     p.Max,
			Default:     p.Default,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	sort.Strings(required)

	hint := "Ready to invoke"
	if d.Write {
		hint = "Destructive operations require user confirmation"
	}
	return &ToolSchema{
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Parameters:  params,
		Required:    required,
		IsWrite:     d.Write,
		Hint:        hint,
	}, true
}
