package tools

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// ToolFunc executes one bound capability with already-validated arguments.
type ToolFunc func(ctx context.Context, args map[string]interface{}) agenticpal.Result

// Invoker validates arguments against the catalog schema and dispatches to
// the bound capability. Every failure mode, including panics in bindings,
// becomes a failed Result rather than an error or a crash.
type Invoker struct {
	catalog  *Catalog
	bindings map[string]ToolFunc
}

// NewInvoker wires a catalog to its capability bindings. A binding for a
// tool the catalog does not know is a wiring mistake and is rejected.
func NewInvoker(catalog *Catalog, bindings map[string]ToolFunc) (*Invoker, error) {
	for name := range bindings {
		if _, ok := catalog.Get(name); !ok {
			return nil, fmt.Errorf("binding for unknown tool '%s'", name)
		}
	}
	return &Invoker{catalog: catalog, bindings: bindings}, nil
}

// Invoke runs a tool by name. Unknown tools, schema violations, missing
// bindings, and binding panics all surface as failed Results.
func (inv *Invoker) Invoke(ctx context.Context, name string, args map[string]interface{}) (result agenticpal.Result) {
	def, ok := inv.catalog.Get(name)
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindUnknownTool,
			fmt.Sprintf("Unknown tool: %s", name))
	}

	cleaned, err := validateArgs(def, args)
	if err != nil {
		return agenticpal.FailedResult(agenticpal.ErrKindValidation, err.Error())
	}

	fn, ok := inv.bindings[name]
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindExecution,
			fmt.Sprintf("Tool '%s' is not available right now.", name))
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("tool", name).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("tool binding panicked")
			result = agenticpal.FailedResult(agenticpal.ErrKindExecution,
				fmt.Sprintf("Tool '%s' failed unexpectedly.", name))
		}
	}()

	return fn(ctx, cleaned)
}

// validateArgs checks required parameters, coerces types, applies defaults,
// and enforces integer bounds. Unknown arguments are dropped.
func validateArgs(def ToolDefinition, args map[string]interface{}) (map[string]interface{}, error) {
	cleaned := make(map[string]interface{}, len(def.Params))

	for _, p := range def.Params {
		raw, present := args[p.Name]
		if !present || raw == nil {
			if p.Required {
				return nil, fmt.Errorf("missing required parameter '%s' for tool '%s'", p.Name, def.Name)
			}
			if p.Default != nil {
				cleaned[p.Name] = p.Default
			}
			continue
		}

		switch p.Type {
		case TypeString:
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("parameter '%s' must be a string", p.Name)
			}
			if p.Required && s == "" {
				return nil, fmt.Errorf("required parameter '%s' cannot be empty", p.Name)
			}
			cleaned[p.Name] = s

		case TypeInteger:
			n, ok := coerceInt(raw)
			if !ok {
				return nil, fmt.Errorf("parameter '%s' must be an integer", p.Name)
			}
			if p.Min != nil && n < *p.Min {
				return nil, fmt.Errorf("parameter '%s' must be at least %d", p.Name, *p.Min)
			}
			if p.Max != nil && n > *p.Max {
				return nil, fmt.Errorf("parameter '%s' must be at most %d", p.Name, *p.Max)
			}
			cleaned[p.Name] = n

		case TypeBoolean:
			b, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("parameter '%s' must be a boolean", p.Name)
			}
			cleaned[p.Name] = b

		case TypeArray:
			list, ok := coerceStringSlice(raw)
			if !ok {
				return nil, fmt.Errorf("parameter '%s' must be an array of strings", p.Name)
			}
			cleaned[p.Name] = list

		default:
			cleaned[p.Name] = raw
		}
	}

	return cleaned, nil
}

// coerceInt accepts the numeric shapes JSON decoding produces.
func coerceInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func coerceStringSlice(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
