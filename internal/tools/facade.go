package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/llm"
)

// Meta-operation names exposed to the planner model.
const (
	MetaDiscover = "discover_tools"
	MetaDescribe = "get_tool_schema"
	MetaInvoke   = "invoke_tool"
)

// Facade is the planner's only window onto the catalog: discover tools,
// fetch a schema, invoke a tool. It records every invocation as a plan
// action and stashes destructive invocations as pending instead of running
// them. A facade belongs to exactly one planning pass; construct a fresh one
// per turn so recorded state never bleeds across sessions.
type Facade struct {
	catalog *Catalog
	invoker *Invoker

	mu                   sync.Mutex
	actions              []agenticpal.Action
	results              map[string]agenticpal.Result
	discovered           map[string]bool
	requiresConfirmation bool
}

// NewFacade creates a facade over a catalog and invoker.
func NewFacade(catalog *Catalog, invoker *Invoker) *Facade {
	return &Facade{
		catalog:    catalog,
		invoker:    invoker,
		results:    make(map[string]agenticpal.Result),
		discovered: make(map[string]bool),
	}
}

// Specs returns the three meta-operations as tool specs for a tool-calling
// model.
func Specs() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name: MetaDiscover,
			Description: "Find available tools by category and/or action type. " +
				"Categories: calendar, email, tasks. " +
				"Actions: search, create, update, delete, list, read. " +
				"Use this first to find what tools are available.",
			Parameters: map[string]llm.ParamSchema{
				"categories": {Type: "array", Description: "Filter by category: 'calendar', 'email', 'tasks'"},
				"actions":    {Type: "array", Description: "Filter by action type: 'search', 'create', 'update', 'delete', 'list', 'read'"},
				"query":      {Type: "string", Description: "Keyword to search in tool names and descriptions"},
			},
		},
		{
			Name: MetaDescribe,
			Description: "Get the complete parameter schema for a specific tool. " +
				"Use this to understand required/optional parameters before invoking. " +
				"For simple tools like 'list_tasks', you may skip this and invoke directly.",
			Parameters: map[string]llm.ParamSchema{
				"tool_name": {Type: "string", Description: "The exact tool name from discover_tools results"},
			},
			Required: []string{"tool_name"},
		},
		{
			Name: MetaInvoke,
			Description: "Execute a tool with the given parameters. " +
				"Destructive operations (delete) will require user confirmation. " +
				"Use depends_on with prior action ids to run a tool on another action's result.",
			Parameters: map[string]llm.ParamSchema{
				"tool_name":  {Type: "string", Description: "The tool to execute"},
				"parameters": {Type: "object", Description: "Parameters matching the tool's schema from get_tool_schema"},
				"depends_on": {Type: "array", Description: "Action ids this invocation depends on"},
			},
			Required: []string{"tool_name"},
		},
	}
}

// Dispatch routes one meta-operation call. Unknown operation names return a
// structured error object that is fed back to the model, never a Go error.
func (f *Facade) Dispatch(ctx context.Context, name string, params map[string]interface{}) interface{} {
	switch name {
	case MetaDiscover:
		return f.Discover(params)
	case MetaDescribe:
		return f.Describe(params)
	case MetaInvoke:
		return f.Invoke(ctx, params)
	default:
		return map[string]interface{}{
			"error": fmt.Sprintf("Unknown meta-tool: %s", name),
			"hint":  "Available meta-tools: discover_tools, get_tool_schema, invoke_tool",
		}
	}
}

// Discover filters the catalog and returns lightweight tool summaries.
func (f *Facade) Discover(params map[string]interface{}) interface{} {
	q := DiscoverQuery{
		Categories: stringList(params["categories"]),
		Actions:    stringList(params["actions"]),
		Query:      stringValue(params["query"]),
	}
	summaries := f.catalog.Discover(q)

	f.mu.Lock()
	for _, s := range summaries {
		f.discovered[s.Name] = true
	}
	f.mu.Unlock()

	return map[string]interface{}{
		"tools": summaries,
		"count": len(summaries),
		"hint":  "Use get_tool_schema to see full parameters, then invoke_tool to execute",
	}
}

// Describe returns the full schema for one tool.
func (f *Facade) Describe(params map[string]interface{}) interface{} {
	name := stringValue(params["tool_name"])
	schema, ok := f.catalog.Describe(name)
	if !ok {
		return map[string]interface{}{
			"error": fmt.Sprintf("Unknown tool: %s", name),
			"hint":  "Use discover_tools to find available tools",
		}
	}
	return schema
}

// Invoke records a tool invocation as a plan action. Non-destructive,
// dependency-free invocations execute immediately and their result is
// returned to the model. Destructive invocations are stashed pending user
// confirmation; invocations with dependencies are deferred to the sequential
// executor.
func (f *Facade) Invoke(ctx context.Context, params map[string]interface{}) interface{} {
	toolName := stringValue(params["tool_name"])
	toolArgs, _ := params["parameters"].(map[string]interface{})
	if toolArgs == nil {
		toolArgs = make(map[string]interface{})
	}
	dependsOn := stringList(params["depends_on"])

	if f.catalog.IsDestructive(toolName) {
		id := f.record(agenticpal.Action{
			Tool:                toolName,
			Args:                toolArgs,
			DependsOn:           dependsOn,
			PendingConfirmation: true,
		})
		f.mu.Lock()
		f.requiresConfirmation = true
		f.mu.Unlock()
		return map[string]interface{}{
			"status":     "pending_confirmation",
			"action_id":  id,
			"tool":       toolName,
			"parameters": toolArgs,
			"message":    fmt.Sprintf("This will %s. Please confirm.", strings.ReplaceAll(toolName, "_", " ")),
		}
	}

	if len(dependsOn) > 0 {
		id := f.record(agenticpal.Action{
			Tool:      toolName,
			Args:      toolArgs,
			DependsOn: dependsOn,
		})
		return map[string]interface{}{
			"status":    "deferred",
			"action_id": id,
			"message":   "This action will run after the actions it depends on complete.",
		}
	}

	result := f.invoker.Invoke(ctx, toolName, toolArgs)
	id := f.record(agenticpal.Action{Tool: toolName, Args: toolArgs})
	f.mu.Lock()
	f.results[id] = result
	f.mu.Unlock()
	return result
}

// record appends an action, assigning the next sequential id ("a1", "a2", ...).
func (f *Facade) record(a agenticpal.Action) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = fmt.Sprintf("a%d", len(f.actions)+1)
	f.actions = append(f.actions, a)
	return a.ID
}

// Snapshot returns what the planning pass accumulated: the plan, results of
// actions already executed during planning, and the discovered tool names.
func (f *Facade) Snapshot() (*agenticpal.Plan, map[string]agenticpal.Result, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	plan := &agenticpal.Plan{
		Actions:              append([]agenticpal.Action(nil), f.actions...),
		RequiresConfirmation: f.requiresConfirmation,
	}
	results := make(map[string]agenticpal.Result, len(f.results))
	for k, v := range f.results {
		results[k] = v
	}
	discovered := make([]string, 0, len(f.discovered))
	for name := range f.discovered {
		discovered = append(discovered, name)
	}
	sort.Strings(discovered)
	return plan, results, discovered
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func stringList(v interface{}) []string {
	list, ok := coerceStringSlice(v)
	if !ok {
		return nil
	}
	return list
}
