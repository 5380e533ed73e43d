package tools

// ParamType is the wire type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Min, Max    *int // bounds for integer parameters
	Default     interface{}
}

// ToolDefinition is a catalog entry: identity, categorization for discovery,
// and the parameter schema the invoker validates against.
type ToolDefinition struct {
	Name        string
	Summary     string
	Description string
	Category    string
	Actions     []string // verbs used by the by-action discovery index
	Write       bool     // mutates user data
	Destructive bool     // permanently removes user data; gated by confirmation
	Params      []Param
}

// Catalog categories.
const (
	CategoryCalendar = "calendar"
	CategoryTasks    = "tasks"
	CategoryEmail    = "email"
)

func intp(v int) *int { return &v }

func maxResultsParam(ceiling int) Param {
	return Param{
		Name: "max_results", Type: TypeInteger,
		Description: "Maximum number of results to return",
		Min:         intp(1), Max: intp(ceiling),
	}
}

// DefaultDefinitions returns the built-in catalog across calendar, tasks,
// and email.
func DefaultDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Calendar
		{
			Name:        "add_calendar_event",
			Summary:     "Create a new calendar event",
			Description: "Creates a calendar event. Accepts natural-language start times like 'tomorrow at 3pm'. Date-only start times create all-day events. Events default to one hour when no end time or duration is given.",
			Category:    CategoryCalendar,
			Actions:     []string{"create", "add", "schedule"},
			Write:       true,
			Params: []Param{
				{Name: "summary", Type: TypeString, Description: "Event title", Required: true},
				{Name: "start_time", Type: TypeString, Description: "Start date/time, ISO 8601 or natural language", Required: true},
				{Name: "end_time", Type: TypeString, Description: "End date/time; defaults to one hour after start"},
				{Name: "duration", Type: TypeString, Description: "Event duration such as '30 minutes' or '2 hours'"},
				{Name: "description", Type: TypeString, Description: "Event description"},
				{Name: "location", Type: TypeString, Description: "Event location"},
				{Name: "attendees", Type: TypeArray, Description: "Attendee email addresses"},
			},
		},
		{
			Name:        "delete_calendar_event",
			Summary:     "Permanently delete a calendar event",
			Description: "Deletes a calendar event by its ID. This cannot be undone. Find the event ID with search_calendar_events or list_calendar_events first.",
			Category:    CategoryCalendar,
			Actions:     []string{"delete", "remove", "cancel"},
			Write:       true,
			Destructive: true,
			Params: []Param{
				{Name: "event_id", Type: TypeString, Description: "ID of the event to delete", Required: true},
			},
		},
		{
			Name:        "search_calendar_events",
			Summary:     "Search calendar events by keyword",
			Description: "Searches event titles, descriptions, and locations for a keyword and returns matching events with their IDs.",
			Category:    CategoryCalendar,
			Actions:     []string{"search", "find"},
			Params: []Param{
				{Name: "query", Type: TypeString, Description: "Search keyword", Required: true},
				maxResultsParam(50),
			},
		},
		{
			Name:        "list_calendar_events",
			Summary:     "List upcoming calendar events",
			Description: "Lists events starting within the next N days, soonest first.",
			Category:    CategoryCalendar,
			Actions:     []string{"list", "view"},
			Params: []Param{
				{Name: "days", Type: TypeInteger, Description: "How many days ahead to look", Min: intp(1), Max: intp(60), Default: 7},
				maxResultsParam(50),
			},
		},
		{
			Name:        "update_calendar_event",
			Summary:     "Update an existing calendar event",
			Description: "Updates one or more fields of an event identified by its ID. Only the provided fields change.",
			Category:    CategoryCalendar,
			Actions:     []string{"update", "edit", "reschedule"},
			Write:       true,
			Params: []Param{
				{Name: "event_id", Type: TypeString, Description: "ID of the event to update", Required: true},
				{Name: "summary", Type: TypeString, Description: "New event title"},
				{Name: "start_time", Type: TypeString, Description: "New start date/time"},
				{Name: "end_time", Type: TypeString, Description: "New end date/time"},
				{Name: "description", Type: TypeString, Description: "New description"},
				{Name: "location", Type: TypeString, Description: "New location"},
			},
		},

		// Tasks
		{
			Name:        "create_task",
			Summary:     "Create a new task",
			Description: "Creates a task, optionally with notes and a due date. Tasks go to the default list unless a list ID is given.",
			Category:    CategoryTasks,
			Actions:     []string{"create", "add"},
			Write:       true,
			Params: []Param{
				{Name: "title", Type: TypeString, Description: "Task title", Required: true},
				{Name: "notes", Type: TypeString, Description: "Task notes"},
				{Name: "due", Type: TypeString, Description: "Due date, ISO 8601 or natural language"},
				{Name: "list_id", Type: TypeString, Description: "Task list ID"},
			},
		},
		{
			Name:        "list_tasks",
			Summary:     "List tasks",
			Description: "Lists tasks in a list, earliest due date first. Completed tasks are hidden unless requested.",
			Category:    CategoryTasks,
			Actions:     []string{"list", "view"},
			Params: []Param{
				{Name: "list_id", Type: TypeString, Description: "Task list ID; defaults to the default list"},
				{Name: "show_completed", Type: TypeBoolean, Description: "Include completed tasks"},
				maxResultsParam(100),
			},
		},
		{
			Name:        "mark_task_complete",
			Summary:     "Mark a task as complete",
			Description: "Marks a task as done by its ID.",
			Category:    CategoryTasks,
			Actions:     []string{"complete", "finish", "done"},
			Write:       true,
			Params: []Param{
				{Name: "task_id", Type: TypeString, Description: "ID of the task to complete", Required: true},
			},
		},
		{
			Name:        "mark_task_incomplete",
			Summary:     "Mark a task as not complete",
			Description: "Reopens a completed task by its ID.",
			Category:    CategoryTasks,
			Actions:     []string{"reopen", "uncomplete"},
			Write:       true,
			Params: []Param{
				{Name: "task_id", Type: TypeString, Description: "ID of the task to reopen", Required: true},
			},
		},
		{
			Name:        "delete_task",
			Summary:     "Permanently delete a task",
			Description: "Deletes a task by its ID. This cannot be undone. Find the task ID with list_tasks first.",
			Category:    CategoryTasks,
			Actions:     []string{"delete", "remove"},
			Write:       true,
			Destructive: true,
			Params: []Param{
				{Name: "task_id", Type: TypeString, Description: "ID of the task to delete", Required: true},
			},
		},
		{
			Name:        "update_task",
			Summary:     "Update an existing task",
			Description: "Updates a task's title, notes, or due date. Only the provided fields change.",
			Category:    CategoryTasks,
			Actions:     []string{"update", "edit"},
			Write:       true,
			Params: []Param{
				{Name: "task_id", Type: TypeString, Description: "ID of the task to update", Required: true},
				{Name: "title", Type: TypeString, Description: "New task title"},
				{Name: "notes", Type: TypeString, Description: "New task notes"},
				{Name: "due", Type: TypeString, Description: "New due date"},
			},
		},
		{
			Name:        "get_task_lists",
			Summary:     "List all task lists",
			Description: "Returns the user's task lists with their IDs.",
			Category:    CategoryTasks,
			Actions:     []string{"list", "view"},
			Params:      []Param{},
		},

		// Email
		{
			Name:        "read_emails",
			Summary:     "Read recent emails",
			Description: "Returns recent emails, optionally filtered by a query, newest first.",
			Category:    CategoryEmail,
			Actions:     []string{"read", "list"},
			Params: []Param{
				{Name: "query", Type: TypeString, Description: "Optional filter matched against sender, subject, and body"},
				maxResultsParam(50),
			},
		},
		{
			Name:        "get_email_details",
			Summary:     "Get the full content of one email",
			Description: "Returns the full body of an email by its message ID.",
			Category:    CategoryEmail,
			Actions:     []string{"read", "view"},
			Params: []Param{
				{Name: "message_id", Type: TypeString, Description: "ID of the email to fetch", Required: true},
			},
		},
		{
			Name:        "summarize_weekly_emails",
			Summary:     "Summarize emails from the past week",
			Description: "Collects emails from the last N days (default 7) so they can be summarized.",
			Category:    CategoryEmail,
			Actions:     []string{"summarize", "digest"},
			Params: []Param{
				{Name: "days", Type: TypeInteger, Description: "How many days back to include", Min: intp(1), Max: intp(31), Default: 7},
				maxResultsParam(100),
			},
		},
		{
			Name:        "search_emails",
			Summary:     "Search emails by keyword",
			Description: "Searches senders, subjects, and bodies for a keyword, newest first.",
			Category:    CategoryEmail,
			Actions:     []string{"search", "find"},
			Params: []Param{
				{Name: "query", Type: TypeString, Description: "Search keyword", Required: true},
				maxResultsParam(50),
			},
		},
		{
			Name:        "list_unread_emails",
			Summary:     "List unread emails",
			Description: "Returns unread emails, newest first.",
			Category:    CategoryEmail,
			Actions:     []string{"list", "unread"},
			Params: []Param{
				maxResultsParam(50),
			},
		},
	}
}
