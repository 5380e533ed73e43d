// Package dates resolves the date and time expressions users put in
// scheduling requests: ISO timestamps, absolute formats, and relative
// natural language such as "tomorrow at 3pm".
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Resolved is the outcome of resolving a date expression. AllDay is set when
// the expression named a day without a time of day.
type Resolved struct {
	Time   time.Time
	AllDay bool
}

// Resolver parses date expressions in a fixed timezone. Ambiguous dates
// resolve preferring the future.
type Resolver struct {
	loc *time.Location
	w   *when.Parser
	now func() time.Time
}

// NewResolver creates a resolver for the given IANA timezone name. An empty
// name means the local timezone.
func NewResolver(tz string) (*Resolver, error) {
	loc := time.Local
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Resolver{loc: loc, w: w, now: time.Now}, nil
}

var (
	timeHintRe = regexp.MustCompile(`(?i)(\d\s*(am|pm)\b|\b(am|pm)\b|:|\bnoon\b|\bmidnight\b|\bmorning\b|\bafternoon\b|\bevening\b|\bnight\b)`)
	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// hasTimeHint reports whether the expression mentions a time of day.
func hasTimeHint(text string) bool {
	return timeHintRe.MatchString(text)
}

// Resolve parses a date expression. ISO 8601 timestamps pass through
// unchanged; bare dates become all-day; everything else goes through the
// absolute parser and then the relative natural-language parser.
func (r *Resolver) Resolve(text string) (Resolved, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Resolved{}, fmt.Errorf("empty date expression")
	}

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return Resolved{Time: t, AllDay: false}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", text, r.loc); err == nil {
		return Resolved{Time: t, AllDay: true}, nil
	}

	now := r.now().In(r.loc)

	if t, err := dateparse.ParseIn(text, r.loc); err == nil {
		t = r.preferFuture(t, text, now)
		return Resolved{Time: t, AllDay: !hasTimeHint(text)}, nil
	}

	res, err := r.w.Parse(text, now)
	if err != nil || res == nil {
		return Resolved{}, fmt.Errorf("could not understand date expression %q", text)
	}
	t := res.Time.In(r.loc)
	allDay := !hasTimeHint(text)
	if allDay {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc)
	}
	return Resolved{Time: t, AllDay: allDay}, nil
}

// preferFuture nudges year-less absolute dates that already passed into the
// next year, matching how users mean "June 5" in a scheduling context.
func (r *Resolver) preferFuture(t time.Time, text string, now time.Time) time.Time {
	if t.Before(now) && !yearRe.MatchString(text) {
		return t.AddDate(1, 0, 0)
	}
	return t
}

var durationPatterns = []struct {
	re   *regexp.Regexp
	unit time.Duration
}{
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h\b)`), time.Hour},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:minutes?|mins?|m\b)`), time.Minute},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:days?|d\b)`), 24 * time.Hour},
}

// DefaultEventDuration is used when an event gives no end time or duration.
const DefaultEventDuration = time.Hour

// ParseDuration interprets expressions like "1 hour", "90 minutes", or
// "1h30m". Components add up; an unrecognizable expression falls back to the
// default one-hour duration.
func ParseDuration(text string) time.Duration {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultEventDuration
	}
	if d, err := time.ParseDuration(text); err == nil && d > 0 {
		return d
	}

	var total time.Duration
	for _, p := range durationPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				total += time.Duration(v * float64(p.unit))
			}
		}
	}
	if total <= 0 {
		return DefaultEventDuration
	}
	return total
}

// EndTime computes an event's end from its start and an optional duration
// expression.
func EndTime(start time.Time, durationText string) time.Time {
	return start.Add(ParseDuration(durationText))
}
