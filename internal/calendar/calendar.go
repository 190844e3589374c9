package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/christopherklint97/studyr/internal/store"
	ical "github.com/emersion/go-ical"
)

// Event is one timed entry on the calendar: a stored study session, a
// dated plan task, or an event read from an iCalendar feed.
type Event struct {
	UID         string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

func interval(date, start, end string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(planner.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	from, err := planner.ParseClock(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := planner.ParseClock(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	s, e := from.On(day), to.On(day)
	if !e.After(s) {
		e = e.AddDate(0, 0, 1)
	}
	return s, e, nil
}

// FromStore converts stored calendar events, skipping any that no longer
// parse.
func FromStore(events []store.CalendarEvent, loc *time.Location) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		start, end, err := interval(e.Date, e.StartTime, e.EndTime, loc)
		if err != nil {
			continue
		}
		out = append(out, Event{
			UID:         e.ID,
			Summary:     e.Title,
			Description: e.Description,
			StartTime:   start,
			EndTime:     end,
		})
	}
	return out
}

// TaskUID is the stable iCalendar UID of one plan task.
func TaskUID(planID string, index int) string {
	return fmt.Sprintf("%s-%d@studyr", planID, index)
}

// FromPlans converts the dated study and review tasks of plans. Breaks
// and undated tasks are left out.
func FromPlans(plans []planner.Plan, loc *time.Location) []Event {
	var out []Event
	for _, p := range plans {
		for i, t := range p.Tasks {
			if t.Type == planner.TaskBreak || t.Date == "" {
				continue
			}
			start, end, err := interval(t.Date, t.StartTime, t.EndTime, loc)
			if err != nil {
				continue
			}
			out = append(out, Event{
				UID:         TaskUID(p.ID, i),
				Summary:     t.Subject + ": " + t.Description,
				Description: fmt.Sprintf("%s plan %s, task %d", p.Type, p.ID, i),
				StartTime:   start,
				EndTime:     end,
			})
		}
	}
	return out
}

// Fetch retrieves and parses iCalendar events from a URL or file path,
// returning events that overlap with the given time window. A zero
// window end means no bound.
func Fetch(ctx context.Context, source string, windowStart, windowEnd time.Time) ([]Event, error) {
	var r io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(nil)
			if err != nil {
				continue // malformed
			}
			end, err := event.DateTimeEnd(nil)
			if err != nil {
				continue
			}

			if !windowEnd.IsZero() && !start.Before(windowEnd) {
				continue
			}
			if !end.After(windowStart) {
				continue
			}
			summary, _ := event.Props.Text(ical.PropSummary)
			if summary == "" {
				continue
			}
			uid, _ := event.Props.Text(ical.PropUID)
			desc, _ := event.Props.Text(ical.PropDescription)
			events = append(events, Event{
				UID:         uid,
				Summary:     summary,
				Description: desc,
				StartTime:   start,
				EndTime:     end,
			})
		}
	}

	return events, nil
}

// ToStore converts fetched events into calendar events in loc. Events
// that run past midnight are cut at 23:59 of their first day.
func ToStore(events []Event, loc *time.Location) []store.CalendarEvent {
	out := make([]store.CalendarEvent, 0, len(events))
	for _, e := range events {
		start, end := e.StartTime.In(loc), e.EndTime.In(loc)
		endClock := end.Format(planner.ClockLayout)
		if end.Format(planner.DateLayout) != start.Format(planner.DateLayout) {
			endClock = "23:59"
		}
		ce := store.CalendarEvent{
			Title:       e.Summary,
			Date:        start.Format(planner.DateLayout),
			StartTime:   start.Format(planner.ClockLayout),
			EndTime:     endClock,
			Description: e.Description,
		}
		if ce.Validate() != nil {
			continue
		}
		out = append(out, ce)
	}
	return out
}

// Export writes events as an iCalendar document. Times are written in UTC.
func Export(w io.Writer, events []Event, now time.Time) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to export")
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//studyr//study plans//EN")

	for _, e := range events {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, e.UID)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
		ev.Props.SetText(ical.PropSummary, e.Summary)
		if e.Description != "" {
			ev.Props.SetText(ical.PropDescription, e.Description)
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// Sort orders events by start time, then summary.
func Sort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].Summary < events[j].Summary
	})
}

// GroupByDay groups events by date string (YYYY-MM-DD in loc).
func GroupByDay(events []Event, loc *time.Location) map[string][]Event {
	grouped := make(map[string][]Event)
	for _, e := range events {
		key := e.StartTime.In(loc).Format(planner.DateLayout)
		grouped[key] = append(grouped[key], e)
	}
	for _, day := range grouped {
		Sort(day)
	}
	return grouped
}

// Upcoming returns the stored events dated today or later, ordered by
// date and start time.
func Upcoming(events []store.CalendarEvent, now time.Time) []store.CalendarEvent {
	today := now.Format(planner.DateLayout)
	var out []store.CalendarEvent
	for _, e := range events {
		if e.Date >= today {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return clockOf(out[i].StartTime) < clockOf(out[j].StartTime)
	})
	return out
}

func clockOf(s string) planner.Clock {
	c, _ := planner.ParseClock(s)
	return c
}

// FormatSummaries joins event summaries with "; ".
func FormatSummaries(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	summaries := make([]string, len(events))
	for i, e := range events {
		summaries[i] = e.Summary
	}
	return strings.Join(summaries, "; ")
}
