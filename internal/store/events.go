package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/google/uuid"
)

// CalendarEvent is a study session placed on the calendar by hand or
// imported from an iCalendar feed.
type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

func NewEventID() string {
	return "event_" + uuid.Must(uuid.NewV7()).String()
}

// Validate checks the title, date and that the event ends after it starts.
func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title is required")
	}
	if _, err := time.Parse(planner.DateLayout, e.Date); err != nil {
		return fmt.Errorf("invalid event date %q: want YYYY-MM-DD", e.Date)
	}
	start, err := planner.ParseClock(e.StartTime)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	end, err := planner.ParseClock(e.EndTime)
	if err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if end <= start {
		return errors.New("end time must be after start time")
	}
	return nil
}

// Start returns the event's start instant in loc. Invalid events return
// the zero time.
func (e CalendarEvent) Start(loc *time.Location) time.Time {
	d, err := time.ParseInLocation(planner.DateLayout, e.Date, loc)
	if err != nil {
		return time.Time{}
	}
	c, err := planner.ParseClock(e.StartTime)
	if err != nil {
		return d
	}
	return c.On(d)
}

// CalendarEvents returns every stored event in insertion order.
func (s *Store) CalendarEvents() []CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.CalendarEvents)
}

// AddCalendarEvent validates and stores e, assigning an ID when it has none.
func (s *Store) AddCalendarEvent(e CalendarEvent) (CalendarEvent, error) {
	if err := e.Validate(); err != nil {
		return CalendarEvent{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = NewEventID()
	}
	if slices.ContainsFunc(s.doc.CalendarEvents, func(x CalendarEvent) bool { return x.ID == e.ID }) {
		return CalendarEvent{}, fmt.Errorf("calendar event %s already exists", e.ID)
	}
	s.doc.CalendarEvents = append(s.doc.CalendarEvents, e)
	if err := s.save(); err != nil {
		return CalendarEvent{}, err
	}
	return e, nil
}

func (s *Store) DeleteCalendarEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.doc.CalendarEvents, func(e CalendarEvent) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	s.doc.CalendarEvents = slices.Delete(s.doc.CalendarEvents, i, i+1)
	return s.save()
}
