package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCalendarEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   CalendarEvent
		wantErr string
	}{
		{"valid", CalendarEvent{Title: "Math", Date: "2026-10-20", StartTime: "09:00", EndTime: "10:30"}, ""},
		{"no title", CalendarEvent{Title: "  ", Date: "2026-10-20", StartTime: "09:00", EndTime: "10:00"}, "title"},
		{"bad date", CalendarEvent{Title: "Math", Date: "20/10/2026", StartTime: "09:00", EndTime: "10:00"}, "date"},
		{"bad start", CalendarEvent{Title: "Math", Date: "2026-10-20", StartTime: "9am", EndTime: "10:00"}, "start"},
		{"end equals start", CalendarEvent{Title: "Math", Date: "2026-10-20", StartTime: "10:00", EndTime: "10:00"}, "after"},
		{"end before start", CalendarEvent{Title: "Math", Date: "2026-10-20", StartTime: "11:00", EndTime: "10:00"}, "after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCalendarEvent_Start(t *testing.T) {
	e := CalendarEvent{Date: "2026-10-20", StartTime: "18:45"}
	want := time.Date(2026, 10, 20, 18, 45, 0, 0, time.UTC)
	if got := e.Start(time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStore_CalendarEvents(t *testing.T) {
	s, path := openTemp(t)

	added, err := s.AddCalendarEvent(CalendarEvent{Title: "Physics", Date: "2026-10-21", StartTime: "14:00", EndTime: "15:00"})
	if err != nil {
		t.Fatalf("AddCalendarEvent: %v", err)
	}
	if !strings.HasPrefix(added.ID, "event_") {
		t.Errorf("id = %q, want event_ prefix", added.ID)
	}
	if _, err := s.AddCalendarEvent(CalendarEvent{Title: "Bad", Date: "2026-10-21", StartTime: "15:00", EndTime: "14:00"}); err == nil {
		t.Error("invalid event stored")
	}

	reopened, _ := Open(path, nil)
	events := reopened.CalendarEvents()
	if len(events) != 1 || events[0] != added {
		t.Fatalf("got %+v, want [%+v]", events, added)
	}

	if err := reopened.DeleteCalendarEvent(added.ID); err != nil {
		t.Fatalf("DeleteCalendarEvent: %v", err)
	}
	if err := reopened.DeleteCalendarEvent(added.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("got %v, want ErrEventNotFound", err)
	}
}
