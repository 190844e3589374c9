package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/studyr/internal/calendar"
	"github.com/christopherklint97/studyr/internal/config"
	"github.com/christopherklint97/studyr/internal/store"
)

// lastCheckKey stores the end of the most recent reminder window, so a
// restart does not announce the same session twice.
const lastCheckKey = "reminders.window_end"

type Scheduler struct {
	cfg      config.ReminderConfig
	store    *store.Store
	history  *store.History
	notifier Notifier
	logger   *slog.Logger
	out      io.Writer
}

func New(cfg config.ReminderConfig, st *store.Store, history *store.History, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if notifier == nil {
		notifier = Desktop{}
	}
	return &Scheduler{
		cfg:      cfg,
		store:    st,
		history:  history,
		notifier: notifier,
		logger:   logger,
		out:      os.Stdout,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	if err := writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePID()

	interval := time.Duration(s.cfg.IntervalMinutes) * time.Minute
	lead := time.Duration(s.cfg.LeadMinutes) * time.Minute

	fmt.Fprintf(s.out, "Reminders started (interval: %s, lead time: %s)\n", interval, lead)

	// Catch sessions starting before the first aligned tick.
	if _, err := s.Check(time.Now()); err != nil {
		s.logger.Error("reminder check failed", "error", err)
	}

	for {
		nextTick := nextAlignedTick(time.Now(), interval)
		s.logger.Debug("waiting for next tick", "at", nextTick.Format("15:04"))

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nReminders stopped.")
			return nil
		case <-time.After(time.Until(nextTick)):
		}

		if _, err := s.Check(time.Now()); err != nil {
			s.logger.Error("reminder check failed", "error", err)
		}
	}
}

// Check notifies about every pending session that starts inside the
// current window and returns them.
func (s *Scheduler) Check(now time.Time) ([]calendar.Event, error) {
	lead := time.Duration(s.cfg.LeadMinutes) * time.Minute
	from := now
	if last, err := s.history.GetState(lastCheckKey); err != nil {
		return nil, fmt.Errorf("reading reminder state: %w", err)
	} else if t, err := time.Parse(time.RFC3339, last); err == nil && t.After(from) {
		from = t
	}
	to := now.Add(lead)

	due := Due(s.pending(now.Location()), from, to)
	for _, e := range due {
		title := "studyr: " + e.Summary
		msg := fmt.Sprintf("Starts at %s", e.StartTime.Format("15:04"))
		if err := s.notifier.Notify(title, msg); err != nil {
			s.logger.Warn("notification failed", "event", e.UID, "error", err)
		}
		fmt.Fprintf(s.out, "%s  %s\n", e.StartTime.Format("15:04"), e.Summary)
	}
	if len(due) > 0 {
		s.logger.Info("reminders sent", "count", len(due), "summary", calendar.FormatSummaries(due))
	}

	if to.After(from) {
		if err := s.history.SetState(lastCheckKey, to.UTC().Format(time.RFC3339)); err != nil {
			return due, fmt.Errorf("saving reminder state: %w", err)
		}
	}
	return due, nil
}

// pending lists calendar events plus the plan tasks not yet completed.
func (s *Scheduler) pending(loc *time.Location) []calendar.Event {
	events := calendar.FromStore(s.store.CalendarEvents(), loc)

	plans := s.store.Plans()
	done := make(map[string]bool)
	for _, p := range plans {
		prog, err := s.store.Progress(p.ID)
		if err != nil {
			continue
		}
		for _, i := range prog.CompletedTasks {
			done[calendar.TaskUID(p.ID, i)] = true
		}
	}
	for _, e := range calendar.FromPlans(plans, loc) {
		if !done[e.UID] {
			events = append(events, e)
		}
	}
	return events
}

// Due returns the events starting in [from, to), earliest first.
func Due(events []calendar.Event, from, to time.Time) []calendar.Event {
	var out []calendar.Event
	for _, e := range events {
		if !e.StartTime.Before(from) && e.StartTime.Before(to) {
			out = append(out, e)
		}
	}
	calendar.Sort(out)
	return out
}

func nextAlignedTick(now time.Time, interval time.Duration) time.Time {
	mins := int(interval.Minutes())
	if mins <= 0 {
		mins = 15
	}

	currentMinute := now.Minute()
	nextMinute := ((currentMinute / mins) + 1) * mins

	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	next = next.Add(time.Duration(nextMinute) * time.Minute)

	return next
}

func pidPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "studyr.pid"), nil
}

func writePID() error {
	path, err := pidPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePID() {
	if path, err := pidPath(); err == nil {
		os.Remove(path)
	}
}

func ReadPID() (int, error) {
	path, err := pidPath()
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running reminder loop found")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}
