// Package store persists plans, progress, calendar events and preferences
// in a single JSON document, and task activity in a SQLite history.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/christopherklint97/studyr/internal/planner"
)

var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrEventNotFound = errors.New("calendar event not found")
)

// Document is the on-disk layout of the data file.
type Document struct {
	Plans           []planner.Plan              `json:"plans"`
	Progress        map[string]planner.Progress `json:"progress"`
	CalendarEvents  []CalendarEvent             `json:"calendar_events"`
	UserPreferences map[string]string           `json:"user_preferences"`
}

func emptyDocument() Document {
	return Document{
		Plans:           []planner.Plan{},
		Progress:        map[string]planner.Progress{},
		CalendarEvents:  []CalendarEvent{},
		UserPreferences: map[string]string{},
	}
}

// Store is the data file opened once per process. Every mutation rewrites
// the whole document atomically.
type Store struct {
	mu     sync.Mutex
	path   string
	doc    Document
	logger *slog.Logger
}

// Open loads the document at path. A missing file starts empty; a file
// that cannot be parsed is logged and replaced on the next write.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{path: path, doc: emptyDocument(), logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("data file is corrupt, starting empty", "path", path, "error", err)
		return s, nil
	}
	s.doc = normalize(doc)
	return s, nil
}

func normalize(doc Document) Document {
	if doc.Plans == nil {
		doc.Plans = []planner.Plan{}
	}
	if doc.Progress == nil {
		doc.Progress = map[string]planner.Progress{}
	}
	for id, p := range doc.Progress {
		p.Normalize()
		doc.Progress[id] = p
	}
	if doc.CalendarEvents == nil {
		doc.CalendarEvents = []CalendarEvent{}
	}
	if doc.UserPreferences == nil {
		doc.UserPreferences = map[string]string{}
	}
	return doc
}

func (s *Store) Path() string { return s.path }

// save writes the document with tmp + rename. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling data file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming data file: %w", err)
	}

	s.logger.Debug("data file saved", "path", s.path, "plans", len(s.doc.Plans), "events", len(s.doc.CalendarEvents))
	return nil
}

func (s *Store) planIndex(id string) int {
	return slices.IndexFunc(s.doc.Plans, func(p planner.Plan) bool { return p.ID == id })
}

// Plans returns every stored plan in creation order.
func (s *Store) Plans() []planner.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.Plans)
}

func (s *Store) Plan(id string) (planner.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.planIndex(id)
	if i < 0 {
		return planner.Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return s.doc.Plans[i], nil
}

// AddPlan stores a new plan together with an empty progress record.
func (s *Store) AddPlan(p planner.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		return fmt.Errorf("plan has no id")
	}
	if s.planIndex(p.ID) >= 0 {
		return fmt.Errorf("plan %s already exists", p.ID)
	}
	s.doc.Plans = append(s.doc.Plans, p)
	s.doc.Progress[p.ID] = planner.NewProgress(len(p.Tasks))
	return s.save()
}

// UpdatePlan replaces a stored plan, keeping its progress consistent with
// the new task count.
func (s *Store) UpdatePlan(p planner.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.planIndex(p.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, p.ID)
	}
	s.doc.Plans[i] = p
	if prog, ok := s.doc.Progress[p.ID]; ok {
		prog.TotalTasks = len(p.Tasks)
		prog.Normalize()
		s.doc.Progress[p.ID] = prog
	}
	return s.save()
}

// DeletePlan removes a plan and its progress.
func (s *Store) DeletePlan(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.planIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	s.doc.Plans = slices.Delete(s.doc.Plans, i, i+1)
	delete(s.doc.Progress, id)
	return s.save()
}

// Progress returns the completion record of a plan. A plan without one
// reports nothing done.
func (s *Store) Progress(planID string) (planner.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.planIndex(planID)
	if i < 0 {
		return planner.Progress{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	prog, ok := s.doc.Progress[planID]
	if !ok {
		return planner.NewProgress(len(s.doc.Plans[i].Tasks)), nil
	}
	prog.CompletedTasks = slices.Clone(prog.CompletedTasks)
	return prog, nil
}

func (s *Store) UpdateProgress(planID string, prog planner.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.planIndex(planID) < 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	prog.CompletedTasks = slices.Clone(prog.CompletedTasks)
	prog.Normalize()
	s.doc.Progress[planID] = prog
	return s.save()
}

// SetTaskDone marks one task of a plan done or not done and reports
// whether anything changed. Unchanged toggles do not touch the file.
func (s *Store) SetTaskDone(planID string, index int, done bool) (planner.Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.planIndex(planID)
	if i < 0 {
		return planner.Progress{}, false, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	total := len(s.doc.Plans[i].Tasks)
	if index < 0 || index >= total {
		return planner.Progress{}, false, fmt.Errorf("task %d out of range (plan has %d tasks)", index, total)
	}

	prog, ok := s.doc.Progress[planID]
	if !ok {
		prog = planner.NewProgress(total)
	}
	prog.CompletedTasks = slices.Clone(prog.CompletedTasks)
	prog.TotalTasks = total
	if !prog.Toggle(index, done) {
		return prog, false, nil
	}
	s.doc.Progress[planID] = prog
	if err := s.save(); err != nil {
		return prog, false, err
	}
	return prog, true, nil
}

// Preferences returns a copy of the stored user preferences.
func (s *Store) Preferences() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.doc.UserPreferences)
}

// UpdatePreferences replaces the stored preferences wholesale.
func (s *Store) UpdatePreferences(prefs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.UserPreferences = maps.Clone(prefs)
	if s.doc.UserPreferences == nil {
		s.doc.UserPreferences = map[string]string{}
	}
	return s.save()
}

// SetPreference sets one key; an empty value removes it.
func (s *Store) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.doc.UserPreferences, key)
	} else {
		s.doc.UserPreferences[key] = value
	}
	return s.save()
}

// Reset clears all data.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = emptyDocument()
	return s.save()
}
