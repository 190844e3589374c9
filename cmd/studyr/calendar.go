package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/christopherklint97/studyr/internal/calendar"
	"github.com/christopherklint97/studyr/internal/intake"
	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/christopherklint97/studyr/internal/store"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage study sessions on the calendar",
}

var calendarAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a study session",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarAdd,
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming study sessions",
	Args:  cobra.NoArgs,
	RunE:  runCalendarList,
}

var calendarRemoveCmd = &cobra.Command{
	Use:   "remove <event-id>",
	Short: "Remove a study session",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarRemove,
}

var calendarMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show a month with sessions and plan tasks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendarMonth,
}

var calendarExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export sessions and plan tasks as iCalendar",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendarExport,
}

var calendarImportCmd = &cobra.Command{
	Use:   "import [url-or-file]",
	Short: "Import upcoming events from an iCalendar feed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendarImport,
}

func init() {
	calendarAddCmd.Flags().String("date", "", `Session date (YYYY-MM-DD or e.g. "tomorrow")`)
	calendarAddCmd.Flags().String("start", "", "Start time (HH:MM)")
	calendarAddCmd.Flags().String("end", "", "End time (HH:MM)")
	calendarAddCmd.Flags().String("description", "", "Notes for the session")
	_ = calendarAddCmd.MarkFlagRequired("date")
	_ = calendarAddCmd.MarkFlagRequired("start")
	_ = calendarAddCmd.MarkFlagRequired("end")

	calendarListCmd.Flags().Bool("all", false, "Include past sessions")
	calendarExportCmd.Flags().Bool("no-plans", false, "Leave plan tasks out of the export")

	calendarCmd.AddCommand(calendarAddCmd)
	calendarCmd.AddCommand(calendarListCmd)
	calendarCmd.AddCommand(calendarRemoveCmd)
	calendarCmd.AddCommand(calendarMonthCmd)
	calendarCmd.AddCommand(calendarExportCmd)
	calendarCmd.AddCommand(calendarImportCmd)
	rootCmd.AddCommand(calendarCmd)
}

func runCalendarAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	dateFlag, _ := cmd.Flags().GetString("date")
	date, err := intake.ParseDate(dateFlag, time.Now())
	if err != nil {
		return err
	}
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	desc, _ := cmd.Flags().GetString("description")

	ev, err := e.store.AddCalendarEvent(store.CalendarEvent{
		Title:       args[0],
		Date:        date.Format(planner.DateLayout),
		StartTime:   start,
		EndTime:     end,
		Description: desc,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %s on %s %s-%s (%s)\n", ev.Title, ev.Date, ev.StartTime, ev.EndTime, ev.ID)
	return nil
}

func printEvents(events []store.CalendarEvent) {
	day := ""
	for _, ev := range events {
		if ev.Date != day {
			day = ev.Date
			fmt.Println(dayStyle.Render(day))
		}
		fmt.Printf("  %s-%s  %s  %s\n", ev.StartTime, ev.EndTime, ev.Title, faintStyle.Render(ev.ID))
		if ev.Description != "" {
			fmt.Printf("    %s\n", ev.Description)
		}
	}
}

func runCalendarList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	events := e.store.CalendarEvents()
	if all {
		events = calendar.Upcoming(events, time.Time{})
	} else {
		events = calendar.Upcoming(events, time.Now())
	}
	if len(events) == 0 {
		fmt.Println("No study sessions scheduled.")
		return nil
	}
	printEvents(events)
	return nil
}

func runCalendarRemove(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.DeleteCalendarEvent(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

// allEvents merges stored sessions with the dated tasks of every plan.
func allEvents(e *env, withPlans bool) []calendar.Event {
	events := calendar.FromStore(e.store.CalendarEvents(), time.Local)
	if withPlans {
		events = append(events, calendar.FromPlans(e.store.Plans(), time.Local)...)
	}
	calendar.Sort(events)
	return events
}

func runCalendarMonth(cmd *cobra.Command, args []string) error {
	ref := time.Now()
	if len(args) == 1 {
		t, err := time.ParseInLocation("2006-01", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q: want YYYY-MM", args[0])
		}
		ref = t
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	m := calendar.MonthGrid(ref, allEvents(e, true))
	printMonth(os.Stdout, m)
	return nil
}

func printMonth(w io.Writer, m calendar.Month) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s %d", m.Month, m.Year)))
	fmt.Fprintln(w, "  Mo  Tu  We  Th  Fr  Sa  Su")

	var agenda []calendar.Day
	for _, week := range m.Weeks {
		var b strings.Builder
		for _, d := range week {
			mark := " "
			if len(d.Events) > 0 {
				mark = "*"
			}
			cell := fmt.Sprintf("%3d%s", d.Date.Day(), mark)
			if !d.InMonth {
				cell = faintStyle.Render(cell)
			} else if len(d.Events) > 0 {
				cell = checkedStyle.Render(cell)
				agenda = append(agenda, d)
			}
			b.WriteString(cell)
		}
		fmt.Fprintln(w, b.String())
	}

	for _, d := range agenda {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dayStyle.Render(d.Date.Format("Mon 2 Jan")))
		for _, ev := range d.Events {
			fmt.Fprintf(w, "  %s-%s  %s\n", ev.StartTime.Format(planner.ClockLayout), ev.EndTime.Format(planner.ClockLayout), ev.Summary)
		}
	}
}

func runCalendarExport(cmd *cobra.Command, args []string) error {
	noPlans, _ := cmd.Flags().GetBool("no-plans")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	events := allEvents(e, !noPlans)

	if len(args) == 0 || args[0] == "-" {
		return calendar.Export(os.Stdout, events, time.Now())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[0], err)
	}
	if err := calendar.Export(f, events, time.Now()); err != nil {
		f.Close()
		os.Remove(args[0])
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d events to %s\n", len(events), args[0])
	return nil
}

func runCalendarImport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	source := e.cfg.Calendar.Source
	if len(args) == 1 {
		source = args[0]
	}
	if source == "" {
		return fmt.Errorf("no calendar source given; pass a URL or file, or set calendar.source")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	fetched, err := calendar.Fetch(cmd.Context(), source, today, time.Time{})
	if err != nil {
		return err
	}

	existing := make(map[string]bool)
	for _, ev := range e.store.CalendarEvents() {
		existing[ev.Title+"|"+ev.Date+"|"+ev.StartTime] = true
	}

	added := 0
	for _, ev := range calendar.ToStore(fetched, time.Local) {
		key := ev.Title + "|" + ev.Date + "|" + ev.StartTime
		if existing[key] {
			continue
		}
		if _, err := e.store.AddCalendarEvent(ev); err != nil {
			e.logger.Warn("skipping imported event", "title", ev.Title, "error", err)
			continue
		}
		existing[key] = true
		added++
	}
	fmt.Printf("Imported %d of %d events from %s\n", added, len(fetched), source)
	return nil
}
