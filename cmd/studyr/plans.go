package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/christopherklint97/studyr/internal/advisor"
	"github.com/christopherklint97/studyr/internal/intake"
	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/christopherklint97/studyr/internal/store"
	"github.com/christopherklint97/studyr/internal/tui"
	"github.com/spf13/cobra"
)

// lastPlanKey remembers the plan that was open when the browser closed.
const lastPlanKey = "browse.last_plan"

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a study plan",
}

var newQuickCmd = &cobra.Command{
	Use:   "quick [subject...]",
	Short: "Plan short topic blocks inside a daily study window",
	RunE:  runNewQuick,
}

var newExamCmd = &cobra.Command{
	Use:   "exam [subject...]",
	Short: "Spread subjects over the days left before an exam",
	RunE:  runNewExam,
}

var newSubmissionsCmd = &cobra.Command{
	Use:   "submissions [assignment...]",
	Short: "Schedule assignment work ahead of due dates",
	RunE:  runNewSubmissions,
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List saved plans",
	Args:  cobra.NoArgs,
	RunE:  runPlans,
}

var showCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Show a plan with its tasks and recommendations",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a plan and its progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all plans, events, preferences and history",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var doneCmd = &cobra.Command{
	Use:   "done <plan-id> <task-id>...",
	Short: "Mark tasks as completed",
	Args:  cobra.MinimumNArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runMark(args, true) },
}

var undoCmd = &cobra.Command{
	Use:   "undo <plan-id> <task-id>...",
	Short: "Mark tasks as not completed",
	Args:  cobra.MinimumNArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runMark(args, false) },
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse plans and tick off tasks interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var allocateCmd = &cobra.Command{
	Use:   "allocate <item[:priority[:difficulty]]>...",
	Short: "Show how many days each item gets out of a budget",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAllocate,
}

func init() {
	for _, c := range []*cobra.Command{newQuickCmd, newExamCmd, newSubmissionsCmd} {
		c.Flags().StringArray("priority", nil, `Priority line, e.g. "Math: High" (repeatable)`)
		c.Flags().String("style", "", "Learning style for recommendations: Visual, Reading or Mixed")
	}
	for _, c := range []*cobra.Command{newExamCmd, newSubmissionsCmd} {
		c.Flags().Float64("hours", 0, "Study hours per day")
		c.Flags().StringSlice("prefer", nil, "Preferred times: Morning, Afternoon, Evening, Weekend")
	}

	newQuickCmd.Flags().StringArray("topic", nil, `Topics line, e.g. "Math: Algebra, Calculus" (repeatable)`)
	newQuickCmd.Flags().String("start", "", "Start of the daily study window (HH:MM)")
	newQuickCmd.Flags().String("end", "", "End of the daily study window (HH:MM)")
	newQuickCmd.Flags().Int("break", 0, "Break length in minutes")
	newQuickCmd.Flags().Int("session", 0, "Session length in minutes")
	newQuickCmd.Flags().Int("days", 0, "Days the plan may span")
	newQuickCmd.Flags().StringSlice("activity", nil, "Break activities to pick from")

	newExamCmd.Flags().String("exam-date", "", `Exam date (YYYY-MM-DD or e.g. "next friday")`)
	newExamCmd.Flags().StringArray("rating", nil, `Difficulty line, e.g. "Math: 4" (repeatable)`)
	_ = newExamCmd.MarkFlagRequired("exam-date")

	newSubmissionsCmd.Flags().StringArray("due", nil, `Due date line, e.g. "Essay: 2026-11-02" (repeatable)`)
	newSubmissionsCmd.Flags().StringArray("complexity", nil, `Complexity line, e.g. "Essay: 4" (repeatable)`)
	newSubmissionsCmd.Flags().String("work-style", "", "Focused Sessions, Spread Out or Deadline Driven")

	allocateCmd.Flags().Int("days", 7, "Days available")
	allocateCmd.Flags().String("weights", "", `Priority weights: "exam" or "distribution" (default from config)`)

	newCmd.AddCommand(newQuickCmd)
	newCmd.AddCommand(newExamCmd)
	newCmd.AddCommand(newSubmissionsCmd)

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(allocateCmd)
}

func printWarnings(warn intake.Warnings) {
	for _, w := range warn {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

// lines joins repeated flag values into the line-oriented text intake reads.
func lines(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetStringArray(name)
	return strings.Join(v, "\n")
}

// itemNames returns the positional names, asking for them in a prompt when
// none were given.
func itemNames(args []string, what string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	text, ok, err := tui.RunPrompt("Enter "+what, "One per line. ctrl+d to finish, esc to cancel.", "")
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("cancelled")
	}
	return intake.Lines(text), nil
}

// distinct drops repeated names, keeping the first occurrence.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func workItemNames(items []planner.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func learningStyle(cmd *cobra.Command, fallback string) planner.LearningStyle {
	style, _ := cmd.Flags().GetString("style")
	if style == "" {
		style = fallback
	}
	return planner.ParseLearningStyle(style)
}

func dailyHours(cmd *cobra.Command, e *env) float64 {
	hours, _ := cmd.Flags().GetFloat64("hours")
	if hours <= 0 {
		hours = e.cfg.Defaults.DailyHours
	}
	return hours
}

func preferredTimes(cmd *cobra.Command, e *env) []string {
	prefer, _ := cmd.Flags().GetStringSlice("prefer")
	if len(prefer) == 0 {
		prefer = e.cfg.Defaults.PreferredTimes
	}
	return prefer
}

// savePlan attaches recommendations for the entered subjects, persists
// the plan with an empty progress record and prints it.
func savePlan(ctx context.Context, e *env, plan planner.Plan, subjects []string, style planner.LearningStyle) error {
	if err := advisor.Recommend(ctx, e.advisor(), &plan, subjects, style); err != nil {
		return fmt.Errorf("building recommendations: %w", err)
	}
	if err := e.store.AddPlan(plan); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	e.logger.Debug("plan saved", "id", plan.ID, "type", plan.Type, "tasks", len(plan.Tasks))
	printPlan(plan, planner.NewProgress(len(plan.Tasks)))
	return nil
}

func runNewQuick(cmd *cobra.Command, args []string) error {
	subjects, err := itemNames(args, "subjects")
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var warn intake.Warnings
	topics, w := intake.Topics(lines(cmd, "topic"))
	warn = append(warn, w...)
	priorities, w := intake.Priorities(lines(cmd, "priority"))
	warn = append(warn, w...)

	d := e.cfg.Defaults
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")
	start := intake.Clock(startFlag, intake.Clock(d.StudyStart, planner.MustClock("08:00"), "configured start time", &warn), "start time", &warn)
	end := intake.Clock(endFlag, intake.Clock(d.StudyEnd, planner.MustClock("20:00"), "configured end time", &warn), "end time", &warn)
	if end <= start {
		warn = append(warn, fmt.Sprintf("study window %s-%s is empty, using 08:00-20:00", start, end))
	}

	breakMin, _ := cmd.Flags().GetInt("break")
	if breakMin <= 0 {
		breakMin = d.BreakMinutes
	}
	session, _ := cmd.Flags().GetInt("session")
	if session <= 0 {
		session = d.SessionMinutes
	}
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = d.QuickStudyDays
	}
	activities, _ := cmd.Flags().GetStringSlice("activity")
	if len(activities) == 0 {
		activities = d.BreakActivities
	}
	printWarnings(warn)

	opts, err := e.plannerOptions()
	if err != nil {
		return err
	}
	plan := planner.QuickStudyPlan(planner.QuickStudyRequest{
		Subjects:       subjects,
		Topics:         topics,
		Priorities:     priorities,
		Start:          start,
		End:            end,
		BreakMinutes:   breakMin,
		SessionMinutes: session,
		Activities:     activities,
		Days:           days,
	}, opts)

	return savePlan(cmd.Context(), e, plan, distinct(subjects), learningStyle(cmd, d.LearningStyle))
}

func runNewExam(cmd *cobra.Command, args []string) error {
	subjects, err := itemNames(args, "subjects")
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	now := time.Now()
	dateFlag, _ := cmd.Flags().GetString("exam-date")
	examDate, err := intake.ParseDate(dateFlag, now)
	if err != nil {
		return fmt.Errorf("invalid exam date: %w", err)
	}

	var warn intake.Warnings
	ratings, w := intake.Ratings(lines(cmd, "rating"))
	warn = append(warn, w...)
	priorities, w := intake.Priorities(lines(cmd, "priority"))
	warn = append(warn, w...)
	if planner.DaysUntil(now, examDate) <= 0 {
		warn = append(warn, "exam date is not in the future, planning a single day")
	}
	printWarnings(warn)

	opts, err := e.plannerOptions()
	if err != nil {
		return err
	}
	items := intake.WorkItems(subjects, ratings, priorities, nil)
	plan := planner.ExamPlan(planner.ExamRequest{
		Subjects:       items,
		ExamDate:       examDate,
		DailyHours:     dailyHours(cmd, e),
		PreferredTimes: preferredTimes(cmd, e),
	}, opts)

	return savePlan(cmd.Context(), e, plan, workItemNames(items), learningStyle(cmd, e.cfg.Defaults.LearningStyle))
}

func runNewSubmissions(cmd *cobra.Command, args []string) error {
	assignments, err := itemNames(args, "assignments")
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var warn intake.Warnings
	due, w := intake.DueDates(lines(cmd, "due"), time.Now())
	warn = append(warn, w...)
	complexity, w := intake.Ratings(lines(cmd, "complexity"))
	warn = append(warn, w...)
	priorities, w := intake.Priorities(lines(cmd, "priority"))
	warn = append(warn, w...)
	printWarnings(warn)

	styleFlag, _ := cmd.Flags().GetString("work-style")
	if styleFlag == "" {
		styleFlag = e.cfg.Defaults.WorkStyle
	}
	workStyle := planner.ParseWorkStyle(styleFlag)

	opts, err := e.plannerOptions()
	if err != nil {
		return err
	}
	items := intake.WorkItems(assignments, complexity, priorities, due)
	plan := planner.SubmissionsPlan(planner.SubmissionsRequest{
		Assignments:    items,
		DailyHours:     dailyHours(cmd, e),
		PreferredTimes: preferredTimes(cmd, e),
		WorkStyle:      workStyle,
	}, opts)

	return savePlan(cmd.Context(), e, plan, workItemNames(items), learningStyle(cmd, string(workStyle.LearningStyle())))
}

// findPlan resolves a plan by ID or unique ID prefix. An empty id selects
// the most recently created plan.
func findPlan(st *store.Store, id string) (planner.Plan, error) {
	plans := st.Plans()
	if len(plans) == 0 {
		return planner.Plan{}, fmt.Errorf("no plans yet; create one with 'studyr new'")
	}
	if id == "" {
		return plans[len(plans)-1], nil
	}
	if p, err := st.Plan(id); err == nil {
		return p, nil
	}

	var matches []planner.Plan
	for _, p := range plans {
		if strings.HasPrefix(p.ID, id) || strings.HasPrefix(strings.TrimPrefix(p.ID, "plan_"), id) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return planner.Plan{}, fmt.Errorf("%w: %s", store.ErrPlanNotFound, id)
	case 1:
		return matches[0], nil
	}
	return planner.Plan{}, fmt.Errorf("plan id %q is ambiguous (%d matches)", id, len(matches))
}

func runPlans(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	plans := e.store.Plans()
	if len(plans) == 0 {
		fmt.Println("No plans saved.")
		return nil
	}

	fmt.Printf("Found %d plans:\n\n", len(plans))
	for _, p := range plans {
		prog, err := e.store.Progress(p.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  %s  %-12s  %s  %3.0f%%  %s\n",
			p.ID, p.Type, p.CreatedAt, prog.CompletionPercentage, strings.Join(p.Subjects(), ", "))
	}
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dayStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func printPlan(p planner.Plan, prog planner.Progress) {
	fmt.Println(headingStyle.Render(fmt.Sprintf("%s plan %s", p.Type, p.ID)))
	meta := "Created " + p.CreatedAt
	if p.ExamDate != "" {
		meta += ", exam on " + p.ExamDate
	}
	fmt.Println(faintStyle.Render(meta))

	if len(p.Tasks) == 0 {
		fmt.Println("\nNo tasks.")
	}

	day := "-"
	for i, t := range p.Tasks {
		if t.Date != day {
			day = t.Date
			label := day
			if label == "" {
				label = "Undated"
			}
			fmt.Println()
			fmt.Println(dayStyle.Render(label))
		}
		box := "[ ]"
		if prog.IsDone(i) {
			box = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("  %s %3d  %s-%s  %s: %s", box, t.ID, t.StartTime, t.EndTime, t.Subject, t.Description)
		if t.Type == planner.TaskBreak {
			line = faintStyle.Render(line)
		} else if t.Priority != "" {
			line += faintStyle.Render(" (" + string(t.Priority) + ")")
		}
		fmt.Println(line)
	}

	if len(p.StudyTechniques) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("Study techniques"))
		for _, t := range p.StudyTechniques {
			fmt.Printf("  %s: %s\n", t.Name, t.Description)
		}
	}
	if len(p.Resources) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("Resources"))
		for _, r := range p.Resources {
			fmt.Printf("  %s: %s (%s, %s)\n    %s\n", r.Subject, r.Title, r.Type, r.Difficulty, faintStyle.Render(r.URL))
		}
	}

	if prog.TotalTasks > 0 {
		fmt.Printf("\n%d of %d tasks done (%.0f%%)\n", len(prog.CompletedTasks), prog.TotalTasks, prog.CompletionPercentage)
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	p, err := findPlan(e.store, id)
	if err != nil {
		return err
	}
	prog, err := e.store.Progress(p.ID)
	if err != nil {
		return err
	}
	printPlan(p, prog)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := findPlan(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.DeletePlan(p.ID); err != nil {
		return err
	}
	if err := e.hist.DeletePlan(p.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted plan %s\n", p.ID)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.Reset(); err != nil {
		return fmt.Errorf("resetting data: %w", err)
	}
	if err := e.hist.Clear(); err != nil {
		return err
	}
	fmt.Println("All data cleared.")
	return nil
}

func runMark(args []string, done bool) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := findPlan(e.store, args[0])
	if err != nil {
		return err
	}

	t := e.tracker()
	var prog planner.Progress
	for _, raw := range args[1:] {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid task id %q", raw)
		}
		if prog, err = t.SetTaskDone(p.ID, index, done); err != nil {
			return err
		}
	}
	fmt.Printf("%s: %d of %d tasks done (%.0f%%)\n", p.ID, len(prog.CompletedTasks), prog.TotalTasks, prog.CompletionPercentage)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	plans := e.store.Plans()
	if len(plans) == 0 {
		fmt.Println("No plans saved.")
		return nil
	}
	progress := make(map[string]planner.Progress, len(plans))
	for _, p := range plans {
		if progress[p.ID], err = e.store.Progress(p.ID); err != nil {
			return err
		}
	}

	last, err := e.hist.GetState(lastPlanKey)
	if err != nil {
		e.logger.Warn("reading last plan", "error", err)
	}
	if _, err := e.store.Plan(last); errors.Is(err, store.ErrPlanNotFound) {
		last = ""
	}

	app := tui.NewBrowser(plans, progress, e.tracker(), last)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	if result := app.GetResult(); result != nil && result.PlanID != "" {
		if err := e.hist.SetState(lastPlanKey, result.PlanID); err != nil {
			return fmt.Errorf("saving last plan: %w", err)
		}
	}
	return nil
}

func runAllocate(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return fmt.Errorf("--days must be positive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.Multipliers()
	if err != nil {
		return err
	}
	if name, _ := cmd.Flags().GetString("weights"); name != "" {
		var ok bool
		if m, ok = planner.MultipliersByName(name); !ok {
			return fmt.Errorf("unknown weights %q", name)
		}
	}

	items, warn := allocationItems(args)
	printWarnings(warn)

	alloc := planner.Allocate(items, days, m)
	for i, s := range alloc {
		fmt.Printf("  %-24s %-6s %d/5 %3d days\n", s.Name, items[i].Priority, items[i].Difficulty, s.Days)
	}
	fmt.Printf("\nTotal: %d of %d days\n", alloc.Total(), days)
	return nil
}

// allocationItems parses "name[:priority[:difficulty]]" arguments.
// Priority defaults to Medium and difficulty to 3; difficulty is kept
// within 1-5.
func allocationItems(args []string) ([]planner.WorkItem, intake.Warnings) {
	var warn intake.Warnings
	items := make([]planner.WorkItem, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 3)
		item := planner.WorkItem{
			Name:       strings.TrimSpace(parts[0]),
			Priority:   planner.PriorityMedium,
			Difficulty: planner.DefaultDifficulty,
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			p, ok := planner.LookupPriority(parts[1])
			if !ok {
				warn = append(warn, fmt.Sprintf("unknown priority %q for %s, using Medium", parts[1], item.Name))
			}
			item.Priority = p
		}
		if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
			d, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			switch {
			case err != nil:
				warn = append(warn, fmt.Sprintf("invalid difficulty %q for %s, using %d", parts[2], item.Name, planner.DefaultDifficulty))
			case d < 1 || d > 5:
				item.Difficulty = min(max(d, 1), 5)
				warn = append(warn, fmt.Sprintf("difficulty %d for %s out of range, using %d", d, item.Name, item.Difficulty))
			default:
				item.Difficulty = d
			}
		}
		items = append(items, item)
	}
	return items, warn
}
