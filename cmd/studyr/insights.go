package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/christopherklint97/studyr/internal/insights"
	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change stored preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one preference, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a preference; leaving out the value removes it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPrefsSet,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarise completion and when you get work done",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(insightsCmd)
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	prefs := e.store.Preferences()
	if len(args) == 1 {
		v, ok := prefs[args[0]]
		if !ok {
			return fmt.Errorf("preference %q is not set", args[0])
		}
		fmt.Println(v)
		return nil
	}

	if len(prefs) == 0 {
		fmt.Println("No preferences stored.")
		return nil
	}
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %s\n", k, prefs[k])
	}
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	value := ""
	if len(args) == 2 {
		value = args[1]
	}
	if err := e.store.SetPreference(args[0], value); err != nil {
		return err
	}
	if value == "" {
		fmt.Printf("Removed %s\n", args[0])
	} else {
		fmt.Printf("Set %s = %s\n", args[0], value)
	}
	return nil
}

func runInsights(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	plans := e.store.Plans()
	progress := make(map[string]planner.Progress, len(plans))
	for _, p := range plans {
		if progress[p.ID], err = e.store.Progress(p.ID); err != nil {
			return err
		}
	}
	activity, err := e.hist.Activities("")
	if err != nil {
		return err
	}

	s := insights.Summarize(plans, progress)
	fmt.Println(headingStyle.Render("Progress"))
	fmt.Printf("  %d plans, %d of %d tasks done (%.0f%%)\n", s.Plans, s.Completed, s.Tasks, s.CompletionRate)
	for _, sub := range s.Subjects {
		fmt.Printf("  %-24s %3d/%-3d %3.0f%%\n", sub.Subject, sub.Completed, sub.Total, sub.Rate())
	}

	fmt.Println()
	fmt.Println(headingStyle.Render("When you finish tasks"))
	for _, slot := range insights.TimeOfDay(activity) {
		fmt.Printf("  %-10s %-12s %d\n", slot.Bucket, faintStyle.Render(slot.Bucket.Hours()), slot.Completions)
	}

	p := insights.Analyze(activity)
	names := make([]string, len(p.ProductiveTimes))
	for i, b := range p.ProductiveTimes {
		names[i] = string(b)
	}
	fmt.Println()
	fmt.Println(headingStyle.Render("Patterns"))
	fmt.Printf("  Most productive: %s\n", strings.Join(names, ", "))
	fmt.Printf("  Techniques that work: %s\n", strings.Join(p.EffectiveTechniques, ", "))
	for _, r := range p.Recommendations {
		fmt.Printf("  - %s\n", r)
	}
	return nil
}
