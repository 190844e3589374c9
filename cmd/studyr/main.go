package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/christopherklint97/studyr/internal/advisor"
	"github.com/christopherklint97/studyr/internal/config"
	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/christopherklint97/studyr/internal/scheduler"
	"github.com/christopherklint97/studyr/internal/store"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "studyr",
	Short:        "Personal study planner",
	Long:         "studyr turns your subjects, topics and deadlines into dated study plans, tracks what you finish, and reminds you when a session is about to start.",
	SilenceUsage: true,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder loop for upcoming study sessions",
	RunE:  runRemind,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reminder loop",
	RunE:  runStop,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <section.key> <value>",
	Short: "Set a single config value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	remindCmd.Flags().Bool("once", false, "Check for due sessions once and exit")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// env bundles what most commands need: the config, the plan document and
// the activity history.
type env struct {
	cfg    *config.Config
	store  *store.Store
	hist   *store.History
	logger *slog.Logger
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()

	st, err := store.Open(cfg.Storage.DataFile, logger)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	hist, err := store.OpenHistory(cfg.Storage.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	logger.Debug("storage opened", "data_file", st.Path(), "history_db", cfg.Storage.HistoryDB)
	return &env{cfg: cfg, store: st, hist: hist, logger: logger}, nil
}

func (e *env) Close() error {
	return e.hist.Close()
}

func (e *env) plannerOptions() (planner.Options, error) {
	m, err := e.cfg.Multipliers()
	if err != nil {
		return planner.Options{}, err
	}
	return planner.Options{
		MinTasks:    e.cfg.Planner.MinTasks,
		Multipliers: m,
	}, nil
}

func (e *env) advisor() advisor.Provider {
	if e.cfg.Advisor.Provider != "openai" {
		return advisor.Static{}
	}
	if e.cfg.Advisor.APIKey == "" {
		e.logger.Warn("openai advisor selected without an API key, using built-in recommendations")
		return advisor.Static{}
	}
	return advisor.NewOpenAI(advisor.OpenAIConfig{
		APIKey:  e.cfg.Advisor.APIKey,
		BaseURL: e.cfg.Advisor.BaseURL,
		Model:   e.cfg.Advisor.Model,
	}, e.logger)
}

// tracker toggles task completion in the plan document and mirrors every
// change into the activity history.
type tracker struct {
	store *store.Store
	hist  *store.History
	now   func() time.Time
}

func (e *env) tracker() *tracker {
	return &tracker{store: e.store, hist: e.hist, now: time.Now}
}

func (t *tracker) SetTaskDone(planID string, index int, done bool) (planner.Progress, error) {
	prog, changed, err := t.store.SetTaskDone(planID, index, done)
	if err != nil || !changed {
		return prog, err
	}
	plan, err := t.store.Plan(planID)
	if err != nil {
		return prog, err
	}
	_, err = t.hist.Record(store.Activity{
		PlanID:    planID,
		TaskIndex: index,
		Subject:   plan.Tasks[index].Subject,
		Completed: done,
		At:        t.now(),
	})
	return prog, err
}

func runRemind(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.cfg.Reminders.Enabled {
		return fmt.Errorf("reminders are disabled; run 'studyr config set reminders.enabled true' to turn them on")
	}

	sched := scheduler.New(e.cfg.Reminders, e.store, e.hist, scheduler.Desktop{}, e.logger)

	if once {
		due, err := sched.Check(time.Now())
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("Nothing starting soon.")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return sched.Run(ctx)
}

func runStop(cmd *cobra.Command, args []string) error {
	pid, err := scheduler.ReadPID()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to studyr (PID %d)\n", pid)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := toml.Marshal(config.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshaling default config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := config.Set(configPath, args[0], args[1]); err != nil {
		return err
	}
	if _, err := config.LoadFile(configPath); err != nil {
		return fmt.Errorf("config no longer loads after update: %w", err)
	}
	fmt.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}
