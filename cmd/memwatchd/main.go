// Command memwatchd is the outer CLI around the core watchdog: flag
// parsing, config-file layering, privilege checking, and signal
// handling are all plumbing the core specification calls out of scope
// (see SPEC_FULL.md's PURPOSE & SCOPE section) — this file is that
// plumbing, generalized from witr's cmd/witr/main.go flag-handling
// style to cobra/viper since this is a long-running daemon with a
// config file rather than a one-shot inspection CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Emasoft/process-killer/internal/actionlog"
	"github.com/Emasoft/process-killer/internal/config"
	"github.com/Emasoft/process-killer/internal/dashboard"
	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/watchdog"
)

var dashboardEnabled bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var huntingMode bool

	root := &cobra.Command{
		Use:   "memwatchd",
		Short: "Privileged per-host memory-leak-killing watchdog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if huntingMode {
				cfg.Mode = model.ModeHunting
			}
			bindViperOverrides(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, "invalid flags:", err)
				os.Exit(3)
			}
			return run(cfg)
		},
	}

	flags := root.Flags()
	flags.IntVar(&cfg.IntervalSeconds, "interval", cfg.IntervalSeconds, "seconds between ticks")
	flags.IntVar(&cfg.History, "history", cfg.History, "sample history window length")
	flags.IntVar(&cfg.GrowthMB, "growth", cfg.GrowthMB, "minimum net growth in MB to classify as leaking")
	flags.IntVar(&cfg.SlopeMBPerMin, "slope", cfg.SlopeMBPerMin, "minimum slope in MB/min to classify as leaking")
	flags.IntVar(&cfg.Conf, "conf", cfg.Conf, "consecutive confirmations required before KILLABLE")
	flags.IntVar(&cfg.GraceSeconds, "grace", cfg.GraceSeconds, "grace period before a new record is watched")
	flags.IntVar(&cfg.CoolSeconds, "cool", cfg.CoolSeconds, "cooldown after a plateau or failed kill")
	flags.IntVar(&cfg.HighPct, "high", cfg.HighPct, "used%% watermark that triggers pressure relief")
	flags.IntVar(&cfg.LowPct, "low", cfg.LowPct, "used%% watermark that ends pressure relief")
	flags.IntVar(&cfg.RecentSeconds, "recent", cfg.RecentSeconds, "recency window in seconds; not used by the pressure scorer, whose age term is 1/age")
	flags.Float64Var(&cfg.ChildWeight, "child-wt", cfg.ChildWeight, "pressure scorer weight for child process count")
	flags.IntVar(&cfg.NotifyThreshold, "notify-threshold", cfg.NotifyThreshold, "kills per fingerprint before a recidivism notification")
	flags.IntVar(&cfg.NotifyWindowSec, "notify-window", cfg.NotifyWindowSec, "rolling window in seconds for recidivism counting")
	flags.BoolVar(&cfg.ItermOnly, "iterm-only", cfg.ItermOnly, "only consider processes descended from the terminal emulator")
	flags.BoolVar(&cfg.Docker, "docker", cfg.Docker, "also monitor containers via the external container runtime")
	flags.Bool("protection-mode", true, "kill confirmed leaks only once global pressure crosses leak-threshold (default)")
	flags.BoolVar(&huntingMode, "hunting-mode", false, "kill confirmed leaks unconditionally")
	flags.IntVar(&cfg.LeakThresholdPct, "leak-threshold", cfg.LeakThresholdPct, "used%% gate for leak kills in protection mode")
	flags.BoolVar(&dashboardEnabled, "dashboard", false, "show a live terminal dashboard of tracked records instead of running headless")
	root.MarkFlagsMutuallyExclusive("protection-mode", "hunting-mode")

	return root
}

// bindViperOverrides layers a ~/.memwatchd.yaml config file under
// whatever flags the user explicitly passed, per SPEC_FULL.md's AMBIENT
// STACK ("flags override a ~/.memwatchd.yaml override a built-in
// default").
func bindViperOverrides(cmd *cobra.Command, cfg *config.Config) {
	v := viper.New()
	v.SetConfigName(".memwatchd")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	configErr := v.ReadInConfig() // absent config file is not an error

	apply := func(flagName string, set func()) {
		if configErr != nil {
			return // no config file values to layer in
		}
		if cmd.Flags().Changed(flagName) {
			return // explicit flag always wins
		}
		if v.IsSet(flagName) {
			set()
		}
	}
	apply("interval", func() { cfg.IntervalSeconds = v.GetInt("interval") })
	apply("history", func() { cfg.History = v.GetInt("history"); cfg.Set.History = true })
	apply("growth", func() { cfg.GrowthMB = v.GetInt("growth"); cfg.Set.GrowthMB = true })
	apply("slope", func() { cfg.SlopeMBPerMin = v.GetInt("slope"); cfg.Set.SlopeMBPerMin = true })
	apply("high", func() { cfg.HighPct = v.GetInt("high"); cfg.Set.HighPct = true })
	apply("low", func() { cfg.LowPct = v.GetInt("low"); cfg.Set.LowPct = true })

	// Mark the flags the user DID pass explicitly as "set" too, so the
	// tuner knows to treat them as overrides rather than tier defaults.
	if cmd.Flags().Changed("history") {
		cfg.Set.History = true
	}
	if cmd.Flags().Changed("growth") {
		cfg.Set.GrowthMB = true
	}
	if cmd.Flags().Changed("slope") {
		cfg.Set.SlopeMBPerMin = true
	}
	if cmd.Flags().Changed("high") {
		cfg.Set.HighPct = true
	}
	if cmd.Flags().Changed("low") {
		cfg.Set.LowPct = true
	}
}

func run(cfg config.Config) error {
	if err := watchdog.RequirePrivilege(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	al, err := actionlog.Open(filepath.Join(home, "memory_leak_killer.log"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot open action log:", err)
		os.Exit(4)
	}

	// mode/interval/docker are all internally validated config values,
	// never untrusted process data, so the startup banner needs no
	// sanitization pass.
	fmt.Printf("memwatchd starting: mode=%s interval=%ds docker=%t\n", cfg.Mode, cfg.IntervalSeconds, cfg.Docker)

	w := watchdog.New(cfg, logger, al)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if dashboardEnabled {
		go func() {
			_ = dashboard.Run(w, time.Duration(cfg.IntervalSeconds)*time.Second)
			cancel()
		}()
	}

	if err := w.Run(ctx); err != nil {
		return err
	}
	return nil
}
