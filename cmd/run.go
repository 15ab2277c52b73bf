package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/tyburn/internal/config"
	"github.com/Norgate-AV/tyburn/internal/demo"
	"github.com/Norgate-AV/tyburn/internal/script"
	"github.com/Norgate-AV/tyburn/internal/timeouts"
	"github.com/Norgate-AV/tyburn/pkg/tyburn"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario file against the demo application",
	Args:  validateScenarioFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := script.Load(args[0])
		if err != nil {
			return err
		}

		return runScenario(cmd, sc)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in scenario against the demo application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc, err := script.Parse(demo.Scenario)
		if err != nil {
			return err
		}

		return runScenario(cmd, sc)
	},
}

// validateScenarioFile checks that exactly one YAML file is given
func validateScenarioFile(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}

	switch filepath.Ext(args[0]) {
	case ".yaml", ".yml":
		return nil
	default:
		return fmt.Errorf("scenario file must have .yaml or .yml extension")
	}
}

func runScenario(cmd *cobra.Command, sc *script.Scenario) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	tk := widget.New(widget.Options{})
	tk.Start()
	defer stopToolkit(tk)

	log.Debug("Starting demo application")
	if _, err := demo.Show(tk); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()

	control := tyburn.New(tk, sc.Window,
		tyburn.WithConfig(cfg),
		tyburn.WithLogger(log.Slog()),
		tyburn.WithMetrics(reg),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := script.NewRunner(log).Run(ctx, control, sc)
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			log.Warn("Could not write metrics", "path", metricsFile, "error", err)
		} else {
			log.Debug("Metrics written", "path", metricsFile)
		}
	}

	return runErr
}

// stopToolkit gives the UI thread a bounded window to finish its current
// task.
func stopToolkit(tk *widget.Toolkit) {
	done := make(chan struct{})
	go func() {
		tk.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeouts.ShutdownGracePeriod):
	}
}

func printReport(w io.Writer, r *script.Report) {
	passed := 0

	fmt.Fprintf(w, "=== Scenario: %s ===\n", r.Window)

	for _, s := range r.Steps {
		status := "PASS"
		if s.Err != nil {
			status = "FAIL"
		} else {
			passed++
		}

		label := s.Action
		if s.Label != "" {
			label = fmt.Sprintf("%s (%s)", s.Action, s.Label)
		}

		fmt.Fprintf(w, "%s  %2d  %-40s %s\n", status, s.Index, label, s.Duration.Round(time.Millisecond))
		if s.Err != nil {
			fmt.Fprintf(w, "          %v\n", s.Err)
		}
	}

	fmt.Fprintf(w, "%d/%d steps passed\n", passed, len(r.Steps))
}

// ensure the runner accepts the public control type
var _ script.Controller = (*tyburn.WindowControl)(nil)
