package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/tyburn/internal/config"
	"github.com/Norgate-AV/tyburn/internal/logger"
	"github.com/Norgate-AV/tyburn/internal/version"
)

var (
	verbose     bool
	showLogs    bool
	metricsFile string
)

var RootCmd = &cobra.Command{
	Use:   "tyburn",
	Short: "tyburn - Drive widget applications from scripted scenarios",
	Long: `tyburn drives a widget application the way a user would: it clicks
buttons, enters text, presses keys and closes windows by name, with every
widget access marshalled onto the toolkit's UI thread.`,
	Version:       version.GetVersion(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runRoot,
}

func init() {
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "enable verbose output")
	RootCmd.PersistentFlags().StringVar(&metricsFile, "metrics", "", "write Prometheus metrics to this file when done")
	RootCmd.Flags().BoolVarP(&showLogs, "logs", "l", false, "print the current log file and exit")

	RootCmd.AddCommand(runCmd, demoCmd)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if !showLogs {
		return cmd.Help()
	}

	cfg := config.LoadOrDefault()
	return logger.PrintLogFile(cmd.OutOrStdout(), loggerOptions(cmd, cfg))
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func loggerOptions(cmd *cobra.Command, cfg *config.Config) logger.LoggerOptions {
	return logger.LoggerOptions{
		Verbose:  verbose || cfg.Verbose,
		LogDir:   cfg.LogDir,
		Console:  cmd.OutOrStdout(),
		Compress: true,
	}
}

// setupLogger creates the file and console logger and makes it the slog
// default, so toolkit panics land in the log too.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.NewLogger(loggerOptions(cmd, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	slog.SetDefault(log.Slog())
	log.Debug("Logging to file", "path", log.GetLogPath())

	return log, nil
}
