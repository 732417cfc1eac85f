// Package main implements the pagecheck CLI commands.
// This file contains the run command.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pagecheck/internal/check"
	"pagecheck/internal/config"
	"pagecheck/internal/report"
	"pagecheck/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runHeadless  bool
	runNoHistory bool
	runReportDir string
)

var runCmd = &cobra.Command{
	Use:   "run [suite.yaml]",
	Short: "Run a smoke-check suite",
	Long: `Run executes every check in the suite file (default: checks.yaml).

Each target is probed with a plain GET first; the browser launches only if at
least one target is reachable. The process exits non-zero when any check
fails or errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuite,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run the browser headless")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip recording the run in the history DB")
	runCmd.Flags().StringVar(&runReportDir, "report-dir", "", "Directory for Markdown reports (overrides config)")
}

func runSuite(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	suitePath := "checks.yaml"
	if len(args) == 1 {
		suitePath = args[0]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = runHeadless
	}
	if runReportDir != "" {
		cfg.ReportDir = runReportDir
	}

	suite, err := check.LoadSuite(suitePath)
	if err != nil {
		return err
	}
	logger.Info("running suite",
		zap.String("suite", suite.Name),
		zap.Int("checks", len(suite.Checks)),
		zap.Bool("headless", cfg.Browser.IsHeadless()))

	runner := check.NewRunner(cfg.Browser, cfg.ProbeTimeout(), logger)
	result, err := runner.Run(ctx, suite)
	if err != nil {
		return err
	}

	report.NewConsoleWriter(os.Stdout).Write(result)

	reportPath, err := writeReport(cfg.GetReportDir(), result)
	if err != nil {
		logger.Warn("failed to write report", zap.Error(err))
	} else {
		fmt.Printf("📄 Report written: %s\n", reportPath)
	}

	if !runNoHistory {
		if err := saveHistory(cfg, result, reportPath); err != nil {
			logger.Warn("failed to record run", zap.Error(err))
		}
	}

	if result.Failed() {
		passed, failed, errored := result.Counts()
		return fmt.Errorf("%d of %d checks did not pass (%d failed, %d errored)",
			failed+errored, passed+failed+errored, failed, errored)
	}
	return nil
}

func writeReport(dir string, result *check.RunResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, result.ID+".md")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := report.NewMarkdownWriter(f).Write(result); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func saveHistory(cfg config.Config, result *check.RunResult, reportPath string) error {
	path := cfg.HistoryPath
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return err
		}
	}
	h, err := store.Open(path)
	if err != nil {
		return err
	}
	defer h.Close()
	return h.SaveRun(result, reportPath)
}
