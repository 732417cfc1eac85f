// Package main implements the pagecheck CLI commands.
// This file contains the history commands.
package main

import (
	"fmt"
	"os"

	"pagecheck/internal/config"
	"pagecheck/internal/report"
	"pagecheck/internal/store"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Render a stored run report (a unique ID prefix works)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
}

func openHistory() (*store.History, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	path := cfg.HistoryPath
	if path == "" {
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	runs, err := h.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-19s  %s\n", "RUN", "SUITE", "STARTED", "RESULT")
	for _, r := range runs {
		result := fmt.Sprintf("✅ %d passed", r.Passed)
		if r.Failed+r.Errored > 0 {
			result = fmt.Sprintf("❌ %d passed / %d failed / %d errored", r.Passed, r.Failed, r.Errored)
		}
		fmt.Printf("%-36s  %-20s  %-19s  %s\n",
			r.ID, r.Suite, r.StartedAt.Format("2006-01-02 15:04:05"), result)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	run, err := h.GetRun(args[0])
	if err != nil {
		return err
	}

	if run.Summary.ReportPath != "" {
		if data, err := os.ReadFile(run.Summary.ReportPath); err == nil {
			fmt.Print(report.RenderForTerminal(string(data)))
			return nil
		}
		// Report file gone; fall back to the stored rows.
	}

	fmt.Printf("Run %s (%s) started %s\n",
		run.Summary.ID, run.Summary.Suite,
		run.Summary.StartedAt.Format("2006-01-02 15:04:05"))
	for _, c := range run.Checks {
		fmt.Printf("  [%s] %s %s", c.Status, c.Name, c.URL)
		if c.Reason != "" {
			fmt.Printf(" - %s", c.Reason)
		}
		fmt.Println()
	}
	return nil
}
