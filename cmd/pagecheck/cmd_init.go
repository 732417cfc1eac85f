// Package main implements the pagecheck CLI commands.
// This file contains the init command.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter suite file",
	Long: `Init writes a checks.yaml starter suite into the given directory
(default: current directory). The generated check verifies a local dashboard's
impact section: three animated metric counters, the mini-metric texts, and a
screenshot of the section.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const starterSuite = `name: dashboard
checks:
  - name: impact-section
    url: http://localhost:3000
    section: "#impact"
    count_selector: ".metric-counter"
    count_label: animated metrics
    expect_count: 3
    text_selector: ".text-2xl.font-bold"
    text_label: Mini metrics
    screenshot: impact-section.png
`

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing checks.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, "checks.yaml")
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(starterSuite), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Printf("✅ Wrote %s\n", path)
	fmt.Println("Edit the suite for your pages, then run 'pagecheck run'")
	return nil
}
