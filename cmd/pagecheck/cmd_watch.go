// Package main implements the pagecheck CLI commands.
// This file contains the watch command.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [suite.yaml]",
	Short: "Re-run the suite whenever its file changes",
	Long: `Watch runs the suite once, then watches the suite file and re-runs it
on every save. Useful while iterating on a page next to a dev server.
Ctrl-C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	suitePath := "checks.yaml"
	if len(args) == 1 {
		suitePath = args[0]
	}
	abs, err := filepath.Abs(suitePath)
	if err != nil {
		return fmt.Errorf("resolve suite path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// the watch would be lost with it.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	execute := func() {
		if err := runSuite(cmd, []string{abs}); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	execute()
	fmt.Printf("👀 Watching %s (Ctrl-C to stop)\n", suitePath)

	// Debounce rapid saves
	const debounce = 500 * time.Millisecond
	var pending *time.Timer
	pendingCh := make(chan struct{}, 1)

	for {
		select {
		case <-sigCh:
			fmt.Println("\nStopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("suite changed", zap.String("event", event.String()))
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() {
				select {
				case pendingCh <- struct{}{}:
				default:
				}
			})
		case <-pendingCh:
			execute()
			fmt.Printf("👀 Watching %s (Ctrl-C to stop)\n", suitePath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
