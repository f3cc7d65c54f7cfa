package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/stack"
)

// newWatchCmd creates the "watch" subcommand for auto-synthesis on changes.
func newWatchCmd() *cobra.Command {
	var (
		flags        configFlags
		scriptsDir   string
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize when configuration or bootstrap scripts change",
		Long: `Watch monitors the configuration documents and bootstrap scripts and
re-synthesizes the template on each change. Rapid changes are debounced.

Examples:
    threetier watch -o template.json
    APP_ENV=staging threetier watch --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(flags, watchOptions{
				scriptsDir:   scriptsDir,
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&scriptsDir, "scripts-dir", "scripts", "Directory holding bootstrap scripts")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: announce only)")

	return cmd
}

type watchOptions struct {
	scriptsDir   string
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

func runWatch(flags configFlags, opts watchOptions) error {
	configPath, err := flags.resolve()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dirs := watchTargets(configPath, opts.scriptsDir)
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		fmt.Printf("Watching: %s\n", dir)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Running initial synthesis...")
	synthesizeOnce(flags, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchRelevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: reset timer on each change.
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Printf("\n[%s] Change detected, re-synthesizing...\n", time.Now().Format("15:04:05"))
			synthesizeOnce(flags, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-sigChan:
			fmt.Println("\nStopping watch...")
			return nil
		}
	}
}

// watchTargets returns the directories to monitor: the configuration
// document's directory plus the scripts directory when it exists.
func watchTargets(configPath, scriptsDir string) []string {
	configDir := filepath.Dir(configPath)
	dirs := []string{configDir}

	if info, err := os.Stat(scriptsDir); err == nil && info.IsDir() {
		if filepath.Clean(scriptsDir) != filepath.Clean(configDir) {
			dirs = append(dirs, scriptsDir)
		}
	}
	return dirs
}

// watchRelevant reports whether a changed file affects synthesis.
func watchRelevant(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".sh":
		return true
	}
	return false
}

// synthesizeOnce runs one synthesis pass, reporting errors without stopping
// the watch loop.
func synthesizeOnce(flags configFlags, opts watchOptions) {
	cfg, path, err := flags.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return
	}

	tmpl, err := stack.Synthesize(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Synthesis error: %v\n", err)
		return
	}

	if opts.outputFile == "" {
		fmt.Printf("Synthesized %d resources from %s\n", len(tmpl.Resources), path)
		return
	}

	if err := writeTemplate(tmpl, opts.outputFormat, opts.outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		return
	}
	fmt.Printf("Synthesized %d resources, wrote %s\n", len(tmpl.Resources), opts.outputFile)
}
