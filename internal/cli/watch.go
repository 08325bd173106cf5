package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"mcpsync/internal/config"
	"mcpsync/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch target configs and re-plan on drift",
	Long: "Watch keeps an eye on every target's config file (and the mcpsync\n" +
		"config itself) and re-plans whenever something changes on disk. With\n" +
		"--apply, detected drift is reconciled immediately.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchApplyFlag bool

const watchDebounce = 300 * time.Millisecond

func init() {
	watchCmd.Flags().BoolVar(&watchApplyFlag, "apply", false, "Apply the plan whenever drift is detected")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched, err := addWatchDirs(watcher)
	if err != nil {
		return err
	}

	check := func() {
		cfg, err := loadConfig()
		if err != nil {
			cmd.PrintErrln(ErrorStyle.Render("error:") + " " + err.Error())
			return
		}
		eng, sources, err := buildEngine(cfg)
		if err != nil {
			cmd.PrintErrln(ErrorStyle.Render("error:") + " " + err.Error())
			return
		}
		plan, state, err := eng.Preview(ctx, sources, cfg.Policies, cfg.PreserveUnmanagedOrDefault())
		if err != nil {
			cmd.PrintErrln(ErrorStyle.Render("error:") + " " + err.Error())
			return
		}
		cmd.Printf("%s %s\n", PathStyle.Render(time.Now().Format(time.Kitchen)), "checked")
		cmd.Print(renderPlan(plan, state))

		if watchApplyFlag && plan.TotalOperations > 0 {
			result, err := eng.Apply(ctx, plan)
			if err != nil {
				cmd.PrintErrln(ErrorStyle.Render("apply failed:") + " " + err.Error())
				return
			}
			cmd.Printf("%s revision %s\n", SuccessStyle.Render("applied"), result.RevisionID)
		}
	}

	cmd.Printf("Watching %d directories. Ctrl-C to stop.\n", watched)
	check()

	// Editors replace config files by rename, so events fire on the
	// directory watch; debounce to coalesce save bursts.
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false
	for {
		select {
		case <-ctx.Done():
			cmd.Println()
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watcher error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(ev) {
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			if pending {
				pending = false
				check()
			}
		}
	}
}

// addWatchDirs watches the parent directory of every candidate path plus
// the config file's directory, and returns how many directories are
// covered. Directories that do not exist yet are skipped.
func addWatchDirs(watcher *fsnotify.Watcher) (int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return 0, err
	}

	dirs := make(map[string]bool)
	if configPathFlag != "" {
		dirs[filepath.Dir(configPathFlag)] = true
	} else if path, ok := config.FindConfigFile(); ok {
		dirs[filepath.Dir(path)] = true
	}

	_, sources, err := buildEngine(cfg)
	if err != nil {
		return 0, err
	}
	for _, src := range sources {
		for _, candidate := range src.Candidates {
			dirs[filepath.Dir(candidate)] = true
		}
	}

	watched := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logging.Debug("Skipping unwatchable directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return 0, fmt.Errorf("no watchable directories found")
	}
	return watched, nil
}

func isRelevantEvent(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
