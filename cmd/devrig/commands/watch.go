package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce window for editor save bursts (write + chmod + rename).
const watchDebounce = 500 * time.Millisecond

func newWatchCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-apply a manifest whenever it changes",
		Long: `Watch a manifest file and run apply every time it is written.

Runs are serialized: a save during a run schedules one more run after
the current one finishes. Idempotent changers make repeated applies
cheap, since unchanged resources are skipped. Stop with Ctrl-C.`,
		Example: `  devrig watch --manifest rig.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath == "" {
				return fmt.Errorf("watch requires --manifest")
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory, not the file: editors replace files
			// on save and the inode-level watch would be lost.
			dir := filepath.Dir(manifestPath)
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}

			target, err := filepath.Abs(manifestPath)
			if err != nil {
				return err
			}

			applyOnce := func() {
				built, err := rt.buildChangers(nil, manifestPath)
				if err != nil {
					rt.log.WithError(err).Error("failed to load manifest")
					return
				}
				eng := rt.newEngine()
				for _, changer := range built {
					eng.AddStateChanger(changer)
				}
				summary := eng.ApplyChanges(cmd.Context(), verbose)
				rt.log.WithField("status", summary.Status()).
					Infof("apply complete: %d succeeded, %d failed, %d skipped",
						summary.Succeeded, summary.Failed, summary.Skipped)
			}

			rt.log.WithField("manifest", manifestPath).Info("watching manifest, press Ctrl-C to stop")
			applyOnce()

			ctx := cmd.Context()
			var timer *time.Timer
			var fire <-chan time.Time

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					abs, err := filepath.Abs(event.Name)
					if err != nil || abs != target {
						continue
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					if timer == nil {
						timer = time.NewTimer(watchDebounce)
					} else {
						timer.Reset(watchDebounce)
					}
					fire = timer.C
				case <-fire:
					fire = nil
					applyOnce()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					rt.log.WithError(err).Error("watch error")
				}
			}
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (.cue, .yaml or .yml)")

	return cmd
}
