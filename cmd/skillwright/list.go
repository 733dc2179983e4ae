package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillwright/skillwright/pkg/config"
	"github.com/skillwright/skillwright/pkg/logger"
	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills",
	Long: `List every discovered skill with its category, aliases, and relation
counts. Use --filter to narrow by id or tag glob, and --watch to re-render
whenever a skill directory changes.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		filter, _ := cmd.Flags().GetString("filter")
		watch, _ := cmd.Flags().GetBool("watch")

		var matcher glob.Glob
		if filter != "" {
			var err error
			matcher, err = glob.Compile(filter)
			if err != nil {
				presenter.Error(errors.Wrap(err, "invalid filter"), "")
				os.Exit(exitInvalid)
			}
		}

		m, settings := buildMatrix(ctx)
		renderSkillTable(m, matcher)

		if watch {
			watchSkillDirs(ctx, settings, matcher)
		}
	},
}

func init() {
	listCmd.Flags().String("filter", "", "glob over skill ids and tags (e.g. 'react*')")
	listCmd.Flags().Bool("watch", false, "re-render when skill directories change")
}

func renderSkillTable(m *matrix.Matrix, matcher glob.Glob) {
	presenter.Section("Skills")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tALIAS\tRELATIONS")

	for _, id := range m.SkillIDs() {
		s, _ := m.Skill(id)
		if matcher != nil && !matchesSkill(s, matcher) {
			continue
		}
		alias, _ := m.Aliases.Reverse(id)
		relations := len(s.ConflictsWith) + len(s.Recommends) + len(s.Requires) + len(s.Discourages) + len(s.Alternatives)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", id, s.Name, s.Category, alias, relations)
	}
	tw.Flush()
}

func matchesSkill(s *matrix.ResolvedSkill, matcher glob.Glob) bool {
	if matcher.Match(s.ID) {
		return true
	}
	for _, tag := range s.Tags {
		if matcher.Match(tag) {
			return true
		}
	}
	return false
}

// watchSkillDirs re-runs discovery and re-renders the table whenever a
// skill directory changes, debouncing bursts of filesystem events.
func watchSkillDirs(ctx context.Context, settings *config.Settings, matcher glob.Glob) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(errors.Wrap(err, "failed to create watcher"), "")
		os.Exit(exitInvalid)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range settings.SkillDirs {
		if err := watcher.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		presenter.Error(errors.New("no skill directory could be watched"), "")
		os.Exit(exitInvalid)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presenter.Info("Watching for changes (ctrl+c to stop)...")

	var timer *time.Timer
	changed := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce: editors fire several events per save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.G(ctx).WithError(err).Warn("watch error")
		case <-changed:
			m, _ := buildMatrix(ctx)
			presenter.Separator()
			renderSkillTable(m, matcher)
		}
	}
}
