package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/export"
	"github.com/sadopc/passport/internal/session"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// withRuntime wraps a command body with runtime setup and teardown.
func withRuntime(fn func(cmd *cobra.Command, args []string, rt *runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd, args, rt)
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress, timer and pace",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			printSummary(cmd.OutOrStdout(), rt.tracker.Summary(time.Now()))
			return nil
		}),
	}
}

func printSummary(w io.Writer, s session.Summary) {
	cyan.Fprintf(w, "%d/%d countries (%d%%)\n", s.Completed, s.Total, s.Percent)

	state := "stopped"
	if s.Running {
		state = "running"
	}
	fmt.Fprintf(w, "Timer  %s (%s)\n", session.FormatElapsed(s.ElapsedMs), state)
	fmt.Fprintf(w, "Pace   %s\n", s.Pace)
	fmt.Fprintf(w, "Route  %s\n", s.Route.Title())
	fmt.Fprintf(w, "Water  %d\n", s.Hydration)
	if s.BadgeUnlocked {
		yellow.Fprintln(w, "🏅 Passport stamped!")
	}
}

func newStopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stops",
		Short: "List every stop with its progress",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			w := cmd.OutOrStdout()
			st := rt.tracker.Snapshot()
			for i, stop := range rt.tracker.Catalog().Stops() {
				item := st.Items[stop.Key]
				mark := faint.Sprint("[ ]")
				if item.Completed {
					mark = green.Sprint("[✓]")
				}
				fmt.Fprintf(w, "%2d %s %s %-8s %s", i+1, mark, stop.Emoji, stop.Key, stop.Name)
				if item.ChosenDrink != "" {
					fmt.Fprintf(w, "  %s", item.ChosenDrink)
				}
				if item.Rating != "" {
					fmt.Fprintf(w, "  %s★", item.Rating)
				}
				fmt.Fprintln(w)
			}
			return nil
		}),
	}
}

func newShareCmd() *cobra.Command {
	var copyText bool

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print the share message",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			s := rt.tracker.Summary(time.Now())
			if !copyText {
				fmt.Fprintln(cmd.OutOrStdout(), export.ShareText(s))
				return nil
			}
			text, err := export.CopyShareText(s)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return fmt.Errorf("copy failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			green.Fprintln(cmd.OutOrStdout(), "Copied! Paste it anywhere.")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&copyText, "copy", false, "copy the message to the clipboard")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the checklist to CSV, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				dir, err := os.Getwd()
				if err != nil {
					return err
				}
				path = export.DefaultPath(dir, f, time.Now())
			}
			if err := export.Write(f, rt.tracker.Snapshot(), rt.tracker.Catalog(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv|json|yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: ./passport-<time>.<ext>)")
	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every stop, the timer, hydration and the badge",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if !yes {
				return errors.New("reset clears the whole session; pass --yes to confirm")
			}
			if err := rt.tracker.ResetAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session reset")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newTimerCmd() *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Start or stop the session timer"}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start the timer",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if err := rt.tracker.StartTimer(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timer running (%s)\n", session.FormatElapsed(rt.tracker.ElapsedMs(time.Now())))
			return nil
		}),
	}

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the timer",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if err := rt.tracker.StopTimer(false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timer stopped at %s\n", session.FormatElapsed(rt.tracker.ElapsedMs(time.Now())))
			return nil
		}),
	}

	timer.AddCommand(start, stop)
	return timer
}

func newHydrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate",
		Short: "Log a hydration break",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			if err := rt.tracker.IncrementHydration(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💧 Hydration break #%d\n", rt.tracker.Snapshot().HydrationCount)
			return nil
		}),
	}
}

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <none|light|medium|heavy>",
		Short: "Choose the drink-strength route",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			name := args[0]
			if strings.EqualFold(name, "none") {
				name = ""
			}
			r, ok := catalog.ParseRoute(name)
			if !ok {
				return fmt.Errorf("unknown route %q", args[0])
			}
			if err := rt.tracker.SetRoute(r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Route: %s\n", r.Title())
			return nil
		}),
	}
}

func newCheckCmd(use string, done bool) *cobra.Command {
	short := "Mark a stop as done"
	if !done {
		short = "Mark a stop as not done"
	}
	return &cobra.Command{
		Use:   use + " <stop>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			key := strings.ToLower(args[0])
			stop, ok := rt.tracker.Catalog().Lookup(key)
			if !ok {
				return fmt.Errorf("unknown stop %q (valid: %s)", args[0], strings.Join(rt.tracker.Catalog().Keys(), ", "))
			}
			if err := rt.tracker.PatchStop(key, session.StopPatch{Completed: session.Bool(done)}, false); err != nil {
				return err
			}
			cat := rt.tracker.Catalog()
			pos := fmt.Sprintf("(stop %d/%d)", cat.Position(key)+1, cat.Len())
			if done {
				green.Fprintf(cmd.OutOrStdout(), "%s %s ✓ %s\n", stop.Emoji, stop.Name, pos)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s unchecked %s\n", stop.Emoji, stop.Name, pos)
			}

			unlocked, err := rt.tracker.EvaluateBadge()
			if err != nil {
				return err
			}
			if unlocked {
				yellow.Fprintln(cmd.OutOrStdout(), "🏅 Passport stamped! All countries complete.")
			}
			return nil
		}),
	}
}

func newSnapshotsCmd() *cobra.Command {
	snapshots := &cobra.Command{Use: "snapshots", Short: "Manage saved sessions in the database"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			snaps, err := rt.store.ListSnapshots()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(snaps) == 0 {
				faint.Fprintln(w, "No saved sessions")
				return nil
			}
			for _, sn := range snaps {
				mark := " "
				if sn.Name == rt.cfg.Tracker {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %-24s %s\n", mark, sn.Name, sn.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}),
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved session and its timer log",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			if !yes {
				return errors.New("delete removes the session for good; pass --yes to confirm")
			}
			if args[0] == rt.cfg.Tracker {
				return fmt.Errorf("%q is the active session; use reset instead", args[0])
			}
			if err := rt.store.DeleteSnapshot(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
	del.Flags().BoolVar(&yes, "yes", false, "confirm the delete")

	snapshots.AddCommand(list, del)
	return snapshots
}
