package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/activity"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var activityType string

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Time and log walks, runs and other activity",
}

var activityLogCmd = &cobra.Command{
	Use:   "log DURATION",
	Short: "Log a finished session, e.g. 25m or 1h10m",
	Args:  cobra.ExactArgs(1),
	RunE:  activityLog,
}

var activityStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run a stopwatch until Ctrl-C, then log the session",
	Args:  cobra.NoArgs,
	RunE:  activityStart,
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged sessions and the total",
	Args:  cobra.NoArgs,
	RunE:  activityList,
}

func init() {
	activityLogCmd.Flags().StringVar(&activityType, "type", "walk", "Session type: walk, run or other")
	activityStartCmd.Flags().StringVar(&activityType, "type", "walk", "Session type: walk, run or other")

	activityCmd.AddCommand(activityLogCmd)
	activityCmd.AddCommand(activityStartCmd)
	activityCmd.AddCommand(activityListCmd)
}

func recordSession(cmd *cobra.Command, d time.Duration, kind activity.Kind) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	sess, ok, err := s.activity.Record(d, kind)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Session too short, nothing logged")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %d min %s\n", sess.Minutes(), sess.Type)
	return nil
}

func activityLog(cmd *cobra.Command, args []string) error {
	kind, err := activity.ParseKind(activityType)
	if err != nil {
		return err
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	return recordSession(cmd, d, kind)
}

func activityStart(cmd *cobra.Command, args []string) error {
	kind, err := activity.ParseKind(activityType)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timer := activity.NewTimer()
	timer.Start()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	out := cmd.OutOrStdout()
	for {
		fmt.Fprintf(out, "\r%s  %3.0f%% of %s", activity.FormatClock(timer.Elapsed()),
			timer.Progress()*100, activity.FormatClock(activity.GoalDuration))
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return recordSession(cmd, timer.Stop(), kind)
		case <-ticker.C:
		}
	}
}

func activityList(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	sessions, err := s.activity.Sessions()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions yet.")
		return nil
	}
	for _, sess := range sessions {
		fmt.Fprintf(out, "%-5s %3d min  %s\n", sess.Type, sess.Minutes(), humanize.Time(sess.Date))
	}
	fmt.Fprintf(out, "Total: %d min\n", activity.TotalMinutes(sessions))
	return nil
}
