package main

import (
	"fmt"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/summary"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var dumpRaw bool

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Run the day rollover now if the date has changed",
	Args:  cobra.NoArgs,
	RunE:  rollover,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show today's dashboard",
	Args:  cobra.NoArgs,
	RunE:  showSummary,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every stored record",
	Args:  cobra.NoArgs,
	RunE:  dump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpRaw, "raw", false, "Print full values instead of a preview")
}

func rollover(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.garden.RolloverIfNeeded(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Initial:
		fmt.Fprintf(out, "First rollover recorded for %s\n", res.Today)
	case !res.Ran:
		fmt.Fprintf(out, "Already rolled over for %s\n", res.Today)
	default:
		fmt.Fprintf(out, "Rolled over %d %s to %s, %d %s reset\n",
			res.Days, plural(res.Days, "day", "days"), res.Today,
			res.Reset, plural(res.Reset, "streak", "streaks"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func showSummary(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()
	s.rollover(cmd.Context())

	st, err := s.summarySources().Collect()
	if err != nil {
		return err
	}
	p, err := s.profiles.Load()
	if err != nil {
		return err
	}
	collected, err := s.butterflies.All()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Hi %s!\n\n", p.Name)
	fmt.Fprintf(out, "Habits:      %d/%d done today\n", st.HabitsCompleted, st.TotalHabits)
	steps := humanize.Comma(int64(st.Steps))
	if st.Simulated {
		steps += " (simulated)"
	}
	fmt.Fprintf(out, "Steps:       %s\n", steps)
	fmt.Fprintf(out, "Activity:    %d min\n", st.ActivityMinutes)
	fmt.Fprintf(out, "Journal:     %s\n", humanize.Comma(int64(st.JournalEntries)))
	fmt.Fprintf(out, "Butterflies: %d\n\n", len(collected))
	fmt.Fprintf(out, "“%s”\n", summary.Quote(time.Now()))
	return nil
}

func dump(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.store.Records()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range records {
		value := r.Value
		if !dumpRaw && len(value) > 72 {
			value = value[:69] + "..."
		}
		fmt.Fprintf(out, "%-22s %8s  %s  %s\n", r.Key, humanize.Bytes(uint64(len(r.Value))),
			humanize.Time(r.UpdatedAt), value)
	}
	return nil
}
