package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Show today's steps, distance and calories",
	Args:  cobra.NoArgs,
	RunE:  showSteps,
}

var backgroundCmd = &cobra.Command{
	Use:   "background on|off|status",
	Short: "Control background step tracking on the shell",
	Args:  cobra.ExactArgs(1),
	RunE:  background,
}

func init() {
	stepsCmd.AddCommand(backgroundCmd)
}

func showSteps(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := s.tracker.Today()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s steps  %.2f km  %d kcal\n",
		humanize.Comma(int64(day.StepData.Steps)), day.StepData.Distance, day.StepData.Calories)
	if cfg.StepGoal > 0 {
		pct := min(day.StepData.Steps*100/cfg.StepGoal, 100)
		fmt.Fprintf(out, "%d%% of your %s step goal\n", pct, humanize.Comma(int64(cfg.StepGoal)))
	}
	if day.Simulated {
		fmt.Fprintln(out, "Source: simulated (motion sensor unavailable)")
	} else if day.StepData.Steps > 0 {
		fmt.Fprintln(out, "Source: motion sensor")
	}
	return nil
}

func background(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	active, restoreErr := s.background.Restore(ctx)

	out := cmd.OutOrStdout()
	switch args[0] {
	case "status":
		if restoreErr != nil {
			fmt.Fprintf(out, "Background tracking: %s (last known, shell unreachable)\n", onOff(active))
			return nil
		}
		fmt.Fprintf(out, "Background tracking: %s\n", onOff(active))
		return nil
	case "on":
		if restoreErr == nil && active {
			fmt.Fprintln(out, "Background tracking is already on")
			return nil
		}
		if err := s.background.Start(ctx); err != nil {
			return err
		}
	case "off":
		if restoreErr != nil {
			return restoreErr
		}
		if !active {
			fmt.Fprintln(out, "Background tracking is already off")
			return nil
		}
		if err := s.background.Stop(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown argument %q, want on, off or status", args[0])
	}
	fmt.Fprintf(out, "Background tracking: %s\n", s.background.State())
	return nil
}

func onOff(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
