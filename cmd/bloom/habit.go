package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/garden"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var habitIcon string

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Plant, complete and manage habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Plant a new habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  habitAdd,
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with their streak and growth stage",
	Args:  cobra.NoArgs,
	RunE:  habitList,
}

var habitDoneCmd = &cobra.Command{
	Use:   "done HABIT",
	Short: "Mark a habit completed for today",
	Long:  "HABIT is a habit ID, a unique ID prefix or the habit's name.",
	Args:  cobra.ExactArgs(1),
	RunE:  habitDone,
}

var habitRmCmd = &cobra.Command{
	Use:   "rm HABIT",
	Short: "Delete a habit and cancel its reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  habitRm,
}

var habitRemindCmd = &cobra.Command{
	Use:   "remind HABIT HH:MM|off",
	Short: "Set or clear a habit's daily reminder",
	Args:  cobra.ExactArgs(2),
	RunE:  habitRemind,
}

func init() {
	habitAddCmd.Flags().StringVar(&habitIcon, "icon", "leaf", "Icon: "+iconList())

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitDoneCmd)
	habitCmd.AddCommand(habitRmCmd)
	habitCmd.AddCommand(habitRemindCmd)
}

func iconList() string {
	names := make([]string, 0, len(garden.Icons()))
	for _, i := range garden.Icons() {
		names = append(names, i.String())
	}
	return strings.Join(names, ", ")
}

func habitAdd(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.garden.Add(strings.Join(args, " "), garden.ParseIcon(habitIcon))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Planted %s %s (%s)\n", h.Icon.Glyph(), h.Name, h.ID)
	return nil
}

func habitList(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()
	s.rollover(cmd.Context())

	habits, err := s.garden.Habits()
	if err != nil {
		return err
	}
	writeHabits(cmd.OutOrStdout(), habits, time.Now())
	return nil
}

func writeHabits(w io.Writer, habits []garden.Habit, now time.Time) {
	if len(habits) == 0 {
		fmt.Fprintln(w, "Your garden is empty. Plant one with: bloom habit add NAME")
		return
	}
	for _, h := range habits {
		check := "[ ]"
		if h.CompletedToday {
			check = "[x]"
		}
		last := "never"
		if h.LastCompletedAt != nil {
			last = humanize.RelTime(*h.LastCompletedAt, now, "ago", "from now")
		}
		line := fmt.Sprintf("%s %s %s %-20s %-8s streak %-3d last %s",
			check, h.GrowthStage.Glyph(), h.Icon.Glyph(), h.Name, h.GrowthStage, h.Streak, last)
		if h.ReminderEnabled {
			line += " ⏰ " + h.ReminderTime
		}
		fmt.Fprintf(w, "%s  %s\n", shortID(h.ID), line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveHabit finds a habit by exact ID, unique ID prefix or name.
func resolveHabit(s *services, ref string) (garden.Habit, error) {
	habits, err := s.garden.Habits()
	if err != nil {
		return garden.Habit{}, err
	}

	var matches []garden.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return garden.Habit{}, fmt.Errorf("%w: %s", garden.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return garden.Habit{}, fmt.Errorf("%q matches %d habits, use a longer ID", ref, len(matches))
	}
}

func habitDone(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()
	s.rollover(cmd.Context())

	h, err := resolveHabit(s, args[0])
	if err != nil {
		return err
	}
	c, err := s.garden.Complete(cmd.Context(), h.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case !c.Applied:
		fmt.Fprintf(out, "%s is already done today\n", h.Name)
	case c.Matured:
		fmt.Fprintf(out, "%s %s is fully grown after %d days!\n", c.Stage.Glyph(), h.Name, c.Streak)
	default:
		fmt.Fprintf(out, "%s %s done, streak %d (%s)\n", c.Stage.Glyph(), h.Name, c.Streak, c.Stage)
	}
	return nil
}

func habitRm(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := resolveHabit(s, args[0])
	if err != nil {
		return err
	}
	if err := s.garden.Delete(cmd.Context(), h.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", h.Name)
	return nil
}

func habitRemind(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := resolveHabit(s, args[0])
	if err != nil {
		return err
	}

	enabled := !strings.EqualFold(args[1], "off")
	h, err = s.garden.SetReminder(cmd.Context(), h.ID, enabled, args[1])
	if err != nil {
		return err
	}
	if h.ReminderEnabled {
		fmt.Fprintf(cmd.OutOrStdout(), "Reminding you about %s every day at %s\n", h.Name, h.ReminderTime)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Reminder for %s turned off\n", h.Name)
	}
	return nil
}
