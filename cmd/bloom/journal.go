package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var journalMood string

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and read journal entries",
}

var journalWriteCmd = &cobra.Command{
	Use:   "write TEXT",
	Short: "Add a journal entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  journalWrite,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  journalList,
}

var drawCmd = &cobra.Command{
	Use:   "draw FILE.png",
	Short: "Save a drawing to the gallery",
	Args:  cobra.ExactArgs(1),
	RunE:  draw,
}

func init() {
	journalWriteCmd.Flags().StringVar(&journalMood, "mood", "", "How you feel (optional)")

	journalCmd.AddCommand(journalWriteCmd)
	journalCmd.AddCommand(journalListCmd)
}

func journalWrite(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.journal.Write(strings.Join(args, " "), journalMood)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved entry %s\n", shortID(e.ID))
	return nil
}

func journalList(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.journal.Entries()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries yet.")
		return nil
	}
	for _, e := range entries {
		header := e.Date.Format("Mon 2 Jan 2006 15:04") + " (" + humanize.Time(e.Date) + ")"
		if e.Mood != "" {
			header += " · " + e.Mood
		}
		fmt.Fprintln(out, header)
		fmt.Fprintf(out, "  %s\n\n", e.Content)
	}
	return nil
}

func draw(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read drawing: %w", err)
	}

	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.journal.SaveDrawing(data); err != nil {
		return err
	}
	drawings, err := s.journal.Drawings()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s drawing, %d in the gallery\n",
		humanize.Bytes(uint64(len(data))), len(drawings))
	return nil
}
