package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/butterflies"
	"github.com/spf13/cobra"
)

var onlyFavorites bool

var butterfliesCmd = &cobra.Command{
	Use:   "butterflies",
	Short: "Show collected butterflies grouped by colour",
	Args:  cobra.NoArgs,
	RunE:  listButterflies,
}

var butterflyFavCmd = &cobra.Command{
	Use:   "fav ID",
	Short: "Toggle a butterfly as favourite",
	Args:  cobra.ExactArgs(1),
	RunE:  toggleFavorite,
}

func init() {
	butterfliesCmd.Flags().BoolVar(&onlyFavorites, "favorites", false, "Show favourites only")
	butterfliesCmd.AddCommand(butterflyFavCmd)
}

func listButterflies(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.butterflies.All()
	if err != nil {
		return err
	}
	favs, err := s.butterflies.Favorites()
	if err != nil {
		return err
	}
	if onlyFavorites {
		all = slices.DeleteFunc(all, func(b butterflies.Butterfly) bool {
			return !slices.Contains(favs, b.ID)
		})
	}

	out := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(out, "No butterflies yet. Complete a habit to attract one.")
		return nil
	}
	for _, g := range butterflies.GroupByColor(all) {
		fmt.Fprintf(out, "%s (%d)\n", g.Color, len(g.Butterflies))
		for _, b := range g.Butterflies {
			star := " "
			if slices.Contains(favs, b.ID) {
				star = "★"
			}
			fmt.Fprintf(out, "  %s 🦋 %-2s %s  %s\n", star, b.Size, shortID(b.ID), b.Collected.Format("2 Jan 2006"))
		}
	}
	return nil
}

func toggleFavorite(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.butterflies.All()
	if err != nil {
		return err
	}
	id := ""
	for _, b := range all {
		if b.ID == args[0] || (len(args[0]) >= 4 && strings.HasPrefix(b.ID, args[0])) {
			id = b.ID
			break
		}
	}
	if id == "" {
		return fmt.Errorf("no butterfly with ID %s", args[0])
	}

	fav, err := s.butterflies.ToggleFavorite(id)
	if err != nil {
		return err
	}
	if fav {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favourites\n", shortID(id))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favourites\n", shortID(id))
	}
	return nil
}
