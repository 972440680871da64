package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile step totals are computed from",
	Args:  cobra.NoArgs,
	RunE:  profileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change profile fields",
	Long: `Change one or more profile fields. Unset flags keep their value.

Example:
  bloom profile set --weight 58 --stride 0.68`,
	Args: cobra.NoArgs,
	RunE: profileSet,
}

func init() {
	profileSetCmd.Flags().String("name", "", "Your name")
	profileSetCmd.Flags().Float64("height", 0, "Height in cm")
	profileSetCmd.Flags().Float64("weight", 0, "Weight in kg")
	profileSetCmd.Flags().Float64("stride", 0, "Stride length in metres")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func profileShow(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.profiles.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:   %s\n", p.Name)
	fmt.Fprintf(out, "Height: %.0f cm\n", p.HeightCm)
	fmt.Fprintf(out, "Weight: %.1f kg\n", p.WeightKg)
	fmt.Fprintf(out, "Stride: %.2f m\n", p.StrideM)
	return nil
}

func profileSet(cmd *cobra.Command, args []string) error {
	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.profiles.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name, _ = flags.GetString("name")
	}
	if flags.Changed("height") {
		p.HeightCm, _ = flags.GetFloat64("height")
	}
	if flags.Changed("weight") {
		p.WeightKg, _ = flags.GetFloat64("weight")
	}
	if flags.Changed("stride") {
		p.StrideM, _ = flags.GetFloat64("stride")
	}

	if err := s.profiles.Save(p); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Profile saved")
	return nil
}
