package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Clear points, analytics, the profile and the chat flag. The theme is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			err := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title("Reset all progress?").
					Description("Points, completed tasks and activity cannot be recovered.").
					Affirmative("Reset").
					Negative("Cancel").
					Value(&yes),
			)).Run()
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		if !yes {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
			return nil
		}

		d, err := openDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		next, keys := d.state.Get().Reset()
		if err := d.state.Set(cmd.Context(), next, keys); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
		d.logger.Info("learner data reset", "slots", keys)
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
