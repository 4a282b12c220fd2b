package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codetutor/codetutor/internal/screens/dashboard"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		width, _ := cmd.Flags().GetInt("width")
		st := d.state.Get()
		theme.Apply(st.Theme)

		lvl := st.Level()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s · %s · %d pts\n\n",
			st.User.Avatar, st.User.Name, lvl.Name, st.Progress.Points)
		fmt.Fprintln(cmd.OutOrStdout(), dashboard.Render(st.Progress, d.controller.Curriculum, width, time.Now()))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("width", "w", 100, "Output width in columns")
}
