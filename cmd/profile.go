package cmd

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/codetutor/codetutor/internal/screens/profile"
	"github.com/codetutor/codetutor/internal/state"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Edit your name and avatar",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, depsOpts{})
		if err != nil {
			return err
		}
		defer d.Close()

		st := d.state.Get()
		name := st.User.Name
		avatar := st.User.Avatar

		options := make([]huh.Option[string], 0, len(d.controller.Curriculum.Avatars))
		for _, a := range d.controller.Curriculum.Avatars {
			options = append(options, huh.NewOption(a, a))
		}

		err = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Name").
				CharLimit(profile.MaxNameLength).
				Validate(validateName).
				Value(&name),
			huh.NewSelect[string]().
				Title("Avatar").
				Options(options...).
				Value(&avatar),
		)).Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		next, keys := st.WithUser(state.User{Name: strings.TrimSpace(name), Avatar: avatar})
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
			return nil
		}
		if err := d.state.Set(cmd.Context(), next, keys); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s %s\n", next.User.Avatar, next.User.Name)
		return nil
	},
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("name cannot be empty")
	}
	if utf8.RuneCountInString(s) > profile.MaxNameLength {
		return fmt.Errorf("name must be at most %d characters", profile.MaxNameLength)
	}
	return nil
}
