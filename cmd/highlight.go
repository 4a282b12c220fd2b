package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codetutor/codetutor/internal/config"
	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Print a source file with syntax colors",
	Long:  "Print a source file (or - for stdin) with the tutor's syntax colors, or as a standalone HTML page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, name, err := readSource(args[0])
		if err != nil {
			return err
		}
		w, err := workspaceFromFlags(cmd, code, name)
		if err != nil {
			return err
		}

		if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
			fmt.Fprint(cmd.OutOrStdout(), highlight.Document(filepath.Base(name), w.Code, w.Language))
			return nil
		}

		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		style := cfg.ChromaStyle(cfg.Theme)
		if s, _ := cmd.Flags().GetString("style"); s != "" {
			style = s
		} else if t, _ := cmd.Flags().GetString("theme"); t != "" {
			style = cfg.ChromaStyle(string(theme.ParseMode(t)))
		}
		fmt.Fprintln(cmd.OutOrStdout(), highlight.Terminal(w.Code, w.Language, highlight.NewPalette(style)))
		return nil
	},
}

func init() {
	highlightCmd.Flags().StringP("lang", "l", "", "Language (default: from the file extension, else Python)")
	highlightCmd.Flags().Bool("html", false, "Emit a sanitized standalone HTML page")
	highlightCmd.Flags().String("theme", "", "dark or light (default: CODETUTOR_THEME)")
	highlightCmd.Flags().String("style", "", "Chroma style name, overriding --theme")
}
