package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Stream AI feedback for a source file",
	Long: "Analyze a source file (or - for stdin) and stream the feedback to stdout.\n" +
		"Points are awarded exactly as in the app.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, name, err := readSource(args[0])
		if err != nil {
			return err
		}
		w, err := workspaceFromFlags(cmd, code, name)
		if err != nil {
			return err
		}
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, ok := feedback.ParseMode(modeFlag)
		if !ok {
			return fmt.Errorf("unknown mode %q (use analyze or refactor)", modeFlag)
		}

		d, err := openDeps(cmd, depsOpts{withTutor: true})
		if err != nil {
			return err
		}
		defer d.Close()
		if d.tutor == nil {
			return errors.New("analysis needs an AI provider")
		}

		if taskID, _ := cmd.Flags().GetString("task"); taskID != "" {
			task, ok := d.controller.Curriculum.Task(taskID)
			if !ok {
				return fmt.Errorf("unknown task %q", taskID)
			}
			w = d.controller.OpenTask(w, task)
			w.Code = code
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var p feedback.Pipeline
		if err := p.Start(mode, w.InTask()); err != nil {
			return err
		}
		out := &deltaWriter{w: cmd.OutOrStdout()}
		outcome, err := p.Run(ctx, d.tutor.Analyze(ctx, tutor.AnalyzeInput{
			Code:       w.Code,
			Language:   w.Language,
			Difficulty: w.Difficulty,
			Task:       w.Task,
			Mode:       mode,
		}), out.render)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return errors.New(p.Message())
		}

		st := d.state.Get()
		dec := d.controller.AfterAnalysis(st.Progress, w, mode, outcome)
		if dec.Changed() {
			next, keys := st.WithProgress(dec.Progress)
			if err := d.state.Set(ctx, next, keys); err != nil {
				d.logger.Warn("persist progress", "err", err)
			}
		}
		reportDecision(cmd.ErrOrStderr(), dec, w)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringP("lang", "l", "", "Language (default: from the file extension, else Python)")
	analyzeCmd.Flags().StringP("difficulty", "d", string(lang.Beginner), "Beginner, Intermediate or Advanced")
	analyzeCmd.Flags().StringP("mode", "m", string(feedback.ModeAnalyze), "analyze or refactor")
	analyzeCmd.Flags().StringP("task", "t", "", "Python Path task ID to check the code against")
}

// readSource reads path, or stdin for "-".
func readSource(path string) (code, name string, err error) {
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", "", fmt.Errorf("read source: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", "", errors.New("source is empty")
	}
	return string(data), path, nil
}

// workspaceFromFlags resolves --lang and --difficulty. Without --lang the
// file extension decides, falling back to Python.
func workspaceFromFlags(cmd *cobra.Command, code, name string) (state.Workspace, error) {
	w := state.Workspace{Code: code, Language: lang.Python, Difficulty: lang.Beginner}

	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		parsed, err := lang.Parse(l)
		if err != nil {
			return w, err
		}
		w.Language = parsed
	} else if guessed, ok := lang.FromFilename(name); ok {
		w.Language = guessed
	}

	if cmd.Flags().Lookup("difficulty") != nil {
		ds, _ := cmd.Flags().GetString("difficulty")
		diff, err := lang.ParseDifficulty(ds)
		if err != nil {
			return w, err
		}
		w.Difficulty = diff
	}
	return w, nil
}

// deltaWriter writes only what a growing display text added since the
// last call.
type deltaWriter struct {
	w    io.Writer
	sent string
}

func (d *deltaWriter) render(display string) {
	if !strings.HasPrefix(display, d.sent) {
		return
	}
	io.WriteString(d.w, display[len(d.sent):])
	d.sent = display
}

func reportDecision(w io.Writer, dec state.Decision, ws state.Workspace) {
	switch {
	case dec.Completed != nil && dec.Grant.Granted():
		fmt.Fprintf(w, "✓ Task solved: %s (+%d pts)\n", dec.Completed.Title, dec.Grant.Points)
	case dec.Completed != nil:
		fmt.Fprintf(w, "✓ Task solved again: %s (already completed)\n", dec.Completed.Title)
	case ws.InTask():
		fmt.Fprintln(w, "Task not solved yet. Keep going!")
	case dec.Grant.Granted():
		fmt.Fprintf(w, "+%d pts\n", dec.Grant.Points)
	case dec.Grant.Duplicate:
		fmt.Fprintln(w, "No points: this code was already analyzed.")
	}
	if dec.Milestone > 0 {
		fmt.Fprintf(w, "🔥 Streak milestone: %d!\n", dec.Milestone)
	}
}
