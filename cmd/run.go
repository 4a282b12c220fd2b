package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/codetutor/codetutor/internal/app"
	"github.com/codetutor/codetutor/internal/config"
	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/llm"
	"github.com/codetutor/codetutor/internal/logging"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/store"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// deps is everything a command needs once the store is open.
type deps struct {
	cfg        config.Config
	logger     *log.Logger
	store      *store.Store
	state      *state.Shared
	controller state.Controller
	// tutor is nil when no LLM provider is configured.
	tutor *tutor.Service

	closers []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i].Close()
	}
}

type depsOpts struct {
	// logToFile sends logs to the log file instead of stderr. The TUI
	// owns the terminal.
	logToFile bool
	// withTutor builds the LLM provider.
	withTutor bool
}

// openDeps reads config, opens the store, loads the learner state and,
// when asked, builds the tutor. Callers must Close the result.
func openDeps(cmd *cobra.Command, opts depsOpts) (*deps, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg}

	if opts.logToFile {
		logger, f, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		d.logger = logger
		d.closers = append(d.closers, f)
	} else {
		d.logger = logging.NewStderr(cfg.LogLevel)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	st.SetLogger(d.logger.WithPrefix("store"))
	d.store = st
	d.closers = append(d.closers, st)

	theme.ChromaStyles[theme.Dark] = cfg.ChromaStyle(config.ThemeDark)
	theme.ChromaStyles[theme.Light] = cfg.ChromaStyle(config.ThemeLight)

	persist := state.NewPersistence(st, theme.ParseMode(strings.ToLower(cfg.Theme)))
	d.state = state.NewShared(persist.Load(cmd.Context()), persist)
	d.controller = state.NewController(curriculum.Default())

	if opts.withTutor {
		d.tutor = buildTutor(cmd, d, !opts.logToFile)
	}
	return d, nil
}

// buildTutor returns nil, with a warning, when no provider can be built.
func buildTutor(cmd *cobra.Command, d *deps, warnStderr bool) *tutor.Service {
	llmCfg, err := llm.Resolve()
	if err == nil {
		var provider llm.Provider
		provider, err = llm.NewProvider(cmd.Context(), llmCfg, d.store.EventRepo(), d.logger.WithPrefix("llm"))
		if err == nil {
			counts := store.NewSlot(d.store, store.KeyDailySubmissions, func() tutor.DailyCount {
				return tutor.DailyCount{}
			})
			limiter := tutor.NewLimiter(counts, d.cfg.DailyLimit)
			return tutor.NewService(provider, tutor.DefaultConfig(), limiter)
		}
	}
	d.logger.Warn("LLM provider not configured", "err", err)
	if warnStderr {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	}
	return nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd, depsOpts{logToFile: true, withTutor: true})
	if err != nil {
		return err
	}
	defer d.Close()

	mode := d.state.Get().Theme
	theme.Apply(mode)

	env := &screen.Env{
		Ctx:        cmd.Context(),
		State:      d.state,
		Controller: d.controller,
		Curriculum: d.controller.Curriculum,
		Tutor:      d.tutor,
		Renderer:   feedback.NewRenderer(theme.GlamourStyle()),
		Palettes: map[theme.Mode]highlight.Palette{
			theme.Dark:  highlight.NewPalette(theme.ChromaStyles[theme.Dark]),
			theme.Light: highlight.NewPalette(theme.ChromaStyles[theme.Light]),
		},
		Logger: d.logger,
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	d.logger.Info("starting", "version", version, "theme", mode, "ai", d.tutor != nil)
	return app.Run(env, app.Options{SkipSplash: noSplash})
}
