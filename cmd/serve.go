package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codetutor/codetutor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tutor over HTTP",
	Long: "Serve highlighting, streamed analysis and progress as a local HTTP API.\n" +
		"The server uses the same database as the app.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, depsOpts{withTutor: true})
		if err != nil {
			return err
		}
		defer d.Close()

		addr := d.cfg.ServeAddr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(d.state, d.controller, d.tutor, d.logger.WithPrefix("http"))
		err = srv.ListenAndServe(ctx, addr)
		if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: CODETUTOR_SERVE_ADDR)")
}
