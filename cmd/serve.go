package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/greencode/internal/history"
	"github.com/ziadkadry99/greencode/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve footprint reports over HTTP",
	Long: `Starts an HTTP server that re-runs the analysis on request.
GET /api/report returns the report for the served root (or ?path= below it),
POST /api/snippet analyses a code string, and /api/history lists saved runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		root, _ := cmd.Flags().GetString("root")
		allowAll, _ := cmd.Flags().GetBool("allow-all-origins")
		noHistory, _ := cmd.Flags().GetBool("no-history")

		var store *history.Store
		if !noHistory {
			database, s, err := openHistory()
			if err != nil {
				return err
			}
			defer database.Close()
			store = s
		}

		srv := server.New(server.Config{
			Port:     port,
			Root:     root,
			AllowAll: allowAll,
		}, newAnalyzer(), store)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		fmt.Fprintf(cmd.ErrOrStderr(), "greencode serving %s on http://localhost:%d\n", root, port)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-sigCh:
			log.WithField("signal", sig.String()).Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().String("root", ".", "project root to serve")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow any CORS origin")
	serveCmd.Flags().Bool("no-history", false, "do not open the history database")
	rootCmd.AddCommand(serveCmd)
}
