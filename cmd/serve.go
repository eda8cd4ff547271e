package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoukoua/momochat/internal/chat"
	"github.com/mkoukoua/momochat/internal/config"
	"github.com/mkoukoua/momochat/internal/db"
	"github.com/mkoukoua/momochat/internal/health"
	"github.com/mkoukoua/momochat/internal/proxy"
	"github.com/mkoukoua/momochat/internal/server"
	"github.com/mkoukoua/momochat/internal/session"
	"github.com/mkoukoua/momochat/internal/widget"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MoMoChat widget server",
	Long: `Starts the HTTP server that hosts the landing and chat pages, the chat
API backed by the remote completion service, and the /proxy/chat
forwarder. A background keep-alive loop pings the backend's /health
endpoint so cold-starting deployments stay warm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "momochat.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := session.NewStore(database)
		controller := chat.NewController(store, chat.NewClient(cfg.BackendBaseURL))

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAllOrigins})
		widget.New(controller).RegisterRoutes(srv.Router())
		srv.Router().Handle("/proxy/chat", proxy.NewForwarder(cfg.BackendBaseURL))

		// The keep-alive loop is owned by the serve lifecycle; cancelling
		// the context on shutdown releases the timer.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pinger := health.NewPinger(cfg.BackendBaseURL, cfg.PingIntervalDuration())
		go pinger.Run(ctx)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Printf("momochat: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
