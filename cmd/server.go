package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/karimnasser/schedbot/internal/config"
	"github.com/karimnasser/schedbot/internal/conversation"
	"github.com/karimnasser/schedbot/internal/server"
	"github.com/karimnasser/schedbot/internal/session"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the scheduling assistant server",
	Long:  `Starts the schedbot server with the REST message API, session management, and websocket chat and voice endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serverPort != 0 {
			cfg.Port = serverPort
		}

		a, err := buildAssistant(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: true,
		}, a.database, a.provider, cfg.Model)

		r := srv.Router()
		conversation.RegisterRoutes(r, a.gateway)
		session.RegisterRoutes(r, a.registry)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "schedbot server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DBPath)
		if a.voice != nil {
			fmt.Fprintf(os.Stderr, "  Voice: enabled (%s)\n", cfg.Voice.VoiceID)
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
