package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/kiosk-printer/config"
	"github.com/nixxel-company-limited/kiosk-printer/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Relay raw print jobs from the network to the kiosk printer",
	Long: `Listens for raw TCP print jobs (port 9100 style). Each connection is
one job: everything received until the client closes is printed.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("address", "", "listen address (default localhost:9100)")
	serveCmd.Flags().Bool("serialize", false, "run one printer job at a time")
	if err := v.BindPFlag(config.KeyServerAddress, serveCmd.Flags().Lookup("address")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag(config.KeySerializeDispatch, serveCmd.Flags().Lookup("serialize")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	log := e.logs.Logger("cli")
	if err := e.app.Prep(); err != nil {
		return report(cmd, err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewWithLogger(e.sender, e.cfg.ServerAddress, e.logs.StdLogger("relay", slog.LevelInfo))
	if err := srv.StartAsync(); err != nil {
		return err
	}
	log.Info("relay started", "address", srv.Addr(), "device", e.sender.DevicePath())

	<-ctx.Done()
	log.Info("shutting down")
	return srv.Stop()
}
