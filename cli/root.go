// Package cli implements the kiosk command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nixxel-company-limited/kiosk-printer/config"
	"github.com/nixxel-company-limited/kiosk-printer/kiosk"
	"github.com/nixxel-company-limited/kiosk-printer/logging"
	"github.com/nixxel-company-limited/kiosk-printer/store"
	"github.com/nixxel-company-limited/kiosk-printer/transport"
)

var version = "dev"

var (
	v          = config.New()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "School sign-in kiosk",
	Long: `Signs students and visitors in and out and prints late slips and
visitor passes on the attached thermal printer.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./kiosk.toml or /etc/kiosk/kiosk.toml)")
	flags.String("device", "", "printer device path")
	flags.String("writer", "", "path to the lpwriter executable")
	flags.String("db", "", "database file")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-file", "", "also append logs to this file")
	flags.Bool("debug", false, "ignore sign-in hours and tolerate a missing printer")

	bindFlag(v, config.KeyDevicePath, "device")
	bindFlag(v, config.KeyWriterPath, "writer")
	bindFlag(v, config.KeyDBPath, "db")
	bindFlag(v, config.KeyLogLevel, "log-level")
	bindFlag(v, config.KeyLogFile, "log-file")
	bindFlag(v, config.KeyDebug, "debug")
}

func bindFlag(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env holds what every command needs. It is built once per invocation.
type env struct {
	cfg    *config.Config
	logs   *logging.Manager
	sender *transport.Sender
	app    *kiosk.App
	store  *store.Store
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	logs := logging.NewManager(cmd.ErrOrStderr())
	if err := logs.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}

	opts := []transport.Option{transport.WithLogger(logs.Logger("transport"))}
	if cfg.SerializeDispatch {
		opts = append(opts, transport.WithSerializedDispatch())
	}

	return &env{
		cfg:    cfg,
		logs:   logs,
		sender: transport.New(cfg.DevicePath, cfg.WriterPath, opts...),
	}, nil
}

// openApp builds the application context on top of setup.
func openApp(cmd *cobra.Command) (*env, error) {
	e, err := setup(cmd)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, e.cfg.DBPath)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st
	e.app = kiosk.New(ctx, kiosk.Options{
		Store:   st,
		Printer: e.sender,
		Logger:  e.logs.Logger("kiosk"),
		Debug:   e.cfg.Debug,
	})
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logs.Logger("cli").Warn("closing database", "error", err)
		}
	}
	_ = e.logs.Close()
}

// report prints the user-facing message for err and returns err so the
// exit status reflects it.
func report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	cmd.PrintErrln(kiosk.UserMessage(err))
	return err
}
