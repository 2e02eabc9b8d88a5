// Package cmd wires the CLI: flag parsing, configuration, and the server
// lifecycle from startup banner to graceful shutdown.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aliahadmd/file-share-ubuntu-home-server/internal/config"
	"github.com/aliahadmd/file-share-ubuntu-home-server/internal/logger"
	"github.com/aliahadmd/file-share-ubuntu-home-server/internal/netutil"
	"github.com/aliahadmd/file-share-ubuntu-home-server/internal/qr"
	"github.com/aliahadmd/file-share-ubuntu-home-server/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fileshare [directory]",
		Short: "Share a directory over HTTP on your local network",
		Long: `fileshare serves a directory tree over HTTP with a browsable listing
and direct download links, and prints a QR code so phones on the same
network can open it with one scan.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	flags := rootCmd.Flags()
	flags.StringP("dir", "d", ".", "directory to share")
	flags.String("host", "0.0.0.0", "address to listen on")
	flags.IntP("port", "p", 8000, "port to serve on")
	flags.Bool("hidden", false, "include hidden files in listings")
	flags.Bool("no-qr", false, "do not print the QR code")
	flags.String("qr-png", "", "also write the QR code as a PNG to this path")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("log-file", "", "also write logs to this file (rotated)")

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig merges flags over FILESHARE_* environment variables over
// defaults, then validates.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	v.SetEnvPrefix("FILESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for viperKey, flagName := range map[string]string{
		"dir":            "dir",
		"host":           "host",
		"port":           "port",
		"hidden":         "hidden",
		"no_qr":          "no-qr",
		"qr_png":         "qr-png",
		"logging.level":  "log-level",
		"logging.format": "log-format",
		"logging.file":   "log-file",
	} {
		if err := v.BindPFlag(viperKey, cmd.Flags().Lookup(flagName)); err != nil {
			return nil, err
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	// A positional directory beats the flag, matching the original CLI.
	if len(args) == 1 {
		cfg.Dir = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	handler := server.NewHandler(cfg.Dir, server.Options{
		ShowHidden: cfg.Hidden,
		Log:        log,
	})
	srv := server.New(cfg.Addr(), handler, log)

	localIP := netutil.LocalIP()
	shareURL := cfg.BaseURL(localIP)

	printBanner(cfg, shareURL)

	if cfg.QRFile != "" {
		if err := qr.WritePNG(cfg.QRFile, shareURL); err != nil {
			log.Warn().Err(err).Str("path", cfg.QRFile).Msg("failed to write QR code PNG")
		} else {
			fmt.Printf("📱 QR Code written to: %s\n", cfg.QRFile)
		}
	}
	if !cfg.NoQR {
		fmt.Println("\n📱 Scan to open the share on your phone:")
		qr.PrintTerminal(os.Stdout, shareURL)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("signal received")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		fmt.Println("\n⛔ Server stopped")
		return nil
	}
}

func printBanner(cfg *config.Config, shareURL string) {
	color.New(color.FgGreen, color.Bold).Println("\n🚀 File Share Server is running!")
	fmt.Printf("📂 Sharing directory: %s\n", cfg.Dir)
	fmt.Print("🔗 Access your files at: ")
	color.New(color.FgCyan).Println(shareURL)
	fmt.Println("\nPress Ctrl+C to stop the server")
}
