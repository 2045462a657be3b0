// Command wzl-compositor runs a Wayland compositor core: it advertises
// wl_compositor, wl_shm, wl_seat, wl_output and xdg_wm_base on a UNIX
// socket and keeps a scene graph in sync with every surface commit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghostkellz/wzl-go/internal/config"
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/internal/wlog"
	"github.com/ghostkellz/wzl-go/server"
	"github.com/ghostkellz/wzl-go/server/scene"
)

var (
	configPath  string
	displayName string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "wzl-compositor",
	Short: "Serve the wzl Wayland compositor core",
	RunE: func(cmd *cobra.Command, args []string) error {
		wlog.SetLevel(logLevel)

		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		srv := server.New(cfg)
		srv.Scene = scene.New()

		name := displayName
		if name == "" {
			name = cfg.Display.Name
		}

		wlog.Info().Str("display", name).Msg("starting compositor")
		return srv.Serve(name)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (defaults to $XDG_CONFIG_HOME/wzl/config.yaml)")
	rootCmd.Flags().StringVar(&displayName, "display", "", "Wayland socket name to listen on (overrides display.name in config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, fatal, panic)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if werr, ok := err.(*wlerr.Error); ok {
			fmt.Fprintln(os.Stderr, werr)
			os.Exit(exitCodeFor(werr.Code))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func exitCodeFor(code wlerr.Code) int {
	switch wlerr.Recovery(code) {
	case wlerr.Fatal:
		return 2
	default:
		return 1
	}
}
