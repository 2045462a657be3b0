// Command wzl-client is a diagnostic client for a wzl compositor: it
// connects, performs the initial registry round-trip, and prints or
// binds whatever globals the compositor advertised.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/internal/wlog"
)

var (
	displayName string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "wzl-client",
	Short: "Diagnostic client for a wzl compositor",
}

var listGlobalsCmd = &cobra.Command{
	Use:   "list-globals",
	Short: "Connect and print every global the compositor advertises",
	RunE: func(cmd *cobra.Command, args []string) error {
		wlog.SetLevel(logLevel)
		d, err := client.Connect(displayName)
		if err != nil {
			return err
		}
		defer d.Close()

		for _, g := range d.Registry().GetGlobals() {
			fmt.Printf("%d: %s v%d\n", g.Name, g.Interface, g.Version)
		}
		return nil
	},
}

var bindCmd = &cobra.Command{
	Use:   "bind <interface>",
	Short: "Bind a single global by interface name and report its new object id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wlog.SetLevel(logLevel)
		d, err := client.Connect(displayName)
		if err != nil {
			return err
		}
		defer d.Close()

		iface := args[0]
		g, ok := d.Registry().FindGlobal(iface)
		if !ok {
			return wlerr.New(wlerr.NoInterface, "no global advertises "+iface)
		}

		// session tags the bind attempt in logs; the compositor never sees it.
		session := uuid.New()
		wlog.Info().Str("session", session.String()).Str("interface", iface).Msg("binding global")

		id, err := d.Registry().Bind(g, g.Version)
		if err != nil {
			return err
		}
		fmt.Printf("bound %s v%d as object %d\n", iface, g.Version, id)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&displayName, "display", "", "Wayland socket name to connect to (overrides $WAYLAND_DISPLAY)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(listGlobalsCmd, bindCmd)
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
