// Carplay-capture is a capture and inspection utility for CarPlay and
// Android Auto USB dongles.
//
// It speaks the dongle's framed serial protocol: it opens the link,
// performs the open handshake, and decodes the message stream into
// typed events (plugged state, now-playing metadata, audio and video
// stream signals, firmware update progress). Decoded frames can be
// shown on a live terminal dashboard, streamed to websocket clients,
// or logged as structured output.
//
// Usage:
//
//	carplay-capture [command] [flags]
//
// Running without arguments starts a live capture session.
// See 'carplay-capture --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "carplay-capture",
	Short: "CarPlay Dongle Capture Utility",
	Long: `A capture and inspection utility for CarPlay/Android Auto USB dongles.

Decodes the dongle's framed serial protocol into typed events and
presents them on a live dashboard, over websocket, or as structured
logs.

If no command is specified, a live capture session starts.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: start capturing when no subcommand provided
		return runCapture(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("carplay-capture %s (commit: %s)\n", version.Version, version.Commit)
	},
}
