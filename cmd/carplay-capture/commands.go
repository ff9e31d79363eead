package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/config"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/logging"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/monitor"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/server"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/transport"
)

// Capture command flags
var (
	serialPort string
	wsListen   string
	noTUI      bool
	noWS       bool
	decodeFile string
)

func init() {
	// Common flags for link commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&serialPort, "port", "", "Serial port (empty = first USB candidate)")

	// Add subcommands directly to root
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(sendCmd)
}

// captureCmd runs a live capture session
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture and decode the dongle message stream",
	Long: `Open the dongle link, perform the open handshake, and decode the
message stream until interrupted.

By default a live dashboard shows per-type frame counters, the
connected phone, now-playing metadata, and update progress. Decoded
frames are also broadcast to websocket clients on the monitor listen
address unless disabled.`,
	Example: `  # Capture with the live dashboard (default)
  carplay-capture capture

  # Capture on a specific port
  carplay-capture capture --port /dev/ttyUSB1

  # Headless capture, structured logs only
  CARPLAY_LOG_LEVEL=info carplay-capture capture --no-tui --no-ws

  # Capture with websocket monitoring on a custom address
  carplay-capture capture --ws-listen 0.0.0.0:9123`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&wsListen, "ws-listen", "", "Websocket monitor listen address (overrides config)")
	captureCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable the live dashboard")
	captureCmd.Flags().BoolVar(&noWS, "no-ws", false, "Disable the websocket monitor server")
}

func runCapture(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serialPort != "" {
		settings.Serial.Port = serialPort
	}
	if wsListen != "" {
		settings.Monitor.Listen = wsListen
	}

	if err := initLogging(settings); err != nil {
		return err
	}
	defer logging.Sync()

	link, err := transport.Open(settings.Serial)
	if err != nil {
		return fmt.Errorf("failed to open link: %w", err)
	}
	defer link.Close()

	if err := link.SendOpen(settings.Display, settings.BoxSettings); err != nil {
		return fmt.Errorf("open handshake failed: %w", err)
	}

	nightMode := protocol.CmdDisableNightMode
	if settings.Display.NightMode {
		nightMode = protocol.CmdEnableNightMode
	}
	if err := link.WriteFrame(protocol.BuildCommand(nightMode)); err != nil {
		return fmt.Errorf("night mode: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	if !noWS && settings.Monitor.Listen != "" {
		srv = server.New(settings.Monitor.Listen)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logging.Error("Monitor server stopped", zap.Error(err))
			}
		}()
	}

	dispatcher := protocol.NewDispatcher(func(typ protocol.MessageType, length, dataLength uint32, data []byte) {
		logging.LogFrame("rx", typ.String(), length, data)
	})

	heartbeat := time.Duration(settings.Serial.HeartbeatMS) * time.Millisecond

	if noTUI {
		return link.Run(ctx, heartbeat, func(hdr *protocol.Header, payload []byte) error {
			msg, err := dispatcher.Dispatch(hdr, payload)
			if err != nil {
				return err
			}
			if srv != nil {
				srv.Broadcast(hdr, msg)
			}
			if msg != nil {
				fmt.Println(msg.String())
			}
			return nil
		})
	}

	frames := make(chan monitor.Frame, 64)
	go func() {
		defer close(frames)
		err := link.Run(ctx, heartbeat, func(hdr *protocol.Header, payload []byte) error {
			msg, err := dispatcher.Dispatch(hdr, payload)
			if err != nil {
				return err
			}
			if srv != nil {
				srv.Broadcast(hdr, msg)
			}
			select {
			case frames <- monitor.Frame{Header: hdr, Message: msg}:
			default:
				// Dashboard fell behind; drop the frame rather than
				// stall the link reader.
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			frames <- monitor.Frame{Err: err}
		}
	}()

	return monitor.Run(ctx, link.Name(), frames)
}

// decodeCmd decodes captured frames from hex input or a file
var decodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode captured frames offline",
	Long: `Decode one or more frames from a hex string or a raw capture file.

The input must be a concatenation of complete frames, each a 16-byte
header followed by its payload. Each decoded message is printed on its
own line; header-only signals print their type name.`,
	Example: `  # Decode a single heartbeat frame from hex
  carplay-capture decode aa55aa5500000000aa00000055ffffff

  # Decode a raw capture file
  carplay-capture decode --file session.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeFile, "file", "", "Raw capture file to decode")
}

func runDecode(cmd *cobra.Command, args []string) error {
	var raw []byte
	switch {
	case decodeFile != "":
		data, err := os.ReadFile(decodeFile)
		if err != nil {
			return fmt.Errorf("failed to read capture file: %w", err)
		}
		raw = data
	case len(args) == 1:
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, args[0])
		data, err := hex.DecodeString(cleaned)
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}
		raw = data
	default:
		return fmt.Errorf("provide a hex string argument or --file")
	}

	dispatcher := protocol.NewDispatcher(nil)

	offset := 0
	frame := 0
	for offset < len(raw) {
		if len(raw)-offset < protocol.HeaderSize {
			return fmt.Errorf("frame %d: truncated header at offset %d", frame, offset)
		}
		hdr, err := protocol.DecodeHeader(raw[offset : offset+protocol.HeaderSize])
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		offset += protocol.HeaderSize

		if len(raw)-offset < int(hdr.Length) {
			return fmt.Errorf("frame %d: truncated payload, want %d bytes, have %d", frame, hdr.Length, len(raw)-offset)
		}
		payload := raw[offset : offset+int(hdr.Length)]
		offset += int(hdr.Length)

		msg, err := dispatcher.Dispatch(hdr, payload)
		if err != nil {
			return fmt.Errorf("frame %d (%s): %w", frame, hdr.Type, err)
		}
		if msg != nil {
			fmt.Printf("%4d  %s\n", frame, msg.String())
		} else {
			fmt.Printf("%4d  %s (%d bytes)\n", frame, hdr.Type, hdr.Length)
		}
		frame++
	}

	fmt.Printf("\nDecoded %d frame(s), %d bytes\n", frame, len(raw))
	return nil
}

// portsCmd lists candidate serial ports
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	Long: `List serial ports on this machine, USB/ACM candidates first.

The first candidate is used when no --port is specified.`,
	RunE: runPorts,
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return fmt.Errorf("failed to enumerate ports: %w", err)
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check the dongle is plugged in and powered")
		fmt.Println("  - Verify your user can access serial devices (dialout group)")
		fmt.Println("  - Use --port to specify a device path manually")
		return nil
	}

	fmt.Printf("Found %d port(s):\n\n", len(ports))
	for i, port := range ports {
		fmt.Printf("%d. %s\n", i+1, port)
	}

	fmt.Println("\nUse 'carplay-capture capture --port <path>' to capture from a specific port")
	return nil
}

// sendCmd sends a single command frame to the dongle
var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send a command frame to the dongle",
	Long: `Send a single command frame and exit.

The command may be given by name (as printed by decoded Command
messages) or as a numeric code.`,
	Example: `  # Toggle Siri
  carplay-capture send siri

  # Advance to the next track
  carplay-capture send next

  # Send a raw command code
  carplay-capture send 1012`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	code, ok := protocol.LookupCommand(args[0])
	if !ok {
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("unknown command %q (use a name or numeric code)", args[0])
		}
		code = protocol.CommandCode(n)
	}

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serialPort != "" {
		settings.Serial.Port = serialPort
	}

	if err := initLogging(settings); err != nil {
		return err
	}
	defer logging.Sync()

	link, err := transport.Open(settings.Serial)
	if err != nil {
		return fmt.Errorf("failed to open link: %w", err)
	}
	defer link.Close()

	if err := link.WriteFrame(protocol.BuildCommand(code)); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	fmt.Printf("✓ Sent %s (%d) on %s\n", code, uint32(code), link.Name())
	return nil
}

// initLogging initializes the zap logger, preferring the environment
// variable over the configured level.
func initLogging(settings *config.Settings) error {
	if os.Getenv(logging.LogLevelEnvVar) != "" {
		return logging.InitializeFromEnv()
	}
	if err := logging.Initialize(settings.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}
