package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	serial "go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/config"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/logging"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

// ErrLinkClosed is returned by Run after a clean shutdown.
var ErrLinkClosed = errors.New("link closed")

// FrameHandler receives each complete frame read off the link. The
// payload is nil for header-only frames. Handlers run on the read
// goroutine; decoding is synchronous.
type FrameHandler func(hdr *protocol.Header, payload []byte) error

// Link is one open dongle connection. It owns frame reassembly: the
// protocol layer always sees exactly one complete header buffer and,
// when the header announces one, exactly one complete payload buffer.
type Link struct {
	conn io.ReadWriteCloser
	name string
}

// Open opens the configured serial port. An empty port path picks the
// first USB-serial candidate on the machine.
func Open(cfg *config.SerialConfig) (*Link, error) {
	portName := cfg.Port
	if portName == "" {
		candidates, err := ListPorts()
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, errors.New("no serial ports found, is the dongle plugged in?")
		}
		portName = candidates[0]
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	logging.LogLink(portName, "link_opened")
	return &Link{conn: port, name: portName}, nil
}

// NewLink wraps an already-open byte stream. Used by tests and by the
// decode command when replaying captures.
func NewLink(conn io.ReadWriteCloser, name string) *Link {
	return &Link{conn: conn, name: name}
}

// Name returns the port path the link was opened on.
func (l *Link) Name() string { return l.name }

// Close closes the underlying port.
func (l *Link) Close() error {
	logging.LogLink(l.name, "link_closed")
	return l.conn.Close()
}

// ReadFrame blocks until one complete frame is available: a validated
// 16-byte header plus, when the header announces one, the full payload.
// A header decode failure means the stream is likely desynchronized;
// the caller should drop the link.
func (l *Link) ReadFrame() (*protocol.Header, []byte, error) {
	headerBuf := make([]byte, protocol.HeaderSize)
	if _, err := io.ReadFull(l.conn, headerBuf); err != nil {
		return nil, nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	hdr, err := protocol.DecodeHeader(headerBuf)
	if err != nil {
		return nil, nil, err
	}

	if hdr.Length == 0 {
		return hdr, nil, nil
	}

	payload := make([]byte, hdr.Length)
	if _, err := io.ReadFull(l.conn, payload); err != nil {
		return nil, nil, fmt.Errorf("failed to read %d-byte payload: %w", hdr.Length, err)
	}

	return hdr, payload, nil
}

// WriteFrame writes a complete outbound frame to the link.
func (l *Link) WriteFrame(frame []byte) error {
	if _, err := l.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// SendOpen performs the session open handshake: the Open negotiation
// descriptor followed by the configured box settings.
func (l *Link) SendOpen(display *config.DisplayConfig, boxSettings map[string]interface{}) error {
	open := protocol.BuildOpen(protocol.OpenParams{
		Width:     uint32(display.Width),
		Height:    uint32(display.Height),
		FPS:       uint32(display.FPS),
		Format:    uint32(display.Format),
		PacketMax: uint32(display.PacketMax),
		IBoxVer:   uint32(display.IBoxVer),
		PhoneMode: uint32(display.PhoneMode),
	})
	if err := l.WriteFrame(open); err != nil {
		return fmt.Errorf("open handshake: %w", err)
	}

	settings := make(map[string]interface{}, len(boxSettings)+1)
	for k, v := range boxSettings {
		settings[k] = v
	}
	if display.DPI > 0 {
		settings["dpi"] = display.DPI
	}

	if len(settings) > 0 {
		frame, err := protocol.BuildBoxSettings(settings)
		if err != nil {
			return err
		}
		if err := l.WriteFrame(frame); err != nil {
			return fmt.Errorf("box settings: %w", err)
		}
	}

	return nil
}

// Run reads frames until the context is cancelled or the link fails,
// handing each to the handler, and writes a heartbeat at the configured
// interval. Header corruption tears the loop down: a desynchronized
// stream cannot recover mid-link.
func (l *Link) Run(ctx context.Context, heartbeat time.Duration, handler FrameHandler) error {
	if heartbeat > 0 {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := l.WriteFrame(protocol.BuildHeartbeat()); err != nil {
						logging.Warn("Heartbeat write failed",
							zap.String("port", l.name),
							zap.Error(err),
						)
						return
					}
				}
			}
		}()
	}

	for {
		if err := ctx.Err(); err != nil {
			return ErrLinkClosed
		}

		hdr, payload, err := l.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				logging.LogLink(l.name, "link_eof")
				return ErrLinkClosed
			}
			return err
		}

		if err := handler(hdr, payload); err != nil {
			logging.Error("Frame handler failed",
				zap.String("port", l.name),
				zap.String("header", hdr.String()),
				zap.Error(err),
			)
		}
	}
}

// ListPorts returns candidate dongle serial ports, USB adapters first.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	var usb, other []string
	for _, p := range ports {
		if strings.Contains(p, "USB") || strings.Contains(p, "ACM") || strings.Contains(p, "usbserial") {
			usb = append(usb, p)
		} else {
			other = append(other, p)
		}
	}
	return append(usb, other...), nil
}
