package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Outbound frame builders. Each returns a complete wire frame (16-byte
// header followed by the payload) ready to write to the link.

// TouchAction is the gesture phase carried in a Touch frame.
type TouchAction uint32

const (
	TouchDown TouchAction = 14
	TouchMove TouchAction = 15
	TouchUp   TouchAction = 16
)

// buildFrame wraps a payload with its encoded header.
func buildFrame(typ MessageType, payload []byte) []byte {
	frame := EncodeHeader(typ, uint32(len(payload)))
	return append(frame, payload...)
}

// BuildCommand encodes a Command frame carrying a single command code.
func BuildCommand(cmd CommandCode) []byte {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(cmd))
	return buildFrame(MsgTypeCommand, payload)
}

// BuildHeartbeat encodes the periodic keep-alive frame. The dongle
// drops the link when heartbeats stop arriving.
func BuildHeartbeat() []byte {
	return EncodeHeader(MsgTypeHeartBeat, 0)
}

// BuildTouch encodes a single-touch event. Coordinates are normalized
// to [0,1] and scaled by 10000 on the wire.
func BuildTouch(action TouchAction, x, y float64) []byte {
	payload := make([]byte, 16)
	binary.LittleEndian.PutUint32(payload[0:4], uint32(action))
	binary.LittleEndian.PutUint32(payload[4:8], uint32(x*10000))
	binary.LittleEndian.PutUint32(payload[8:12], uint32(y*10000))
	// trailing flags word is always zero
	return buildFrame(MsgTypeTouch, payload)
}

// TouchPoint is one contact of a multi-touch event. Coordinates are
// normalized to [0,1].
type TouchPoint struct {
	X      float64
	Y      float64
	Action TouchAction
	ID     uint32
}

// BuildMultiTouch encodes a multi-touch event, 16 bytes per contact.
func BuildMultiTouch(points []TouchPoint) []byte {
	payload := make([]byte, 16*len(points))
	for i, p := range points {
		off := i * 16
		binary.LittleEndian.PutUint32(payload[off:off+4], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(payload[off+4:off+8], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(payload[off+8:off+12], uint32(p.Action))
		binary.LittleEndian.PutUint32(payload[off+12:off+16], p.ID)
	}
	return buildFrame(MsgTypeMultiTouch, payload)
}

// OpenParams is the session negotiation descriptor sent to the dongle
// at link start. The dongle echoes it back in an Opened message.
type OpenParams struct {
	Width     uint32
	Height    uint32
	FPS       uint32
	Format    uint32
	PacketMax uint32
	IBoxVer   uint32
	PhoneMode uint32
}

// BuildOpen encodes the 28-byte Open negotiation frame.
func BuildOpen(p OpenParams) []byte {
	payload := make([]byte, 28)
	binary.LittleEndian.PutUint32(payload[0:4], p.Width)
	binary.LittleEndian.PutUint32(payload[4:8], p.Height)
	binary.LittleEndian.PutUint32(payload[8:12], p.FPS)
	binary.LittleEndian.PutUint32(payload[12:16], p.Format)
	binary.LittleEndian.PutUint32(payload[16:20], p.PacketMax)
	binary.LittleEndian.PutUint32(payload[20:24], p.IBoxVer)
	binary.LittleEndian.PutUint32(payload[24:28], p.PhoneMode)
	return buildFrame(MsgTypeOpen, payload)
}

// BuildBoxSettings encodes a settings frame from a free-form key/value
// map, serialized as JSON. The dongle takes whatever keys it knows.
func BuildBoxSettings(settings map[string]interface{}) ([]byte, error) {
	payload, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal box settings: %w", err)
	}
	return buildFrame(MsgTypeBoxSettings, payload), nil
}

// BuildSendFile encodes a file push frame. Layout: NUL-terminated path
// preceded by its length, then the content preceded by its length. The
// dongle stores host-pushed assets (logos, DPI hints, night mode flags)
// under /tmp and /etc paths this way.
func BuildSendFile(path string, content []byte) []byte {
	pathBytes := append([]byte(path), 0)
	payload := make([]byte, 4+len(pathBytes)+4+len(content))
	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(pathBytes)))
	copy(payload[4:], pathBytes)
	off := 4 + len(pathBytes)
	binary.LittleEndian.PutUint32(payload[off:off+4], uint32(len(content)))
	copy(payload[off+4:], content)
	return buildFrame(MsgTypeSendFile, payload)
}

// BuildManufacturerInfo encodes a manufacturer info frame carrying two
// opaque identifiers.
func BuildManufacturerInfo(a, b uint32) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:4], a)
	binary.LittleEndian.PutUint32(payload[4:8], b)
	return buildFrame(MsgTypeManufacturerInfo, payload)
}

// BuildCloseDongle encodes the session teardown frame.
func BuildCloseDongle() []byte {
	return EncodeHeader(MsgTypeCloseDongle, 0)
}
