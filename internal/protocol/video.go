package protocol

import (
	"encoding/binary"
	"fmt"
)

const videoPrefixSize = 20

// VideoMessage carries one encoded video chunk. The bitstream bytes
// after the 20-byte prefix pass through opaquely to the decoder. The
// alternate and navigation video streams (types 0x2B, 0x2C) share the
// layout; MessageType records which stream the chunk belongs to.
type VideoMessage struct {
	MessageType MessageType
	Width       uint32
	Height      uint32
	Flags       uint32
	Length      uint32
	Unknown     uint32
	Data        []byte
}

func (m *VideoMessage) Type() MessageType { return m.MessageType }

func (m *VideoMessage) String() string {
	return fmt.Sprintf("%s{%dx%d, flags=0x%08x, bytes=%d}",
		m.MessageType, m.Width, m.Height, m.Flags, len(m.Data))
}

func parseVideoData(typ MessageType, payload []byte) (*VideoMessage, error) {
	if len(payload) < videoPrefixSize {
		return nil, fmt.Errorf("video payload too short: %d bytes (minimum %d)", len(payload), videoPrefixSize)
	}
	return &VideoMessage{
		MessageType: typ,
		Width:       binary.LittleEndian.Uint32(payload[0:4]),
		Height:      binary.LittleEndian.Uint32(payload[4:8]),
		Flags:       binary.LittleEndian.Uint32(payload[8:12]),
		Length:      binary.LittleEndian.Uint32(payload[12:16]),
		Unknown:     binary.LittleEndian.Uint32(payload[16:20]),
		Data:        payload[videoPrefixSize:],
	}, nil
}
