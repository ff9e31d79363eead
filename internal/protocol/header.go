package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame header constants.
const (
	// HeaderSize is the fixed size of every frame header.
	HeaderSize = 16

	// Magic is the constant carried in the first header field.
	Magic = 0x55AA55AA
)

// Header failure tiers. These are fatal to the individual frame and a
// BadMagic/BadTypeCheck almost certainly means the byte stream is
// desynchronized, so callers should drop the link too.
var (
	ErrBadLength    = errors.New("bad header length")
	ErrBadMagic     = errors.New("bad magic")
	ErrBadTypeCheck = errors.New("bad type check")
)

// Header is the decoded 16-byte frame header. Length is the payload
// size in bytes; a zero length means the frame carries no payload.
type Header struct {
	Length uint32
	Type   MessageType
}

// DecodeHeader validates and decodes a 16-byte header buffer.
//
// Layout (all fields little-endian uint32):
//
//	[0-3]   magic      0x55AA55AA
//	[4-7]   length     payload length in bytes
//	[8-11]  type       message type code
//	[12-15] typecheck  ^type (bitwise complement)
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) != HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes (want %d)", ErrBadLength, len(buf), HeaderSize)
	}

	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08x (want 0x%08x)", ErrBadMagic, magic, uint32(Magic))
	}

	length := binary.LittleEndian.Uint32(buf[4:8])
	typ := binary.LittleEndian.Uint32(buf[8:12])
	check := binary.LittleEndian.Uint32(buf[12:16])

	if check != ^typ {
		return nil, fmt.Errorf("%w: 0x%08x (want 0x%08x for type 0x%02x)",
			ErrBadTypeCheck, check, ^typ, typ)
	}

	return &Header{Length: length, Type: MessageType(typ)}, nil
}

// EncodeHeader produces the 16-byte wire header for an outbound frame.
// It is total: every (type, length) pair encodes.
func EncodeHeader(typ MessageType, length uint32) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], length)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(typ))
	binary.LittleEndian.PutUint32(buf[12:16], ^uint32(typ))
	return buf
}

// String returns a debug representation of the header.
func (h *Header) String() string {
	return fmt.Sprintf("Header{type=%s (0x%02x), length=%d}", h.Type, uint32(h.Type), h.Length)
}
