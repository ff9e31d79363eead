// Package protocol implements the binary frame protocol spoken by
// CarPlay/Android-Auto dongle adapters over their USB-serial link.
//
// # Protocol Overview
//
// Every frame starts with a fixed 16-byte header of four little-endian
// uint32 fields:
//   - Magic constant: 0x55AA55AA
//   - Payload length in bytes
//   - Message type code
//   - Type check: bitwise complement of the type code
//
// The type check is a lightweight integrity guard against transport bit
// corruption; a header that fails it almost certainly indicates stream
// desynchronization and the link should be dropped by the caller.
//
// # Message Types
//
// The dongle emits a few dozen message types: video and audio data,
// media metadata, bluetooth/wifi pairing strings, session negotiation
// (Open/Plugged/Phase), firmware update progress, and free-form JSON
// settings blobs. Several payloads are shape-shifting: AudioData's tail
// is a command byte, a volume duration, or raw PCM depending on its
// length, and MediaData branches on an embedded discriminant. Decoding
// is always two-stage: fixed prefix first, then a tail decoder selected
// by the resolved length or discriminant.
//
// # Usage Example - Decoding
//
//	hdr, err := protocol.DecodeHeader(buf)
//	if err != nil {
//	    // frame-level corruption, drop the frame (and likely the link)
//	}
//	msg, err := dispatcher.Dispatch(hdr, payload)
//	if msg == nil && err == nil {
//	    // unknown or intentionally ignored type, not an error
//	}
//
// # Usage Example - Construction
//
//	frame := protocol.BuildCommand(protocol.CmdPlay)
//	_, err := link.Write(frame)
//
// # Error Handling
//
// The package distinguishes between:
//   - Header errors: ErrBadLength, ErrBadMagic, ErrBadTypeCheck - fatal
//     to the frame, always surfaced
//   - Unknown type codes: not errors, decode to no message
//   - Payload errors: malformed JSON or truncated fixed fields inside a
//     recognized type propagate to the caller
//
// # Thread Safety
//
// All decoding and construction functions are stateless and safe for
// concurrent use. A Dispatcher is immutable after construction; its
// diagnostic tap is invoked best-effort and can never alter a decode
// outcome.
package protocol
