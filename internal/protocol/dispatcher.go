package protocol

import (
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/logging"
	"go.uber.org/zap"
)

// Tap is an optional diagnostic observer invoked once per decode
// attempt, before type-specific parsing. It sees every frame, including
// types the dispatcher ignores. Taps are best-effort: a panicking tap
// is swallowed and never alters the decode outcome.
type Tap func(typ MessageType, length, dataLength uint32, data []byte)

// Dispatcher maps a decoded header plus optional payload bytes to a
// typed message. It is immutable after construction and safe for
// concurrent use; decoding is stateless and re-entrant.
type Dispatcher struct {
	tap Tap
}

// NewDispatcher creates a dispatcher. tap may be nil.
func NewDispatcher(tap Tap) *Dispatcher {
	return &Dispatcher{tap: tap}
}

// Dispatch decodes one frame. A nil message with a nil error means the
// type is unknown or intentionally ignored; that is not a failure. An
// error is only returned when a recognized type's payload is
// structurally malformed.
func (d *Dispatcher) Dispatch(h *Header, payload []byte) (Message, error) {
	d.observe(h, payload)

	if len(payload) > 0 {
		return d.dispatchPayload(h, payload)
	}
	return d.dispatchHeaderOnly(h)
}

// observe invokes the diagnostic tap, discarding any panic it raises.
// Observability must never affect the protocol.
func (d *Dispatcher) observe(h *Header, payload []byte) {
	if d.tap == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Debug("Diagnostic tap panicked",
				zap.String("type", h.Type.String()),
				zap.Any("panic", r),
			)
		}
	}()
	d.tap(h.Type, h.Length, uint32(len(payload)), payload)
}

// asMessage converts a typed parse result to the Message interface,
// keeping a failed parse's nil concrete pointer as a nil interface.
func asMessage[M Message](msg M, err error) (Message, error) {
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *Dispatcher) dispatchPayload(h *Header, payload []byte) (Message, error) {
	switch h.Type {
	case MsgTypeAudioData:
		return asMessage(parseAudioData(payload))
	case MsgTypeVideoData, MsgTypeAltVideoData, MsgTypeNaviVideoData:
		return asMessage(parseVideoData(h.Type, payload))
	case MsgTypeMediaData:
		return asMessage(parseMediaData(payload))
	case MsgTypeBluetoothAddress, MsgTypeBluetoothPIN, MsgTypeBluetoothDeviceName,
		MsgTypeWifiDeviceName, MsgTypeHiCarLink, MsgTypeBluetoothPairedList,
		MsgTypePeerBluetoothAddress, MsgTypePeerBluetoothPaired:
		return asMessage(parseStringMessage(h.Type, payload))
	case MsgTypeManufacturerInfo:
		return asMessage(parseManufacturerInfo(payload))
	case MsgTypeSoftwareVersion:
		return asMessage(parseSoftwareVersion(payload))
	case MsgTypeCommand:
		return asMessage(parseCommandMessage(payload))
	case MsgTypePlugged:
		return asMessage(parsePlugged(payload))
	case MsgTypeOpen:
		return asMessage(parseOpened(payload))
	case MsgTypeBoxSettings:
		return asMessage(parseBoxInfo(payload))
	case MsgTypePhase:
		return asMessage(parsePhase(payload))
	case MsgTypeUpdateProgress:
		return asMessage(parseUpdateProgress(payload))
	case MsgTypeUpdateState:
		return asMessage(parseUpdateState(payload))
	case MsgTypeVendorSessionBlob:
		// opaque vendor session data, intentionally not interpreted
		return nil, nil
	default:
		logging.Debug("Unhandled message type with payload",
			zap.String("type", h.Type.String()),
			zap.Uint32("length", h.Length),
			zap.Int("data_len", len(payload)),
		)
		return nil, nil
	}
}

func (d *Dispatcher) dispatchHeaderOnly(h *Header) (Message, error) {
	switch h.Type {
	case MsgTypeUnplugged:
		return &UnpluggedMessage{}, nil
	case MsgTypeUiHidePeerInfo, MsgTypeUiBringToForeground:
		// UI visibility signals for the presentation layer, nothing to decode
		return nil, nil
	default:
		logging.Debug("Unhandled message type without payload",
			zap.String("type", h.Type.String()),
			zap.Uint32("length", h.Length),
		)
		return nil, nil
	}
}
