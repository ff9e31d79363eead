package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Message is a decoded frame payload. Messages are immutable value
// objects: created once per received frame, handed to the consumer,
// never mutated or reused.
type Message interface {
	Type() MessageType
	String() string
}

// stringPayload strips trailing NUL padding and whitespace from a raw
// ASCII payload. Several dongle firmware versions pad string payloads
// with zeros to fixed sizes.
func stringPayload(data []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(data), "\x00"))
}

// StringMessage carries the string-payload types: bluetooth address,
// PIN, device names, wifi name, HiCar link URL, paired device list and
// the peer connecting/connected notifications. No further structure.
type StringMessage struct {
	MessageType MessageType
	Value       string
}

func (m *StringMessage) Type() MessageType { return m.MessageType }

func (m *StringMessage) String() string {
	return fmt.Sprintf("%s{%q}", m.MessageType, m.Value)
}

func parseStringMessage(typ MessageType, payload []byte) (*StringMessage, error) {
	return &StringMessage{MessageType: typ, Value: stringPayload(payload)}, nil
}

// CommandMessage (type 0x08) carries a single numeric command code.
// The value is not validated against the enumerated set: firmware
// revisions emit codes outside it.
type CommandMessage struct {
	Value CommandCode
}

func (m *CommandMessage) Type() MessageType { return MsgTypeCommand }

func (m *CommandMessage) String() string {
	return fmt.Sprintf("Command{%s (%d)}", m.Value, uint32(m.Value))
}

func parseCommandMessage(payload []byte) (*CommandMessage, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("command payload too short: %d bytes (minimum 4)", len(payload))
	}
	return &CommandMessage{Value: CommandCode(binary.LittleEndian.Uint32(payload[0:4]))}, nil
}

// ManufacturerInfoMessage (type 0x14) carries two opaque identifiers.
type ManufacturerInfoMessage struct {
	A uint32
	B uint32
}

func (m *ManufacturerInfoMessage) Type() MessageType { return MsgTypeManufacturerInfo }

func (m *ManufacturerInfoMessage) String() string {
	return fmt.Sprintf("ManufacturerInfo{a=0x%08x, b=0x%08x}", m.A, m.B)
}

func parseManufacturerInfo(payload []byte) (*ManufacturerInfoMessage, error) {
	if len(payload) < 8 {
		return nil, fmt.Errorf("manufacturer info payload too short: %d bytes (minimum 8)", len(payload))
	}
	return &ManufacturerInfoMessage{
		A: binary.LittleEndian.Uint32(payload[0:4]),
		B: binary.LittleEndian.Uint32(payload[4:8]),
	}, nil
}

// versionPattern matches the YYYY.MM.DD.NNNN build identifier most
// firmware versions embed at the front of the version string.
var versionPattern = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}\.\d+`)

// SoftwareVersionMessage (type 0xCC) carries the dongle firmware
// version string, reduced to its date-shaped prefix when one exists.
type SoftwareVersionMessage struct {
	Version string
}

func (m *SoftwareVersionMessage) Type() MessageType { return MsgTypeSoftwareVersion }

func (m *SoftwareVersionMessage) String() string {
	return fmt.Sprintf("SoftwareVersion{%q}", m.Version)
}

func parseSoftwareVersion(payload []byte) (*SoftwareVersionMessage, error) {
	version := stringPayload(payload)
	if match := versionPattern.FindString(version); match != "" {
		version = match
	}
	return &SoftwareVersionMessage{Version: version}, nil
}

// PluggedMessage (type 0x02) announces a phone session. The wifi field
// is only present on 8-byte payloads; older firmware sends 4 bytes.
type PluggedMessage struct {
	PhoneType PhoneType
	Wifi      uint32
	HasWifi   bool
}

func (m *PluggedMessage) Type() MessageType { return MsgTypePlugged }

func (m *PluggedMessage) String() string {
	if m.HasWifi {
		return fmt.Sprintf("Plugged{phone=%s, wifi=%d}", m.PhoneType, m.Wifi)
	}
	return fmt.Sprintf("Plugged{phone=%s}", m.PhoneType)
}

func parsePlugged(payload []byte) (*PluggedMessage, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("plugged payload too short: %d bytes (minimum 4)", len(payload))
	}
	msg := &PluggedMessage{PhoneType: PhoneType(binary.LittleEndian.Uint32(payload[0:4]))}
	if len(payload) == 8 {
		msg.Wifi = binary.LittleEndian.Uint32(payload[4:8])
		msg.HasWifi = true
	}
	return msg, nil
}

// UnpluggedMessage (type 0x04) is header-only: the phone session ended.
type UnpluggedMessage struct{}

func (m *UnpluggedMessage) Type() MessageType { return MsgTypeUnplugged }

func (m *UnpluggedMessage) String() string { return "Unplugged{}" }

// OpenedMessage (type 0x01) is the 28-byte session negotiation
// descriptor echoed back by the dongle.
type OpenedMessage struct {
	Width     uint32
	Height    uint32
	FPS       uint32
	Format    uint32
	PacketMax uint32
	IBoxVer   uint32
	PhoneMode uint32
}

func (m *OpenedMessage) Type() MessageType { return MsgTypeOpen }

func (m *OpenedMessage) String() string {
	return fmt.Sprintf("Opened{%dx%d@%d, format=%d, packetMax=%d, iBox=%d, phoneMode=%d}",
		m.Width, m.Height, m.FPS, m.Format, m.PacketMax, m.IBoxVer, m.PhoneMode)
}

func parseOpened(payload []byte) (*OpenedMessage, error) {
	if len(payload) < 28 {
		return nil, fmt.Errorf("open payload too short: %d bytes (minimum 28)", len(payload))
	}
	return &OpenedMessage{
		Width:     binary.LittleEndian.Uint32(payload[0:4]),
		Height:    binary.LittleEndian.Uint32(payload[4:8]),
		FPS:       binary.LittleEndian.Uint32(payload[8:12]),
		Format:    binary.LittleEndian.Uint32(payload[12:16]),
		PacketMax: binary.LittleEndian.Uint32(payload[16:20]),
		IBoxVer:   binary.LittleEndian.Uint32(payload[20:24]),
		PhoneMode: binary.LittleEndian.Uint32(payload[24:28]),
	}, nil
}

// PhaseMessage (type 0x03) carries an opaque session phase code.
type PhaseMessage struct {
	Phase uint32
}

func (m *PhaseMessage) Type() MessageType { return MsgTypePhase }

func (m *PhaseMessage) String() string { return fmt.Sprintf("Phase{%d}", m.Phase) }

func parsePhase(payload []byte) (*PhaseMessage, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("phase payload too short: %d bytes (minimum 4)", len(payload))
	}
	return &PhaseMessage{Phase: binary.LittleEndian.Uint32(payload[0:4])}, nil
}

// BoxInfoMessage (type 0x19) carries the dongle's free-form JSON
// settings/info object. No schema is enforced; unknown keys pass
// through. Malformed JSON is a hard decode error.
type BoxInfoMessage struct {
	Settings map[string]interface{}
}

func (m *BoxInfoMessage) Type() MessageType { return MsgTypeBoxSettings }

func (m *BoxInfoMessage) String() string {
	return fmt.Sprintf("BoxInfo{%d keys}", len(m.Settings))
}

func parseBoxInfo(payload []byte) (*BoxInfoMessage, error) {
	var settings map[string]interface{}
	if err := json.Unmarshal([]byte(stringPayload(payload)), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse box settings JSON: %w", err)
	}
	return &BoxInfoMessage{Settings: settings}, nil
}

// UpdateProgressMessage (type 0xB1) carries a firmware update
// percentage. The value is not range-checked.
type UpdateProgressMessage struct {
	Progress int32
}

func (m *UpdateProgressMessage) Type() MessageType { return MsgTypeUpdateProgress }

func (m *UpdateProgressMessage) String() string {
	return fmt.Sprintf("UpdateProgress{%d%%}", m.Progress)
}

func parseUpdateProgress(payload []byte) (*UpdateProgressMessage, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("update progress payload too short: %d bytes (minimum 4)", len(payload))
	}
	return &UpdateProgressMessage{Progress: int32(binary.LittleEndian.Uint32(payload[0:4]))}, nil
}

// UpdateStateMessage (type 0xBB) carries a raw update status code plus
// its classification, see ClassifyUpdateStatus.
type UpdateStateMessage struct {
	Code   int32
	Status UpdateStatus
}

func (m *UpdateStateMessage) Type() MessageType { return MsgTypeUpdateState }

func (m *UpdateStateMessage) String() string {
	return fmt.Sprintf("UpdateState{code=%d, %s}", m.Code, m.Status)
}

func parseUpdateState(payload []byte) (*UpdateStateMessage, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("update state payload too short: %d bytes (minimum 4)", len(payload))
	}
	code := int32(binary.LittleEndian.Uint32(payload[0:4]))
	return &UpdateStateMessage{Code: code, Status: ClassifyUpdateStatus(code)}, nil
}
