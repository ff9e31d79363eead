package protocol

import (
	"encoding/binary"
	"testing"
)

func u32le(vals ...uint32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func TestParseCommandMessage(t *testing.T) {
	msg, err := parseCommandMessage([]byte{0x01, 0, 0, 0})
	if err != nil {
		t.Fatalf("parseCommandMessage() error = %v", err)
	}
	if msg.Value != CmdStartRecordAudio {
		t.Errorf("value = %d, want %d (startRecordAudio)", msg.Value, CmdStartRecordAudio)
	}
	if msg.Value.String() != "startRecordAudio" {
		t.Errorf("name = %q, want %q", msg.Value.String(), "startRecordAudio")
	}

	if _, err := parseCommandMessage([]byte{0x01, 0}); err == nil {
		t.Error("expected error for short payload")
	}
}

func TestParsePlugged(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		wantErr bool
		verify  func(t *testing.T, m *PluggedMessage)
	}{
		{
			name:    "8-byte payload with wifi flag",
			payload: []byte{0x03, 0, 0, 0, 0x01, 0, 0, 0},
			verify: func(t *testing.T, m *PluggedMessage) {
				if m.PhoneType != PhoneTypeCarPlay {
					t.Errorf("phoneType = %d, want CarPlay(3)", m.PhoneType)
				}
				if !m.HasWifi || m.Wifi != 1 {
					t.Errorf("wifi = (%v, %d), want (true, 1)", m.HasWifi, m.Wifi)
				}
			},
		},
		{
			name:    "4-byte payload without wifi field",
			payload: []byte{0x04, 0, 0, 0},
			verify: func(t *testing.T, m *PluggedMessage) {
				if m.PhoneType != PhoneTypeIPhoneMirror {
					t.Errorf("phoneType = %d, want iPhoneMirror(4)", m.PhoneType)
				}
				if m.HasWifi {
					t.Error("wifi field should be absent for 4-byte payload")
				}
			},
		},
		{
			name:    "too short",
			payload: []byte{0x04, 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parsePlugged(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePlugged() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.verify != nil {
				tt.verify(t, msg)
			}
		})
	}
}

func TestParseOpened(t *testing.T) {
	payload := u32le(800, 480, 20, 5, 49152, 2, 2)
	msg, err := parseOpened(payload)
	if err != nil {
		t.Fatalf("parseOpened() error = %v", err)
	}
	if msg.Width != 800 || msg.Height != 480 || msg.FPS != 20 {
		t.Errorf("dimensions = %dx%d@%d, want 800x480@20", msg.Width, msg.Height, msg.FPS)
	}
	if msg.Format != 5 || msg.PacketMax != 49152 || msg.IBoxVer != 2 || msg.PhoneMode != 2 {
		t.Errorf("negotiation fields = %d/%d/%d/%d, want 5/49152/2/2",
			msg.Format, msg.PacketMax, msg.IBoxVer, msg.PhoneMode)
	}

	if _, err := parseOpened(payload[:24]); err == nil {
		t.Error("expected error for truncated descriptor")
	}
}

func TestParseSoftwareVersion(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{
			name:    "date-shaped version with suffix",
			payload: []byte("2023.10.26.1041_Autokit\x00\x00\x00"),
			want:    "2023.10.26.1041",
		},
		{
			name:    "no date-shaped prefix left as-is",
			payload: []byte("AutoKit-v4\x00"),
			want:    "AutoKit-v4",
		},
		{
			name:    "surrounding whitespace trimmed",
			payload: []byte("  2021.03.02.1 \x00\x00"),
			want:    "2021.03.02.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parseSoftwareVersion(tt.payload)
			if err != nil {
				t.Fatalf("parseSoftwareVersion() error = %v", err)
			}
			if msg.Version != tt.want {
				t.Errorf("version = %q, want %q", msg.Version, tt.want)
			}
		})
	}
}

func TestParseManufacturerInfo(t *testing.T) {
	msg, err := parseManufacturerInfo(u32le(0xDEADBEEF, 0x00C0FFEE))
	if err != nil {
		t.Fatalf("parseManufacturerInfo() error = %v", err)
	}
	if msg.A != 0xDEADBEEF || msg.B != 0x00C0FFEE {
		t.Errorf("identifiers = 0x%08x/0x%08x, want 0xdeadbeef/0x00c0ffee", msg.A, msg.B)
	}
}

func TestParseBoxInfo(t *testing.T) {
	msg, err := parseBoxInfo([]byte(`{"MDModel":"CPC200","OemName":"Carlinkit"}`))
	if err != nil {
		t.Fatalf("parseBoxInfo() error = %v", err)
	}
	if msg.Settings["MDModel"] != "CPC200" {
		t.Errorf("MDModel = %v, want CPC200", msg.Settings["MDModel"])
	}

	if _, err := parseBoxInfo([]byte(`{"MDModel":`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestParseStringMessage(t *testing.T) {
	msg, err := parseStringMessage(MsgTypeBluetoothAddress, []byte("AA:BB:CC:DD:EE:FF\x00\x00"))
	if err != nil {
		t.Fatalf("parseStringMessage() error = %v", err)
	}
	if msg.Value != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("value = %q, want %q", msg.Value, "AA:BB:CC:DD:EE:FF")
	}
	if msg.Type() != MsgTypeBluetoothAddress {
		t.Errorf("type = %s, want BluetoothAddress", msg.Type())
	}
}

func TestParseUpdateProgress(t *testing.T) {
	msg, err := parseUpdateProgress(u32le(42))
	if err != nil {
		t.Fatalf("parseUpdateProgress() error = %v", err)
	}
	if msg.Progress != 42 {
		t.Errorf("progress = %d, want 42", msg.Progress)
	}
}

func TestMessageTypeString(t *testing.T) {
	if got := MsgTypeMediaData.String(); got != "MediaData" {
		t.Errorf("String() = %q, want %q", got, "MediaData")
	}
	if got := MessageType(0xEE).String(); got != "Unknown(0xee)" {
		t.Errorf("String() = %q, want %q", got, "Unknown(0xee)")
	}
}

func TestLookupCommand(t *testing.T) {
	code, ok := LookupCommand("play")
	if !ok || code != CmdPlay {
		t.Errorf("LookupCommand(play) = (%d, %v), want (%d, true)", code, ok, CmdPlay)
	}
	if _, ok := LookupCommand("warp-drive"); ok {
		t.Error("LookupCommand should miss for unknown names")
	}
}
