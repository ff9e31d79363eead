package protocol

import (
	"testing"
)

func TestDispatch_PayloadTypes(t *testing.T) {
	d := NewDispatcher(nil)

	tests := []struct {
		name    string
		typ     MessageType
		payload []byte
		verify  func(t *testing.T, m Message)
	}{
		{
			name:    "command",
			typ:     MsgTypeCommand,
			payload: u32le(uint32(CmdPlay)),
			verify: func(t *testing.T, m Message) {
				cmd, ok := m.(*CommandMessage)
				if !ok {
					t.Fatalf("message type = %T, want *CommandMessage", m)
				}
				if cmd.Value != CmdPlay {
					t.Errorf("value = %d, want play(201)", cmd.Value)
				}
			},
		},
		{
			name:    "bluetooth PIN",
			typ:     MsgTypeBluetoothPIN,
			payload: []byte("0000\x00"),
			verify: func(t *testing.T, m Message) {
				s, ok := m.(*StringMessage)
				if !ok {
					t.Fatalf("message type = %T, want *StringMessage", m)
				}
				if s.Value != "0000" {
					t.Errorf("value = %q, want 0000", s.Value)
				}
			},
		},
		{
			name:    "phase",
			typ:     MsgTypePhase,
			payload: u32le(9),
			verify: func(t *testing.T, m Message) {
				if m.(*PhaseMessage).Phase != 9 {
					t.Errorf("phase = %d, want 9", m.(*PhaseMessage).Phase)
				}
			},
		},
		{
			name:    "alt video routes to the video decoder",
			typ:     MsgTypeAltVideoData,
			payload: append(u32le(800, 480, 0, 0, 0), 0xAB),
			verify: func(t *testing.T, m Message) {
				v, ok := m.(*VideoMessage)
				if !ok {
					t.Fatalf("message type = %T, want *VideoMessage", m)
				}
				if v.Type() != MsgTypeAltVideoData {
					t.Errorf("type = %s, want AltVideoData", v.Type())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Header{Length: uint32(len(tt.payload)), Type: tt.typ}
			msg, err := d.Dispatch(h, tt.payload)
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if msg == nil {
				t.Fatal("Dispatch() returned no message")
			}
			tt.verify(t, msg)
		})
	}
}

func TestDispatch_NoMessageOutcomes(t *testing.T) {
	d := NewDispatcher(nil)

	tests := []struct {
		name    string
		typ     MessageType
		payload []byte
	}{
		{"unknown type with payload", MessageType(0xE7), []byte{0x01, 0x02, 0x03}},
		{"unknown type without payload", MessageType(0xE8), nil},
		{"vendor session blob yields no message", MsgTypeVendorSessionBlob, []byte{0xDE, 0xAD}},
		{"ui hide peer info yields no message", MsgTypeUiHidePeerInfo, nil},
		{"ui bring to foreground yields no message", MsgTypeUiBringToForeground, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Header{Length: uint32(len(tt.payload)), Type: tt.typ}
			msg, err := d.Dispatch(h, tt.payload)
			if err != nil {
				t.Fatalf("Dispatch() error = %v, want nil", err)
			}
			if msg != nil {
				t.Errorf("Dispatch() = %v, want no message", msg)
			}
		})
	}
}

func TestDispatch_HeaderOnlyUnplugged(t *testing.T) {
	d := NewDispatcher(nil)
	msg, err := d.Dispatch(&Header{Type: MsgTypeUnplugged}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if _, ok := msg.(*UnpluggedMessage); !ok {
		t.Errorf("message type = %T, want *UnpluggedMessage", msg)
	}
}

func TestDispatch_TapInvokedBeforeDecode(t *testing.T) {
	var gotType MessageType
	var gotLength, gotDataLength uint32
	var gotData []byte

	d := NewDispatcher(func(typ MessageType, length, dataLength uint32, data []byte) {
		gotType = typ
		gotLength = length
		gotDataLength = dataLength
		gotData = data
	})

	payload := u32le(uint32(CmdSiri))
	_, err := d.Dispatch(&Header{Length: 4, Type: MsgTypeCommand}, payload)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if gotType != MsgTypeCommand || gotLength != 4 || gotDataLength != 4 {
		t.Errorf("tap saw (%s, %d, %d), want (Command, 4, 4)", gotType, gotLength, gotDataLength)
	}
	if len(gotData) != 4 {
		t.Errorf("tap data length = %d, want 4", len(gotData))
	}
}

func TestDispatch_TapSeesIgnoredTypes(t *testing.T) {
	calls := 0
	d := NewDispatcher(func(MessageType, uint32, uint32, []byte) { calls++ })

	_, _ = d.Dispatch(&Header{Type: MessageType(0xE7), Length: 2}, []byte{1, 2})
	_, _ = d.Dispatch(&Header{Type: MsgTypeVendorSessionBlob, Length: 1}, []byte{0})

	if calls != 2 {
		t.Errorf("tap calls = %d, want 2", calls)
	}
}

func TestDispatch_TapPanicSwallowed(t *testing.T) {
	d := NewDispatcher(func(MessageType, uint32, uint32, []byte) {
		panic("observer gone wrong")
	})

	msg, err := d.Dispatch(&Header{Length: 4, Type: MsgTypeCommand}, u32le(uint32(CmdPlay)))
	if err != nil {
		t.Fatalf("Dispatch() error = %v, tap failure must not propagate", err)
	}
	if msg == nil {
		t.Fatal("Dispatch() returned no message, tap failure must not alter the outcome")
	}
	if msg.(*CommandMessage).Value != CmdPlay {
		t.Errorf("value = %d, want play(201)", msg.(*CommandMessage).Value)
	}
}

func TestDispatch_MalformedRecognizedPayloadFails(t *testing.T) {
	d := NewDispatcher(nil)

	payload := append(u32le(MediaKindData), append([]byte(`{"bad json`), 0)...)
	msg, err := d.Dispatch(&Header{Length: uint32(len(payload)), Type: MsgTypeMediaData}, payload)
	if err == nil {
		t.Fatal("Dispatch() expected error for malformed media JSON")
	}
	if msg != nil {
		t.Errorf("Dispatch() = %v, want no message on error", msg)
	}
}
