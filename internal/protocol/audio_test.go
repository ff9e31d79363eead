package protocol

import (
	"encoding/binary"
	"math"
	"testing"
)

// audioPrefix builds the fixed 12-byte AudioData prefix.
func audioPrefix(decodeType uint32, volume float32, audioType uint32) []byte {
	buf := make([]byte, audioPrefixSize)
	binary.LittleEndian.PutUint32(buf[0:4], decodeType)
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(volume))
	binary.LittleEndian.PutUint32(buf[8:12], audioType)
	return buf
}

func TestParseAudioData(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		wantErr bool
		verify  func(t *testing.T, m *AudioMessage)
	}{
		{
			name:    "one-byte tail is an audio command",
			payload: append(audioPrefix(1, 0.5, 0), 9),
			verify: func(t *testing.T, m *AudioMessage) {
				if !m.HasCommand || m.Command != 9 {
					t.Errorf("command = (%v, %d), want (true, 9)", m.HasCommand, m.Command)
				}
				if len(m.Data) != 0 {
					t.Errorf("data length = %d, want 0", len(m.Data))
				}
				if m.Volume != 0.5 {
					t.Errorf("volume = %v, want 0.5", m.Volume)
				}
			},
		},
		{
			name:    "eight-byte tail is four PCM samples",
			payload: append(audioPrefix(1, 0.5, 0), make([]byte, 8)...),
			verify: func(t *testing.T, m *AudioMessage) {
				if len(m.Data) != 4 {
					t.Errorf("data length = %d, want 4", len(m.Data))
				}
				if m.HasCommand || m.HasDuration {
					t.Error("command/volumeDuration fields should be absent for PCM tails")
				}
			},
		},
		{
			name:    "four-byte tail is a volume transition duration",
			payload: append(audioPrefix(5, 1.0, 2), u32le(math.Float32bits(0.25))...),
			verify: func(t *testing.T, m *AudioMessage) {
				if !m.HasDuration || m.VolumeDur != 0.25 {
					t.Errorf("volumeDuration = (%v, %v), want (true, 0.25)", m.HasDuration, m.VolumeDur)
				}
			},
		},
		{
			name:    "empty tail carries prefix only",
			payload: audioPrefix(3, 0, 1),
			verify: func(t *testing.T, m *AudioMessage) {
				if m.HasCommand || m.HasDuration || len(m.Data) != 0 {
					t.Error("empty tail should carry no extra fields")
				}
				if m.DecodeType != 3 || m.AudioType != 1 {
					t.Errorf("prefix = (%d, %d), want (3, 1)", m.DecodeType, m.AudioType)
				}
			},
		},
		{
			name:    "PCM sample values decode little-endian signed",
			payload: append(audioPrefix(1, 0.5, 0), 0xFF, 0x7F, 0x00, 0x80),
			verify: func(t *testing.T, m *AudioMessage) {
				// 4-byte tail is a duration, not samples
				if !m.HasDuration {
					t.Fatal("expected a duration tail for 4 bytes")
				}
			},
		},
		{
			name:    "six-byte tail decodes as three samples",
			payload: append(audioPrefix(1, 0.5, 0), 0xFF, 0x7F, 0x00, 0x80, 0x01, 0x00),
			verify: func(t *testing.T, m *AudioMessage) {
				want := []int16{32767, -32768, 1}
				if len(m.Data) != len(want) {
					t.Fatalf("data length = %d, want %d", len(m.Data), len(want))
				}
				for i, s := range want {
					if m.Data[i] != s {
						t.Errorf("sample[%d] = %d, want %d", i, m.Data[i], s)
					}
				}
			},
		},
		{
			name:    "truncated prefix",
			payload: audioPrefix(1, 0.5, 0)[:8],
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parseAudioData(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAudioData() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.verify != nil {
				tt.verify(t, msg)
			}
		})
	}
}

func TestLookupAudioFormat(t *testing.T) {
	tests := []struct {
		decodeType uint32
		rate       int
		channels   int
	}{
		{1, 44100, 2},
		{2, 44100, 2},
		{3, 8000, 1},
		{4, 48000, 2},
		{5, 16000, 1},
		{6, 24000, 1},
		{7, 16000, 2},
	}

	for _, tt := range tests {
		f, ok := LookupAudioFormat(tt.decodeType)
		if !ok {
			t.Errorf("decode type %d missing from table", tt.decodeType)
			continue
		}
		if f.SampleRate != tt.rate || f.Channels != tt.channels {
			t.Errorf("decode type %d = %dHz/%dch, want %dHz/%dch",
				tt.decodeType, f.SampleRate, f.Channels, tt.rate, tt.channels)
		}
		if f.BitDepth != 16 {
			t.Errorf("decode type %d bit depth = %d, want 16", tt.decodeType, f.BitDepth)
		}
	}

	if _, ok := LookupAudioFormat(0); ok {
		t.Error("decode type 0 should not resolve")
	}
	if _, ok := LookupAudioFormat(8); ok {
		t.Error("decode type 8 should not resolve")
	}
}

func BenchmarkParseAudioDataPCM(b *testing.B) {
	payload := append(audioPrefix(1, 1.0, 0), make([]byte, 2048)...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := parseAudioData(payload); err != nil {
			b.Fatal(err)
		}
	}
}
