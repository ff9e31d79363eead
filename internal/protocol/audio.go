package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Audio command codes carried in a 1-byte AudioData tail. These signal
// stream lifecycle transitions, not samples.
const (
	AudioOutputStart    = 1
	AudioOutputStop     = 2
	AudioInputConfig    = 3
	AudioPhonecallStart = 4
	AudioPhonecallStop  = 5
	AudioNaviStart      = 6
	AudioNaviStop       = 7
	AudioSiriStart      = 8
	AudioSiriStop       = 9
	AudioMediaStart     = 10
	AudioMediaStop      = 11
	AudioAlertStart     = 12
	AudioAlertStop      = 13
)

// AudioFormat describes one of the fixed sample formats the dongle
// selects via the decode type field. Consumed opaquely by the renderer.
type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
	SampleTag  string
	MimeType   string
}

// audioFormats is the static decode-type table. All entries are 16-bit
// signed little-endian PCM; only rate and channel count vary.
var audioFormats = map[uint32]AudioFormat{
	1: {44100, 2, 16, "S16LE", "audio/L16;rate=44100;channels=2"},
	2: {44100, 2, 16, "S16LE", "audio/L16;rate=44100;channels=2"},
	3: {8000, 1, 16, "S16LE", "audio/L16;rate=8000;channels=1"},
	4: {48000, 2, 16, "S16LE", "audio/L16;rate=48000;channels=2"},
	5: {16000, 1, 16, "S16LE", "audio/L16;rate=16000;channels=1"},
	6: {24000, 1, 16, "S16LE", "audio/L16;rate=24000;channels=1"},
	7: {16000, 2, 16, "S16LE", "audio/L16;rate=16000;channels=2"},
}

// LookupAudioFormat returns the sample format for a decode type. The
// second return is false for decode types outside the 7-entry table.
func LookupAudioFormat(decodeType uint32) (AudioFormat, bool) {
	f, ok := audioFormats[decodeType]
	return f, ok
}

const audioPrefixSize = 12 // decodeType + volume + audioType

// AudioMessage (type 0x07) carries either PCM samples or a stream
// control signal. The fixed 12-byte prefix is followed by a tail whose
// meaning depends on its length:
//
//	0 bytes  - prefix only
//	1 byte   - audio command code (Command set, HasCommand true)
//	4 bytes  - volume transition duration (HasDuration true)
//	others   - int16 little-endian PCM samples in Data
type AudioMessage struct {
	DecodeType  uint32
	Volume      float32
	AudioType   uint32
	Command     byte
	HasCommand  bool
	VolumeDur   float32
	HasDuration bool
	Data        []int16
}

func (m *AudioMessage) Type() MessageType { return MsgTypeAudioData }

func (m *AudioMessage) String() string {
	switch {
	case m.HasCommand:
		return fmt.Sprintf("AudioData{decodeType=%d, volume=%.2f, audioType=%d, command=%d}",
			m.DecodeType, m.Volume, m.AudioType, m.Command)
	case m.HasDuration:
		return fmt.Sprintf("AudioData{decodeType=%d, volume=%.2f, audioType=%d, volumeDuration=%.2f}",
			m.DecodeType, m.Volume, m.AudioType, m.VolumeDur)
	default:
		return fmt.Sprintf("AudioData{decodeType=%d, volume=%.2f, audioType=%d, samples=%d}",
			m.DecodeType, m.Volume, m.AudioType, len(m.Data))
	}
}

// Format returns the sample format selected by the decode type, false
// when the decode type is not in the static table.
func (m *AudioMessage) Format() (AudioFormat, bool) {
	return LookupAudioFormat(m.DecodeType)
}

// parseAudioData decodes the fixed prefix first, then branches on the
// resolved tail length. It never probes byte patterns.
func parseAudioData(payload []byte) (*AudioMessage, error) {
	if len(payload) < audioPrefixSize {
		return nil, fmt.Errorf("audio payload too short: %d bytes (minimum %d)", len(payload), audioPrefixSize)
	}

	msg := &AudioMessage{
		DecodeType: binary.LittleEndian.Uint32(payload[0:4]),
		Volume:     math.Float32frombits(binary.LittleEndian.Uint32(payload[4:8])),
		AudioType:  binary.LittleEndian.Uint32(payload[8:12]),
	}

	tail := payload[audioPrefixSize:]
	switch len(tail) {
	case 0:
		// prefix only
	case 1:
		msg.Command = tail[0]
		msg.HasCommand = true
	case 4:
		msg.VolumeDur = math.Float32frombits(binary.LittleEndian.Uint32(tail))
		msg.HasDuration = true
	default:
		samples := make([]int16, len(tail)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(tail[i*2 : i*2+2]))
		}
		msg.Data = samples
	}

	return msg, nil
}
