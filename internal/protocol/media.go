package protocol

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// MediaData payload discriminants (first uint32 of the payload).
const (
	MediaKindData                   = 1
	MediaKindAlbumCover             = 3
	MediaKindControlAutoplayTrigger = 100
)

// MediaMetadata is the now-playing JSON object sent with MediaKindData.
// Absent or mistyped fields decode to zero values; only JSON syntax
// errors fail the decode.
type MediaMetadata struct {
	MediaSongName     string  `json:"MediaSongName,omitempty"`
	MediaAlbumName    string  `json:"MediaAlbumName,omitempty"`
	MediaArtistName   string  `json:"MediaArtistName,omitempty"`
	MediaAPPName      string  `json:"MediaAPPName,omitempty"`
	MediaSongDuration float64 `json:"MediaSongDuration,omitempty"`
	MediaSongPlayTime float64 `json:"MediaSongPlayTime,omitempty"`
}

// MediaMessage (type 0x2A) branches on the embedded discriminant:
// metadata JSON, album cover image bytes, or an autoplay trigger with
// no payload. Unrecognized discriminants carry nothing.
type MediaMessage struct {
	Kind       uint32
	Metadata   *MediaMetadata
	AlbumCover string // base64-encoded image bytes
}

func (m *MediaMessage) Type() MessageType { return MsgTypeMediaData }

func (m *MediaMessage) String() string {
	switch m.Kind {
	case MediaKindData:
		if m.Metadata != nil {
			return fmt.Sprintf("MediaData{song=%q, artist=%q, app=%q}",
				m.Metadata.MediaSongName, m.Metadata.MediaArtistName, m.Metadata.MediaAPPName)
		}
		return "MediaData{no metadata}"
	case MediaKindAlbumCover:
		return fmt.Sprintf("MediaData{albumCover, %d base64 chars}", len(m.AlbumCover))
	case MediaKindControlAutoplayTrigger:
		return "MediaData{autoplayTrigger}"
	default:
		return fmt.Sprintf("MediaData{kind=%d}", m.Kind)
	}
}

func parseMediaData(payload []byte) (*MediaMessage, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("media payload too short: %d bytes (minimum 4)", len(payload))
	}

	msg := &MediaMessage{Kind: binary.LittleEndian.Uint32(payload[0:4])}
	rest := payload[4:]

	switch msg.Kind {
	case MediaKindData:
		// The firmware appends one filler byte after the JSON object.
		if len(rest) < 1 {
			return nil, fmt.Errorf("media metadata payload too short: %d bytes", len(rest))
		}
		var meta MediaMetadata
		if err := json.Unmarshal(rest[:len(rest)-1], &meta); err != nil {
			return nil, fmt.Errorf("failed to parse media metadata JSON: %w", err)
		}
		msg.Metadata = &meta
	case MediaKindAlbumCover:
		msg.AlbumCover = base64.StdEncoding.EncodeToString(rest)
	case MediaKindControlAutoplayTrigger:
		// no further payload
	default:
		// unrecognized discriminant, variant carries nothing
	}

	return msg, nil
}
