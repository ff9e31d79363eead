package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

func TestApplyFoldsDeviceState(t *testing.T) {
	m := NewDashboardModel("/dev/ttyUSB0", nil)

	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypePlugged, Length: 8},
		Message: &protocol.PluggedMessage{PhoneType: protocol.PhoneTypeCarPlay, Wifi: 1, HasWifi: true},
	})
	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypePhase, Length: 4},
		Message: &protocol.PhaseMessage{Phase: 2},
	})
	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypeSoftwareVersion, Length: 32},
		Message: &protocol.SoftwareVersionMessage{Version: "2023.10.27.1853"},
	})

	if !m.PluggedSeen || m.Phone != protocol.PhoneTypeCarPlay || !m.HasWifi {
		t.Errorf("plugged state = %+v, want CarPlay over wifi", m)
	}
	if !m.PhaseSeen || m.Phase != 2 {
		t.Errorf("phase = %d (seen=%v), want 2", m.Phase, m.PhaseSeen)
	}
	if m.SWVersion != "2023.10.27.1853" {
		t.Errorf("firmware = %q, want 2023.10.27.1853", m.SWVersion)
	}
	if m.TotalFrames != 3 {
		t.Errorf("total frames = %d, want 3", m.TotalFrames)
	}
	wantBytes := uint64(3*protocol.HeaderSize + 8 + 4 + 32)
	if m.TotalBytes != wantBytes {
		t.Errorf("total bytes = %d, want %d", m.TotalBytes, wantBytes)
	}
}

func TestApplyTracksNowPlaying(t *testing.T) {
	m := NewDashboardModel("/dev/ttyUSB0", nil)

	m.apply(Frame{
		Header: &protocol.Header{Type: protocol.MsgTypeMediaData, Length: 64},
		Message: &protocol.MediaMessage{
			Kind: protocol.MediaKindData,
			Metadata: &protocol.MediaMetadata{
				MediaSongName:   "Test Song",
				MediaArtistName: "Test Artist",
			},
		},
	})
	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypeAudioData, Length: 20},
		Message: &protocol.AudioMessage{DecodeType: 5, Volume: 0.5},
	})

	if m.Media == nil || m.Media.MediaSongName != "Test Song" {
		t.Fatalf("media = %+v, want Test Song", m.Media)
	}
	if m.AudioFormat == nil || m.AudioFormat.SampleRate != 16000 || m.AudioFormat.Channels != 1 {
		t.Errorf("audio format = %+v, want 16000 Hz mono", m.AudioFormat)
	}
}

func TestApplyTracksUpdateLifecycle(t *testing.T) {
	m := NewDashboardModel("/dev/ttyUSB0", nil)

	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypeUpdateProgress, Length: 4},
		Message: &protocol.UpdateProgressMessage{Progress: 42},
	})
	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypeUpdateState, Length: 4},
		Message: &protocol.UpdateStateMessage{Code: 2, Status: protocol.ClassifyUpdateStatus(2)},
	})

	if !m.ProgressSeen || m.UpdateProgress != 42 {
		t.Errorf("progress = %d (seen=%v), want 42", m.UpdateProgress, m.ProgressSeen)
	}
	if m.UpdateStatus == nil || !m.UpdateStatus.Terminal || !m.UpdateStatus.OK {
		t.Errorf("update status = %+v, want terminal success", m.UpdateStatus)
	}
}

func TestResetClearsCounters(t *testing.T) {
	m := NewDashboardModel("/dev/ttyUSB0", nil)
	m.apply(Frame{
		Header:  &protocol.Header{Type: protocol.MsgTypeHeartBeat, Length: 0},
		Message: nil,
	})
	if m.TotalFrames != 1 {
		t.Fatalf("total frames = %d, want 1", m.TotalFrames)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(DashboardModel)

	if m.TotalFrames != 0 || len(m.Counts) != 0 {
		t.Errorf("after reset: frames = %d, counts = %d, want 0", m.TotalFrames, len(m.Counts))
	}
}

func TestTopCountsSortedByVolume(t *testing.T) {
	m := NewDashboardModel("/dev/ttyUSB0", nil)
	for i := 0; i < 5; i++ {
		m.apply(Frame{Header: &protocol.Header{Type: protocol.MsgTypeAudioData, Length: 0}})
	}
	for i := 0; i < 2; i++ {
		m.apply(Frame{Header: &protocol.Header{Type: protocol.MsgTypeHeartBeat, Length: 0}})
	}
	m.apply(Frame{Header: &protocol.Header{Type: protocol.MsgTypeVideoData, Length: 0}})

	rows := m.topCounts(2)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Type != protocol.MsgTypeAudioData || rows[0].Count != 5 {
		t.Errorf("top row = %+v, want AudioData x5", rows[0])
	}
	if rows[1].Type != protocol.MsgTypeHeartBeat || rows[1].Count != 2 {
		t.Errorf("second row = %+v, want HeartBeat x2", rows[1])
	}
}

func TestWaitForFrameClosedChannel(t *testing.T) {
	ch := make(chan Frame)
	close(ch)

	msg := waitForFrame(ch)()
	closed, ok := msg.(linkClosedMsg)
	if !ok {
		t.Fatalf("msg = %T, want linkClosedMsg", msg)
	}
	if closed.err != nil {
		t.Errorf("err = %v, want nil for clean close", closed.err)
	}
}
