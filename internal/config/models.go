package config

// Settings represents the entire user configuration file.
type Settings struct {
	Version int            `yaml:"version"`
	Serial  *SerialConfig  `yaml:"serial,omitempty"`
	Display *DisplayConfig `yaml:"display,omitempty"`
	Monitor *MonitorConfig `yaml:"monitor,omitempty"`
	// BoxSettings is sent verbatim to the dongle as JSON during the
	// open handshake. Keys the firmware doesn't know are ignored.
	BoxSettings map[string]interface{} `yaml:"box_settings,omitempty"`
	LogLevel    string                 `yaml:"log_level,omitempty"`
}

// SerialConfig identifies the dongle's USB-serial endpoint.
type SerialConfig struct {
	Port        string `yaml:"port"`         // e.g. /dev/ttyUSB0, empty = first candidate
	Baud        int    `yaml:"baud"`         // link baud rate
	HeartbeatMS int    `yaml:"heartbeat_ms"` // keep-alive interval
}

// DisplayConfig is the projection geometry negotiated with the dongle
// at session open.
type DisplayConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	FPS       int `yaml:"fps"`
	DPI       int `yaml:"dpi"`
	Format    int `yaml:"format"`
	PacketMax int `yaml:"packet_max"`
	IBoxVer   int `yaml:"ibox_version"`
	PhoneMode int `yaml:"phone_mode"`
	// NightMode selects the dark map/UI theme on the phone after the
	// open handshake.
	NightMode bool `yaml:"night_mode,omitempty"`
}

// MonitorConfig controls the websocket monitor stream.
type MonitorConfig struct {
	Listen string `yaml:"listen"` // host:port, empty = disabled
}

// NewSettings creates Settings with defaults matching the common
// CPC200-class adapter on an 800x480 head unit panel.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Serial: &SerialConfig{
			Baud:        460800,
			HeartbeatMS: 2000,
		},
		Display: &DisplayConfig{
			Width:     800,
			Height:    480,
			FPS:       20,
			DPI:       160,
			Format:    5,
			PacketMax: 49152,
			IBoxVer:   2,
			PhoneMode: 2,
		},
		Monitor: &MonitorConfig{
			Listen: "127.0.0.1:9123",
		},
		BoxSettings: map[string]interface{}{
			"mediaDelay":       300,
			"syncTime":         0,
			"androidAutoSizeW": 800,
			"androidAutoSizeH": 480,
		},
	}
}

// normalize fills in zero-valued sections after a load so callers
// never see nil sections.
func (s *Settings) normalize() {
	defaults := NewSettings()
	if s.Serial == nil {
		s.Serial = defaults.Serial
	}
	if s.Serial.Baud == 0 {
		s.Serial.Baud = defaults.Serial.Baud
	}
	if s.Serial.HeartbeatMS == 0 {
		s.Serial.HeartbeatMS = defaults.Serial.HeartbeatMS
	}
	if s.Display == nil {
		s.Display = defaults.Display
	}
	if s.Monitor == nil {
		s.Monitor = defaults.Monitor
	}
	if s.BoxSettings == nil {
		s.BoxSettings = defaults.BoxSettings
	}
}
