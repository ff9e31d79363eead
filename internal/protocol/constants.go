package protocol

import "fmt"

// MessageType identifies a frame's payload layout. Carried in the header
// as a little-endian uint32 alongside its bitwise complement.
type MessageType uint32

// Message type codes observed on the dongle link.
const (
	MsgTypeOpen                 MessageType = 0x01
	MsgTypePlugged              MessageType = 0x02
	MsgTypePhase                MessageType = 0x03
	MsgTypeUnplugged            MessageType = 0x04
	MsgTypeTouch                MessageType = 0x05
	MsgTypeVideoData            MessageType = 0x06
	MsgTypeAudioData            MessageType = 0x07
	MsgTypeCommand              MessageType = 0x08
	MsgTypeLogoType             MessageType = 0x09
	MsgTypeBluetoothAddress     MessageType = 0x0A
	MsgTypeBluetoothPIN         MessageType = 0x0C
	MsgTypeBluetoothDeviceName  MessageType = 0x0D
	MsgTypeWifiDeviceName       MessageType = 0x0E
	MsgTypeDisconnectPhone      MessageType = 0x0F
	MsgTypeBluetoothPairedList  MessageType = 0x12
	MsgTypeManufacturerInfo     MessageType = 0x14
	MsgTypeCloseDongle          MessageType = 0x15
	MsgTypeMultiTouch           MessageType = 0x17
	MsgTypeHiCarLink            MessageType = 0x18
	MsgTypeBoxSettings          MessageType = 0x19
	MsgTypePeerBluetoothAddress MessageType = 0x23 // peer device connecting
	MsgTypePeerBluetoothPaired  MessageType = 0x24 // peer device connected
	MsgTypeUiHidePeerInfo       MessageType = 0x25
	MsgTypeUiBringToForeground  MessageType = 0x26
	MsgTypeMediaData            MessageType = 0x2A
	MsgTypeAltVideoData         MessageType = 0x2B
	MsgTypeNaviVideoData        MessageType = 0x2C
	MsgTypeNaviFocusRequest     MessageType = 0x6E
	MsgTypeNaviFocusRelease     MessageType = 0x6F
	MsgTypeSendFile             MessageType = 0x99
	MsgTypeVendorSessionBlob    MessageType = 0xA3 // opaque vendor session data, never decoded
	MsgTypeHeartBeat            MessageType = 0xAA
	MsgTypeUpdateProgress       MessageType = 0xB1
	MsgTypeUpdateState          MessageType = 0xBB
	MsgTypeSoftwareVersion      MessageType = 0xCC
)

// messageTypeNames maps type codes to human-readable names for logging
// and diagnostics.
var messageTypeNames = map[MessageType]string{
	MsgTypeOpen:                 "Open",
	MsgTypePlugged:              "Plugged",
	MsgTypePhase:                "Phase",
	MsgTypeUnplugged:            "Unplugged",
	MsgTypeTouch:                "Touch",
	MsgTypeVideoData:            "VideoData",
	MsgTypeAudioData:            "AudioData",
	MsgTypeCommand:              "Command",
	MsgTypeLogoType:             "LogoType",
	MsgTypeBluetoothAddress:     "BluetoothAddress",
	MsgTypeBluetoothPIN:         "BluetoothPIN",
	MsgTypeBluetoothDeviceName:  "BluetoothDeviceName",
	MsgTypeWifiDeviceName:       "WifiDeviceName",
	MsgTypeDisconnectPhone:      "DisconnectPhone",
	MsgTypeBluetoothPairedList:  "BluetoothPairedList",
	MsgTypeManufacturerInfo:     "ManufacturerInfo",
	MsgTypeCloseDongle:          "CloseDongle",
	MsgTypeMultiTouch:           "MultiTouch",
	MsgTypeHiCarLink:            "HiCarLink",
	MsgTypeBoxSettings:          "BoxSettings",
	MsgTypePeerBluetoothAddress: "PeerBluetoothAddress",
	MsgTypePeerBluetoothPaired:  "PeerBluetoothPaired",
	MsgTypeUiHidePeerInfo:       "UiHidePeerInfo",
	MsgTypeUiBringToForeground:  "UiBringToForeground",
	MsgTypeMediaData:            "MediaData",
	MsgTypeAltVideoData:         "AltVideoData",
	MsgTypeNaviVideoData:        "NaviVideoData",
	MsgTypeNaviFocusRequest:     "NaviFocusRequest",
	MsgTypeNaviFocusRelease:     "NaviFocusRelease",
	MsgTypeSendFile:             "SendFile",
	MsgTypeVendorSessionBlob:    "VendorSessionBlob",
	MsgTypeHeartBeat:            "HeartBeat",
	MsgTypeUpdateProgress:       "UpdateProgress",
	MsgTypeUpdateState:          "UpdateState",
	MsgTypeSoftwareVersion:      "SoftwareVersion",
}

// String returns a human-readable name for the message type.
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02x)", uint32(t))
}

// PhoneType identifies the projection session kind reported by a
// Plugged message.
type PhoneType uint32

const (
	PhoneTypeAndroidMirror PhoneType = 1
	PhoneTypeCarPlay       PhoneType = 3
	PhoneTypeIPhoneMirror  PhoneType = 4
	PhoneTypeAndroidAuto   PhoneType = 5
	PhoneTypeHiCar         PhoneType = 6
)

// String returns a human-readable name for the phone type.
func (p PhoneType) String() string {
	switch p {
	case PhoneTypeAndroidMirror:
		return "AndroidMirror"
	case PhoneTypeCarPlay:
		return "CarPlay"
	case PhoneTypeIPhoneMirror:
		return "iPhoneMirror"
	case PhoneTypeAndroidAuto:
		return "AndroidAuto"
	case PhoneTypeHiCar:
		return "HiCar"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(p))
	}
}

// CommandCode is the numeric payload of a Command message, in either
// direction. Inbound command values are not validated against this set;
// the dongle firmware is known to emit codes outside it.
type CommandCode uint32

const (
	CmdInvalid          CommandCode = 0
	CmdStartRecordAudio CommandCode = 1
	CmdStopRecordAudio  CommandCode = 2
	CmdRequestHostUI    CommandCode = 3
	CmdSiri             CommandCode = 5
	CmdMic              CommandCode = 7
	CmdFrame            CommandCode = 12
	CmdBoxMic           CommandCode = 15
	CmdEnableNightMode  CommandCode = 16
	CmdDisableNightMode CommandCode = 17
	CmdAudioTransferOn  CommandCode = 22
	CmdAudioTransferOff CommandCode = 23
	CmdWifi24GHz        CommandCode = 24
	CmdWifi5GHz         CommandCode = 25

	// Hardware buttons
	CmdLeft       CommandCode = 100
	CmdRight      CommandCode = 101
	CmdSelectDown CommandCode = 104
	CmdSelectUp   CommandCode = 105
	CmdBack       CommandCode = 106
	CmdUp         CommandCode = 113
	CmdDown       CommandCode = 114

	// Media transport
	CmdHome        CommandCode = 200
	CmdPlay        CommandCode = 201
	CmdPause       CommandCode = 202
	CmdPlayOrPause CommandCode = 203
	CmdNext        CommandCode = 204
	CmdPrev        CommandCode = 205

	// Phone call buttons
	CmdAcceptPhone CommandCode = 300
	CmdRejectPhone CommandCode = 301

	// Video/navigation focus
	CmdRequestVideoFocus CommandCode = 500
	CmdReleaseVideoFocus CommandCode = 501
	CmdRequestNaviFocus  CommandCode = 506
	CmdReleaseNaviFocus  CommandCode = 507
	CmdRequestAudioFocus CommandCode = 508
	CmdReleaseAudioFocus CommandCode = 509

	// Wifi/bluetooth lifecycle
	CmdWifiEnable            CommandCode = 1000
	CmdAutoConnectEnable     CommandCode = 1001
	CmdWifiConnect           CommandCode = 1002
	CmdScanningDevice        CommandCode = 1003
	CmdDeviceFound           CommandCode = 1004
	CmdDeviceNotFound        CommandCode = 1005
	CmdConnectDeviceFailed   CommandCode = 1006
	CmdBluetoothConnected    CommandCode = 1007
	CmdBluetoothDisconnected CommandCode = 1008
	CmdWifiConnected         CommandCode = 1009
	CmdWifiDisconnected      CommandCode = 1010
	CmdBluetoothPairStart    CommandCode = 1011
	CmdWifiPair              CommandCode = 1012
)

var commandNames = map[CommandCode]string{
	CmdInvalid:               "invalid",
	CmdStartRecordAudio:      "startRecordAudio",
	CmdStopRecordAudio:       "stopRecordAudio",
	CmdRequestHostUI:         "requestHostUI",
	CmdSiri:                  "siri",
	CmdMic:                   "mic",
	CmdFrame:                 "frame",
	CmdBoxMic:                "boxMic",
	CmdEnableNightMode:       "enableNightMode",
	CmdDisableNightMode:      "disableNightMode",
	CmdAudioTransferOn:       "audioTransferOn",
	CmdAudioTransferOff:      "audioTransferOff",
	CmdWifi24GHz:             "wifi24GHz",
	CmdWifi5GHz:              "wifi5GHz",
	CmdLeft:                  "left",
	CmdRight:                 "right",
	CmdSelectDown:            "selectDown",
	CmdSelectUp:              "selectUp",
	CmdBack:                  "back",
	CmdUp:                    "up",
	CmdDown:                  "down",
	CmdHome:                  "home",
	CmdPlay:                  "play",
	CmdPause:                 "pause",
	CmdPlayOrPause:           "playOrPause",
	CmdNext:                  "next",
	CmdPrev:                  "prev",
	CmdAcceptPhone:           "acceptPhone",
	CmdRejectPhone:           "rejectPhone",
	CmdRequestVideoFocus:     "requestVideoFocus",
	CmdReleaseVideoFocus:     "releaseVideoFocus",
	CmdRequestNaviFocus:      "requestNaviFocus",
	CmdReleaseNaviFocus:      "releaseNaviFocus",
	CmdRequestAudioFocus:     "requestAudioFocus",
	CmdReleaseAudioFocus:     "releaseAudioFocus",
	CmdWifiEnable:            "wifiEnable",
	CmdAutoConnectEnable:     "autoConnectEnable",
	CmdWifiConnect:           "wifiConnect",
	CmdScanningDevice:        "scanningDevice",
	CmdDeviceFound:           "deviceFound",
	CmdDeviceNotFound:        "deviceNotFound",
	CmdConnectDeviceFailed:   "connectDeviceFailed",
	CmdBluetoothConnected:    "bluetoothConnected",
	CmdBluetoothDisconnected: "bluetoothDisconnected",
	CmdWifiConnected:         "wifiConnected",
	CmdWifiDisconnected:      "wifiDisconnected",
	CmdBluetoothPairStart:    "bluetoothPairStart",
	CmdWifiPair:              "wifiPair",
}

// String returns a human-readable name for the command code.
func (c CommandCode) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(c))
}

// LookupCommand resolves a command by its wire name, for CLI use.
// The second return is false when the name is not in the table.
func LookupCommand(name string) (CommandCode, bool) {
	for code, n := range commandNames {
		if n == name {
			return code, true
		}
	}
	return CmdInvalid, false
}
