package protocol

import "fmt"

// UpdateStatus is the classification of a raw firmware update status
// code. Terminal is true exactly for the success/failure codes; OK is
// meaningful only when Terminal is true.
type UpdateStatus struct {
	Text     string
	IsOTA    bool
	Terminal bool
	OK       bool
}

func (s UpdateStatus) String() string {
	return fmt.Sprintf("UpdateStatus{%q, ota=%v, terminal=%v, ok=%v}",
		s.Text, s.IsOTA, s.Terminal, s.OK)
}

// ClassifyUpdateStatus maps a raw update status code to its meaning.
//
//	1 update start          5 ota update start
//	2 update success        6 ota update success
//	3 update failed         7 ota update failed
//
// Codes outside the table classify as unknown, non-terminal, non-OTA.
func ClassifyUpdateStatus(code int32) UpdateStatus {
	switch code {
	case 1:
		return UpdateStatus{Text: "update start"}
	case 2:
		return UpdateStatus{Text: "update success", Terminal: true, OK: true}
	case 3:
		return UpdateStatus{Text: "update failed", Terminal: true}
	case 5:
		return UpdateStatus{Text: "ota update start", IsOTA: true}
	case 6:
		return UpdateStatus{Text: "ota update success", IsOTA: true, Terminal: true, OK: true}
	case 7:
		return UpdateStatus{Text: "ota update failed", IsOTA: true, Terminal: true}
	default:
		return UpdateStatus{Text: fmt.Sprintf("unknown(%d)", code)}
	}
}
