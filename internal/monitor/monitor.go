package monitor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

// Frame is one decoded frame delivered to the dashboard. A non-nil Err
// marks the end of the stream; Header and Message are nil in that case.
type Frame struct {
	Header  *protocol.Header
	Message protocol.Message
	Err     error
}

// Run displays the live dashboard until the user quits, the frame
// channel closes, or ctx is cancelled.
func Run(ctx context.Context, portName string, frames <-chan Frame) error {
	m := NewDashboardModel(portName, frames)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
