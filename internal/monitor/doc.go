// Package monitor implements the live capture dashboard.
//
// The dashboard is a full-screen Bubble Tea program that consumes
// decoded frames from a channel and presents a continuously updated
// view of the link: per-type frame counters, the connected phone and
// its session phase, the now-playing metadata, and firmware update
// progress. It follows the Elm architecture with immutable state
// updates and a single Model-Update-View loop.
//
// # Frame Delivery
//
// The capture pipeline pushes decoded frames into a channel of
// monitor.Frame values; the dashboard blocks on that channel between
// renders using a tea.Cmd, so frame delivery never races with model
// updates. Closing the channel (or sending a Frame with Err set)
// transitions the link section to the closed state.
//
// # Framework Components
//
//   - bubbles/spinner: waiting indicator before the first frame
//   - bubbles/key + bubbles/help: key bindings and the footer help line
//   - lipgloss: styling and the shared application container
//   - x/term: initial terminal sizing before the first WindowSizeMsg
//
// # Key Bindings
//
//   - r: reset frame counters
//   - ?: toggle expanded help
//   - q / ctrl+c: quit
package monitor
