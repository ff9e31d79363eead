// Package config manages the persisted configuration for the capture tool.
//
// Configuration lives in a single YAML file under the platform config
// directory (~/.config/pi-carplay/config.yaml on Linux). It covers:
//
//   - Serial link: port path, baud rate, heartbeat interval
//   - Display: projection geometry negotiated with the dongle at open
//   - Monitor: websocket stream listen address
//   - Box settings: free-form key/value map forwarded to the dongle
//
// Loading is lazy and thread-safe; saving is atomic (temp file +
// rename). A missing file yields defaults, so first runs need no setup.
package config
