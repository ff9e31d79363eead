// Package server streams decoded protocol messages to monitoring
// clients over websocket.
//
// Each decoded frame is broadcast as one JSON envelope carrying the
// type code, its name, the payload length and a one-line summary.
// Raw payload bytes are never forwarded; at 20 video frames a second
// the stream would be unusable.
//
// The server is read-only for clients and carries no protocol state;
// a client attaching mid-session simply starts seeing frames from that
// point on.
package server
