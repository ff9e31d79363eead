// Package transport manages the USB-serial link to the dongle.
//
// The link owns frame reassembly: it reads exactly one 16-byte header,
// validates it, then reads the announced payload in full before handing
// both to the caller. The protocol layer therefore never sees partial
// buffers. Outbound frames are written as-is.
//
// A header that fails validation (bad magic or type check) is treated
// as stream desynchronization and tears down the run loop; the embedder
// decides whether to reopen the port.
package transport
