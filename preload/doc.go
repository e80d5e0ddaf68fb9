// Package preload implements the long-lived warm-annotator process of
// spec.md section 4.8: a server reads a YAML control file naming
// annotators to keep warm, listens on a local Unix domain socket, and
// serves length-prefixed execute requests; a client dials the same
// socket, exchanges a fingerprint, and falls back to the caller running
// the task inline when the fingerprint mismatches (unless forced).
//
// The wire framing (4-byte big-endian length prefix, JSON body) is
// stdlib-only (encoding/binary + encoding/json): no example repo in the
// retrieved corpus carries a length-prefixed RPC or framing library, and
// adopting one such as net/rpc or grpc would be heavier than this
// socket's actual contract -- see DESIGN.md.
package preload
