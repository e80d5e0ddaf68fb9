package preload

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spraakbanken/sparv/registry"
)

// ErrFingerprintMismatch is returned by [Client.TryDispatch] when Force is
// set and the warm instance's fingerprint does not match what the caller
// expected. Without Force, a mismatch is reported as handled=false with a
// nil error, and the caller falls back to inline execution.
var ErrFingerprintMismatch = errors.New("preload: fingerprint mismatch")

// Client dials a preload socket and dispatches execute requests to it,
// implementing [scheduler.Preloader].
type Client struct {
	SocketPath string
	ModelDir   string
	DialTimeout time.Duration
	// Force makes a connect failure or fingerprint mismatch an error
	// instead of a fallback signal. The client does not wait for or retry
	// a connection in either mode.
	Force bool
}

// TryDispatch attempts to run fn through the preload socket. It returns
// handled=false (with a nil error) whenever the caller should fall back
// to running fn.Run(rc) inline: the socket is unreachable, or the warm
// instance's fingerprint does not match -- unless c.Force is set, in
// which case those conditions are returned as an error instead of a
// silent fallback.
func (c *Client) TryDispatch(fn registry.Function, rc *registry.RunContext) (bool, error) {
	if c.SocketPath == "" {
		return false, nil
	}

	conn, err := net.DialTimeout("unix", c.SocketPath, dialTimeout(c.DialTimeout))
	if err != nil {
		if c.Force {
			return false, fmt.Errorf("preload: dialing %s: %w", c.SocketPath, err)
		}

		return false, nil
	}
	defer conn.Close()

	want := Fingerprint{
		RuleID:     fn.ID,
		ModelFiles: modelFilesOf(fn),
		Params:     rc.Params,
	}

	if err := writeFrame(conn, frame{Kind: "fingerprint", Fingerprint: &want}); err != nil {
		return false, err
	}

	ackFrame, err := readFrame(conn)
	if err != nil {
		if c.Force {
			return false, err
		}

		return false, nil
	}

	if ackFrame.Kind != "fingerprint" || ackFrame.Fingerprint == nil || !ackFrame.Fingerprint.Equal(want) {
		if c.Force {
			return false, ErrFingerprintMismatch
		}

		return false, nil
	}

	workDir := ""
	if rc.WorkDir != nil {
		workDir = rc.WorkDir.Root
	}

	req := Request{
		RuleID:     fn.ID,
		Params:     rc.Params,
		SourceFile: rc.SourceFile,
		WorkDir:    workDir,
		Wildcards:  rc.Wildcards,
	}

	if err := writeFrame(conn, frame{Kind: "request", Request: &req}); err != nil {
		return false, err
	}

	for {
		respFrame, err := readFrame(conn)
		if err != nil {
			return false, fmt.Errorf("preload: reading response: %w", err)
		}

		switch respFrame.Kind {
		case "log":
			continue
		case "response":
			if respFrame.Response == nil || respFrame.Response.OK {
				return true, nil
			}

			return true, errors.New(respFrame.Response.Error)
		default:
			return false, fmt.Errorf("preload: unexpected frame kind %q", respFrame.Kind)
		}
	}
}

func dialTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 2 * time.Second
	}

	return d
}
