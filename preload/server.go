package preload

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/spraakbanken/sparv/config"
	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// Server is the long-lived preload process of spec.md section 4.8: it
// warms a configured set of annotators via their [registry.PreloadFunc]
// and serves execute requests for them over a Unix domain socket.
type Server struct {
	reg    *registry.Registry
	cfg    *config.Config
	log    *slog.Logger
	mu     sync.Mutex
	handle map[string]any // rule id -> warm handle returned by Preload
	fp     map[string]Fingerprint
}

// NewServer warms every annotator named in cf against reg, using cfg for
// any configuration its Preload hook needs.
func NewServer(reg *registry.Registry, cfg *config.Config, cf ControlFile, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{reg: reg, cfg: cfg, log: log, handle: map[string]any{}, fp: map[string]Fingerprint{}}

	for _, spec := range cf.Annotators {
		fn, ok := reg.Lookup(spec.RuleID)
		if !ok {
			return nil, fmt.Errorf("preload: unknown rule %q in control file", spec.RuleID)
		}

		if fn.Preload == nil {
			return nil, fmt.Errorf("preload: rule %q declares no preload hook", spec.RuleID)
		}

		handle, err := fn.Preload(cfg)
		if err != nil {
			return nil, fmt.Errorf("preload: warming %q: %w", spec.RuleID, err)
		}

		s.handle[spec.RuleID] = handle
		s.fp[spec.RuleID] = Fingerprint{
			RuleID:     spec.RuleID,
			ModelFiles: modelFilesOf(fn),
			Params:     spec.Params,
		}

		log.Info("preload: warmed annotator", "rule", spec.RuleID)
	}

	return s, nil
}

func modelFilesOf(fn registry.Function) []string {
	var out []string

	for _, d := range fn.Signature.Inputs {
		if d.Kind == registry.KindModel {
			out = append(out, d.Identifier)
		}
	}

	return out
}

// Serve listens on socketPath and handles connections until the listener
// is closed or an unrecoverable accept error occurs. Removes a stale
// socket file at socketPath before listening, mirroring the usual
// Unix-socket server idiom.
func (s *Server) Serve(socketPath string) error {
	_ = os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("preload: listening on %s: %w", socketPath, err)
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("preload: accept: %w", err)
		}

		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	fpFrame, err := readFrame(conn)
	if err != nil || fpFrame.Kind != "fingerprint" || fpFrame.Fingerprint == nil {
		return
	}

	want := *fpFrame.Fingerprint

	s.mu.Lock()
	actual, known := s.fp[want.RuleID]
	s.mu.Unlock()

	match := known && actual.Equal(want)

	ackFP := actual

	if err := writeFrame(conn, frame{Kind: "fingerprint", Fingerprint: &ackFP}); err != nil {
		return
	}

	if !match {
		return
	}

	reqFrame, err := readFrame(conn)
	if err != nil || reqFrame.Kind != "request" || reqFrame.Request == nil {
		return
	}

	req := *reqFrame.Request

	resp := s.execute(req)

	_ = writeFrame(conn, frame{Kind: "response", Response: &resp})
}

func (s *Server) execute(req Request) Response {
	fn, ok := s.reg.Lookup(req.RuleID)
	if !ok {
		return Response{OK: false, Error: fmt.Sprintf("unknown rule %q", req.RuleID)}
	}

	var wd *storage.WorkDir
	if req.WorkDir != "" {
		wd = storage.NewWorkDir(req.WorkDir, nil)
	}

	rc := &registry.RunContext{
		WorkDir:    wd,
		SourceFile: req.SourceFile,
		Params:     req.Params,
		Wildcards:  req.Wildcards,
		Config:     s.cfg,
	}

	if err := fn.Run(rc); err != nil {
		return Response{OK: false, Error: err.Error()}
	}

	return Response{OK: true}
}
