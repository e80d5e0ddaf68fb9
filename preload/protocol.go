package preload

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Fingerprint identifies one warmed annotator instance: its rule id, the
// model files it loaded, and the parameter map it was started with
// (spec.md section 4.8: "exchanged at connect time; mismatch causes the
// client to fall back unless forced").
type Fingerprint struct {
	RuleID     string         `json:"rule_id"`
	ModelFiles []string       `json:"model_files"`
	Params     map[string]any `json:"params"`
}

// Equal reports whether two fingerprints describe the same warm instance.
func (f Fingerprint) Equal(o Fingerprint) bool {
	if f.RuleID != o.RuleID || len(f.ModelFiles) != len(o.ModelFiles) || len(f.Params) != len(o.Params) {
		return false
	}

	for i, m := range f.ModelFiles {
		if o.ModelFiles[i] != m {
			return false
		}
	}

	for k, v := range f.Params {
		ov, ok := o.Params[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(ov) {
			return false
		}
	}

	return true
}

// Request is one execute request sent to a warmed annotator: the rule id,
// resolved parameters, and the per-file context (source file name and
// work directory root) the warm instance needs to read/write.
type Request struct {
	RuleID     string         `json:"rule_id"`
	Params     map[string]any `json:"params"`
	SourceFile string         `json:"source_file"`
	WorkDir    string         `json:"work_dir"`
	Wildcards  map[string]string `json:"wildcards,omitempty"`
}

// LogEvent is one streamed log line from a running request, emitted
// before the final Response (spec.md section 4.8: "responses stream log
// events followed by a final success/failure code").
type LogEvent struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Response is the final outcome of one Request.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// frame is the envelope written over the wire: exactly one of its payload
// fields is set, discriminated by Kind.
type frame struct {
	Kind        string       `json:"kind"` // "fingerprint", "request", "log", "response"
	Fingerprint *Fingerprint `json:"fingerprint,omitempty"`
	Request     *Request     `json:"request,omitempty"`
	Log         *LogEvent    `json:"log,omitempty"`
	Response    *Response    `json:"response,omitempty"`
}

// writeFrame writes one length-prefixed JSON frame to w.
func writeFrame(w io.Writer, f frame) error {
	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("preload: encoding frame: %w", err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("preload: writing frame length: %w", err)
	}

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("preload: writing frame body: %w", err)
	}

	return nil
}

// readFrame reads one length-prefixed JSON frame from r.
func readFrame(r io.Reader) (frame, error) {
	var lenBuf [4]byte

	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return frame{}, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return frame{}, fmt.Errorf("preload: reading frame body: %w", err)
	}

	var f frame
	if err := json.Unmarshal(body, &f); err != nil {
		return frame{}, fmt.Errorf("preload: decoding frame: %w", err)
	}

	return f, nil
}
