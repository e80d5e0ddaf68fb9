package exporter

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// cwbMagic tags the fixed-record index format below; real CWB corpora
// use a family of on-disk formats (.corpus, .rng, .rev) this stands in
// for with a single simplified file, documented end-to-end rather than
// reverse-engineered from a binary sample.
const cwbMagic = "CWB1"

// CWBOptions configures one registered Corpus Workbench index instance.
type CWBOptions struct {
	TokenSpan  string
	ExportPath string
}

// NewCWB registers an exporter writing a minimal binary Corpus Workbench
// style token-offset index (spec.md section 1, "corpus workbench
// binaries"): a 4-byte magic, a uint32 record count, then each token
// span's start/end rune offsets as two little-endian uint32s. Grounded on
// the stdlib encoding/binary reader/writer; no CWB client library appears
// anywhere in the retrieved corpus (justified in DESIGN.md).
func NewCWB(opts CWBOptions) registry.Function {
	return registry.Function{
		ID:          "cwb_export:index",
		Role:        registry.RoleExporter,
		Description: "Writes a binary Corpus Workbench style token-offset index",
		Signature: registry.Signature{
			Inputs: []registry.Descriptor{
				registry.SourceFilename(),
				registry.Annotation(opts.TokenSpan),
			},
			Outputs: []registry.Descriptor{registry.Export(opts.ExportPath)},
		},
		Run: func(rc *registry.RunContext) error {
			spans, err := rc.WorkDir.ReadSpans(opts.TokenSpan)
			if err != nil {
				return fmt.Errorf("reading token spans: %w", err)
			}

			data, err := encodeCWB(spans)
			if err != nil {
				return err
			}

			path := expandTemplate(opts.ExportPath, rc.SourceFile, "")

			return writeExportFile(path, data)
		},
	}
}

func encodeCWB(spans []storage.Span) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(cwbMagic)

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(spans))); err != nil {
		return nil, err
	}

	for _, sp := range spans {
		if err := binary.Write(&buf, binary.LittleEndian, uint32(sp.Start)); err != nil {
			return nil, err
		}

		if err := binary.Write(&buf, binary.LittleEndian, uint32(sp.End)); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// decodeCWB is encodeCWB's inverse, used by the package's own tests to
// round-trip the format.
func decodeCWB(data []byte) ([]storage.Span, error) {
	if len(data) < len(cwbMagic)+4 || string(data[:len(cwbMagic)]) != cwbMagic {
		return nil, fmt.Errorf("cwb: bad magic")
	}

	r := bytes.NewReader(data[len(cwbMagic):])

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	spans := make([]storage.Span, count)

	for i := range spans {
		var start, end uint32

		if err := binary.Read(r, binary.LittleEndian, &start); err != nil {
			return nil, err
		}

		if err := binary.Read(r, binary.LittleEndian, &end); err != nil {
			return nil, err
		}

		spans[i] = storage.Span{Start: uint64(start), End: uint64(end)}
	}

	return spans, nil
}
