package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Undefined is the sentinel attribute value meaning "no value" (spec.md
// section 3: "reserved sentinel for undefined"), serialized as an empty
// line (spec.md section 4.7).
const Undefined = ""

// ErrEmbeddedNewline is returned when a value contains a raw newline but
// the annotation was not opened with AllowEmbeddedNewlines.
var ErrEmbeddedNewline = errors.New("attribute value contains an embedded newline")

const (
	escapedBackslash = `\\`
	escapedNewline   = `\n`
)

// EncodeAttributeValues writes one value per line to w, terminating every
// line -- including the last -- with '\n'. The trailing terminator after the
// final value is what lets a single undefined value ("") round-trip as one
// value rather than collapsing into the same zero-byte file as zero values:
// without it, a lone empty value and an empty attribute are bit-identical.
// If allowEmbeddedNewlines is false, any raw '\n' or '\r' inside a value is
// an error. If true, backslashes and newlines in the value are escaped so
// the line-per-value framing survives, and DecodeAttributeValues must be
// called with the same flag to unescape them.
func EncodeAttributeValues(w io.Writer, values []string, allowEmbeddedNewlines bool) error {
	bw := bufio.NewWriter(w)

	for i, v := range values {
		if allowEmbeddedNewlines {
			v = strings.ReplaceAll(v, `\`, escapedBackslash)
			v = strings.ReplaceAll(v, "\n", escapedNewline)
			v = strings.ReplaceAll(v, "\r", `\r`)
		} else if strings.ContainsAny(v, "\n\r") {
			return fmt.Errorf("%w: value %d", ErrEmbeddedNewline, i)
		}

		if _, err := bw.WriteString(v); err != nil {
			return err
		}

		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// DecodeAttributeValues reads one value per line from r, reversing
// EncodeAttributeValues's every-line-terminated framing. An empty file
// means zero values; any non-empty file always ends in the terminator
// EncodeAttributeValues appended after its last value, so the final
// element produced by splitting on '\n' is dropped rather than kept as a
// value. If allowEmbeddedNewlines is true, values are unescaped per
// EncodeAttributeValues's convention.
func DecodeAttributeValues(r io.Reader, allowEmbeddedNewlines bool) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading attribute file: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	lines := strings.Split(string(data), "\n")
	lines = lines[:len(lines)-1]

	values := make([]string, len(lines))

	for i, line := range lines {
		if allowEmbeddedNewlines {
			line = strings.ReplaceAll(line, `\r`, "\r")
			line = strings.ReplaceAll(line, escapedNewline, "\n")
			line = strings.ReplaceAll(line, escapedBackslash, `\`)
		}

		values[i] = line
	}

	return values, nil
}

// EncodeSetValue encodes a multi-valued attribute per spec.md section 3:
// values are wrapped between affix on both ends and separated internally
// by delim, e.g. affix='|' delim='|' -> "|a|b|c|". An empty set encodes as
// the empty string.
func EncodeSetValue(values []string, affix, delim byte) string {
	if len(values) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteByte(affix)

	for i, v := range values {
		if i > 0 {
			sb.WriteByte(delim)
		}

		sb.WriteString(v)
	}

	sb.WriteByte(affix)

	return sb.String()
}

// DecodeSetValue reverses EncodeSetValue.
func DecodeSetValue(s string, affix, delim byte) []string {
	if s == "" {
		return nil
	}

	trimmed := strings.TrimPrefix(s, string(affix))
	trimmed = strings.TrimSuffix(trimmed, string(affix))

	return strings.Split(trimmed, string(delim))
}
