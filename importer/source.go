package importer

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf16"
	"unicode/utf8"
)

// readSourceFile reads the raw bytes of a source file and reports the
// encoding it detected: "utf-8-bom", "utf-16le", "utf-16be", or "utf-8"
// as the fallback (spec.md section 6 leaves encoding detection to the
// importer; Sparv's own importers sniff a BOM and otherwise assume
// UTF-8/the configured encoding).
func readSourceFile(path string) ([]byte, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading source file %s: %w", path, err)
	}

	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return raw[3:], "utf-8-bom", nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return raw[2:], "utf-16le", nil
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return raw[2:], "utf-16be", nil
	default:
		return raw, "utf-8", nil
	}
}

// normalizeToUTF8 converts raw bytes of the given detected encoding into
// a UTF-8 string, replacing any invalid sequence with utf8.RuneError
// rather than failing the import.
func normalizeToUTF8(raw []byte, encoding string) string {
	switch encoding {
	case "utf-16le":
		return decodeUTF16(raw, false)
	case "utf-16be":
		return decodeUTF16(raw, true)
	default:
		if utf8.Valid(raw) {
			return string(raw)
		}

		return string(bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError))))
	}
}

func decodeUTF16(raw []byte, bigEndian bool) string {
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}

	units := make([]uint16, len(raw)/2)

	for i := range units {
		if bigEndian {
			units[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
		} else {
			units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
		}
	}

	return string(utf16.Decode(units))
}
