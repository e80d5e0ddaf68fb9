package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// odtBodyPath is the part inside a .odt zip container holding the
// document body (OpenDocument Format).
const odtBodyPath = "content.xml"

// NewOdt registers an importer for OpenDocument Text's zip-packaged
// format, the ODF counterpart to NewDocx. Paragraphs ("text:p") and
// inline spans ("text:span") become span annotations; their character
// data contributes corpus text.
func NewOdt() registry.Function {
	return registry.Function{
		ID:          "odt_import:parse",
		Role:        registry.RoleImporter,
		Description: "Imports an .odt source file's paragraph and span structure",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{
				registry.AnnotationAllFiles("odt_import.*"),
			},
		},
		Run: func(rc *registry.RunContext) error {
			part, err := readZipPart(rc.SourcePath, odtBodyPath)
			if err != nil {
				return fmt.Errorf("importing %s: %w", rc.SourcePath, err)
			}

			result, err := parseOpenDocumentText(part)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", rc.SourcePath, err)
			}

			return publishXML(rc.WorkDir, "odt_import", "utf-8", result)
		},
	}
}

// parseOpenDocumentText walks content.xml, turning each "p" and "span"
// element (local name, ignoring the "text:" namespace prefix resolved
// by encoding/xml) into a span annotation; every other element's
// character data still contributes to corpus text so untagged body
// content is not silently dropped.
func parseOpenDocumentText(doc []byte) (*xmlParseResult, error) {
	dec := xml.NewDecoder(strings.NewReader(string(doc)))

	result := &xmlParseResult{
		elements: map[string]*elementAccumulator{},
		header:   map[string]string{},
	}

	var stack []openElem

	inBody := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("decoding token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := sanitizeTagPart(t.Name.Local)

			if local == "body" {
				inBody = true
			}

			if !inBody {
				continue
			}

			if local != "p" && local != "span" {
				continue
			}

			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[qualifiedName(a.Name)] = a.Value
			}

			stack = append(stack, openElem{qname: local, start: uint64(result.text.Len()), attrs: attrs})

			if _, ok := result.elements[local]; !ok {
				result.elements[local] = newElementAccumulator()
				result.order = append(result.order, local)
			}
		case xml.EndElement:
			local := sanitizeTagPart(t.Name.Local)

			if local == "body" {
				inBody = false
				continue
			}

			if local != "p" && local != "span" {
				continue
			}

			if len(stack) == 0 {
				continue
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			end := uint64(result.text.Len())
			result.elements[open.qname].add(storage.Span{Start: open.start, End: end}, open.attrs)
		case xml.CharData:
			if inBody {
				result.text.Write(t)
			}
		}
	}

	return result, nil
}
