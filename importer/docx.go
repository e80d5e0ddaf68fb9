package importer

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// docxBodyPath is the part inside a .docx zip container holding the
// document body (OOXML WordprocessingML).
const docxBodyPath = "word/document.xml"

// NewDocx registers an importer for Microsoft Word's zip-packaged OOXML
// format, per SPEC_FULL.md's supplement to spec.md section 6 ("Source
// file formats" lists xml and plain text; docx/odt are the two
// container formats every production Sparv corpus set also needs).
// Grounded on the same token-stream walk as xml.go, run over the single
// "word/document.xml" part; paragraphs (<w:p>) and runs (<w:r>) become
// span annotations, text nodes (<w:t>) contribute corpus text.
func NewDocx() registry.Function {
	return registry.Function{
		ID:          "docx_import:parse",
		Role:        registry.RoleImporter,
		Description: "Imports a .docx source file's paragraph and run structure",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{
				registry.AnnotationAllFiles("docx_import.*"),
			},
		},
		Run: func(rc *registry.RunContext) error {
			part, err := readZipPart(rc.SourcePath, docxBodyPath)
			if err != nil {
				return fmt.Errorf("importing %s: %w", rc.SourcePath, err)
			}

			result, err := parseWordprocessingML(part)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", rc.SourcePath, err)
			}

			return publishXML(rc.WorkDir, "docx_import", "utf-8", result)
		},
	}
}

// readZipPart opens path as a zip archive and returns the uncompressed
// bytes of the named part.
func readZipPart(path, partName string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip container: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != partName {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", partName, err)
		}
		defer rc.Close()

		return io.ReadAll(rc)
	}

	return nil, fmt.Errorf("part %s not found in container", partName)
}

// parseWordprocessingML walks word/document.xml, turning each <w:p>
// (paragraph) and <w:r> (run) element into a span annotation and each
// <w:t> (text run content) into corpus text.
func parseWordprocessingML(doc []byte) (*xmlParseResult, error) {
	dec := xml.NewDecoder(strings.NewReader(string(doc)))

	result := &xmlParseResult{
		elements: map[string]*elementAccumulator{},
		header:   map[string]string{},
	}

	var stack []openElem

	inText := false

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

			if local != "p" && local != "r" {
				if local == "t" {
					inText = true
				}

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

			if local == "t" {
				inText = false
				continue
			}

			if local != "p" && local != "r" {
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
			if inText {
				result.text.Write(t)
			}
		}
	}

	return result, nil
}
