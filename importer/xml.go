package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/spraakbanken/sparv/registry"
	"github.com/spraakbanken/sparv/storage"
)

// StructureKey is the data annotation holding the source-structure
// record: one line per annotation identifier the importer created,
// sorted (spec.md section 4.3, "Importer": "writes a source-structure
// record listing every annotation it creates from the source").
const StructureKey = "@structure"

// HeaderPrefix namespaces header-metadata data annotations extracted
// from a designated header element, per SPEC_FULL.md's XML-importer
// supplement.
const HeaderPrefix = "xml_import.header"

var invalidTagChars = regexp.MustCompile(`[^a-z0-9_.-]+`)

// sanitizeTagPart lowercases and strips characters outside the accepted
// annotation charset (annotation.ValidateName) from one tag-name or
// namespace segment.
func sanitizeTagPart(s string) string {
	s = strings.ToLower(s)
	s = invalidTagChars.ReplaceAllString(s, "_")

	return strings.Trim(s, "_")
}

// qualifiedName renders an xml.Name per the "<prefix>+<local>" encoding:
// the resolved namespace URI stands in for "prefix" since encoding/xml
// does not preserve the source document's declared prefix strings, only
// resolved URIs.
func qualifiedName(n xml.Name) string {
	local := sanitizeTagPart(n.Local)
	if n.Space == "" {
		return local
	}

	return sanitizeTagPart(n.Space) + "+" + local
}

// elementAccumulator collects every occurrence of one XML element (by
// tag name, namespace-qualified) into a span plus one attribute value
// vector per distinct attribute name seen across occurrences.
type elementAccumulator struct {
	spans []storage.Span
	attrs map[string][]string // attrName -> one value per occurrence so far
	seen  int
}

func newElementAccumulator() *elementAccumulator {
	return &elementAccumulator{attrs: map[string][]string{}}
}

func (a *elementAccumulator) add(span storage.Span, attrValues map[string]string) {
	for name := range attrValues {
		if _, ok := a.attrs[name]; !ok {
			values := make([]string, a.seen)
			for i := range values {
				values[i] = storage.Undefined
			}

			a.attrs[name] = values
		}
	}

	for name, values := range a.attrs {
		v, ok := attrValues[name]
		if !ok {
			v = storage.Undefined
		}

		a.attrs[name] = append(values, v)
	}

	a.spans = append(a.spans, span)
	a.seen++
}

// XMLOptions configures one registered XML importer instance.
type XMLOptions struct {
	// Namespace is the module namespace every span/attribute annotation
	// is created under, e.g. "xml_import" produces "xml_import.<tag>".
	Namespace string
	// HeaderElement, if non-empty, names the top-level element (by
	// local tag name) whose descendant text content is extracted as
	// corpus-level header metadata data annotations instead of corpus
	// text, and excluded from the corpus text itself.
	HeaderElement string
}

// NewXML registers an XML importer per opts. Grounded on magicschema's
// visit-and-accumulate walk (magicschema/infer.go's walkNode), adapted
// from a YAML-node walk to an encoding/xml token-stream walk; the
// corpus text is every character-data token outside HeaderElement,
// concatenated in document order, and one span+attribute-vector
// annotation is produced per distinct element tag name encountered.
func NewXML(opts XMLOptions) registry.Function {
	ns := opts.Namespace
	if ns == "" {
		ns = "xml_import"
	}

	return registry.Function{
		ID:          ns + ":parse",
		Role:        registry.RoleImporter,
		Description: "Imports a well-formed XML source file, one annotation per element tag name",
		Signature: registry.Signature{
			Outputs: []registry.Descriptor{
				registry.AnnotationAllFiles(ns + ".*"),
			},
		},
		Run: func(rc *registry.RunContext) error {
			raw, encoding, err := readSourceFile(rc.SourcePath)
			if err != nil {
				return err
			}

			doc := normalizeToUTF8(raw, encoding)

			result, err := parseXML(doc, sanitizeTagPart(opts.HeaderElement))
			if err != nil {
				return fmt.Errorf("parsing %s: %w", rc.SourcePath, err)
			}

			return publishXML(rc.WorkDir, ns, encoding, result)
		},
	}
}

type xmlParseResult struct {
	text     strings.Builder
	elements map[string]*elementAccumulator // qualified tag name -> accumulator
	order    []string                       // first-seen order of elements, for determinism
	header   map[string]string
}

type openElem struct {
	qname string
	start uint64
	attrs map[string]string
}

// parseXML walks doc's token stream once, building corpus text and one
// elementAccumulator per qualified tag name. Elements nested inside
// headerLocal (if set) contribute to header metadata instead of corpus
// text and are not themselves turned into span annotations.
func parseXML(doc, headerLocal string) (*xmlParseResult, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))

	result := &xmlParseResult{
		elements: map[string]*elementAccumulator{},
		header:   map[string]string{},
	}

	var stack []openElem

	headerDepth := 0
	var headerText strings.Builder

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
			qname := qualifiedName(t.Name)
			local := sanitizeTagPart(t.Name.Local)

			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[qualifiedName(a.Name)] = a.Value
			}

			stack = append(stack, openElem{qname: qname, start: uint64(result.text.Len()), attrs: attrs})

			if headerLocal != "" && local == headerLocal {
				headerDepth++
			}

			if headerDepth == 0 {
				if _, ok := result.elements[qname]; !ok {
					result.elements[qname] = newElementAccumulator()
					result.order = append(result.order, qname)
				}
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %q", t.Name.Local)
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			local := sanitizeTagPart(t.Name.Local)

			if headerDepth > 0 {
				if headerLocal != "" && local == headerLocal {
					result.header[open.qname] = strings.TrimSpace(headerText.String())
					headerText.Reset()
					headerDepth--
				}

				continue
			}

			end := uint64(result.text.Len())
			result.elements[open.qname].add(storage.Span{Start: open.start, End: end}, open.attrs)
		case xml.CharData:
			if headerDepth > 0 {
				headerText.Write(t)
			} else {
				result.text.Write(t)
			}
		}
	}

	return result, nil
}

// publishXML writes corpus text, per-element span/attribute
// annotations, header data annotations, and the source-structure
// record for one parsed document.
func publishXML(wd *storage.WorkDir, ns, encoding string, result *xmlParseResult) error {
	if err := WriteText(wd, result.text.String()); err != nil {
		return err
	}

	if err := wd.WriteData(EncodingKey, []byte(encoding)); err != nil {
		return err
	}

	var structure []string

	for _, qname := range result.order {
		acc := result.elements[qname]
		spanName := ns + "." + qname

		if err := wd.WriteSpans(spanName, acc.spans); err != nil {
			return err
		}

		structure = append(structure, spanName)

		attrNames := make([]string, 0, len(acc.attrs))
		for attrName := range acc.attrs {
			attrNames = append(attrNames, attrName)
		}

		sort.Strings(attrNames)

		for _, attrName := range attrNames {
			values := acc.attrs[attrName]
			for len(values) < acc.seen {
				values = append(values, storage.Undefined)
			}

			if err := wd.WriteAttribute(spanName, attrName, values, storage.AttributeOptions{}); err != nil {
				return err
			}

			structure = append(structure, spanName+":"+attrName)
		}
	}

	headerNames := make([]string, 0, len(result.header))
	for name := range result.header {
		headerNames = append(headerNames, name)
	}

	sort.Strings(headerNames)

	for _, name := range headerNames {
		key := HeaderPrefix + "." + name
		if err := wd.WriteData(key, []byte(result.header[name])); err != nil {
			return err
		}

		structure = append(structure, key)
	}

	sort.Strings(structure)

	return wd.WriteData(StructureKey, []byte(strings.Join(structure, "\n")))
}
