package registry

// Role classifies a registered Function, per spec.md section 4.3.
type Role int

const (
	RoleImporter Role = iota
	RoleAnnotator
	RoleExporter
	RoleInstaller
	RoleUninstaller
	RoleModelbuilder
)

func (r Role) String() string {
	switch r {
	case RoleImporter:
		return "importer"
	case RoleAnnotator:
		return "annotator"
	case RoleExporter:
		return "exporter"
	case RoleInstaller:
		return "installer"
	case RoleUninstaller:
		return "uninstaller"
	case RoleModelbuilder:
		return "modelbuilder"
	default:
		return "unknown"
	}
}

// DescriptorKind tags one entry of the table in spec.md section 4.3.
type DescriptorKind int

const (
	KindAnnotation DescriptorKind = iota
	KindAnnotationAllFiles
	KindOutput
	KindData
	KindMarker
	KindModel
	KindModelOutput
	KindBinary
	KindBinaryDir
	KindConfig
	KindLanguage
	KindCorpus
	KindSourceFilename
	KindAllSourceFilenames
	KindText
	KindSource
	KindExportAnnotations
	KindSourceAnnotations
	KindHeaderAnnotations
	KindWildcard
	KindExport
	KindExportInput
)

// Descriptor is one typed input or output in a Function's Signature. Only
// the fields relevant to Kind are meaningful; see spec.md section 4.3.
type Descriptor struct {
	Kind DescriptorKind
	// Identifier is the literal annotation/config/model/export path
	// template, possibly containing "{wildcard}" placeholders.
	Identifier string
	// Class is the optional class tag this descriptor is bound under
	// (e.g. "token", "sentence").
	Class string
	// Description documents the descriptor for `sparv modules`/`sparv
	// config` output.
	Description string
	// AllFiles marks a KindAnnotation descriptor as spanning every
	// source file (KindAnnotationAllFiles is a convenience alias set by
	// the AnnotationAllFiles constructor).
	AllFiles bool
	// CorpusScoped marks a KindData/KindMarker descriptor as
	// corpus-level rather than per-file.
	CorpusScoped bool
}

// Constructors build a Descriptor of a specific kind; callers almost
// always use these rather than struct literals, mirroring the
// Annotation/Output/Data helpers spec.md section 4.3 implies.

func Annotation(identifier string) Descriptor {
	return Descriptor{Kind: KindAnnotation, Identifier: identifier}
}

func AnnotationAllFiles(identifier string) Descriptor {
	return Descriptor{Kind: KindAnnotationAllFiles, Identifier: identifier, AllFiles: true}
}

func Output(identifier string, class string) Descriptor {
	return Descriptor{Kind: KindOutput, Identifier: identifier, Class: class}
}

func Data(name string, corpusScoped bool) Descriptor {
	return Descriptor{Kind: KindData, Identifier: name, CorpusScoped: corpusScoped}
}

func Marker(name string, corpusScoped bool) Descriptor {
	return Descriptor{Kind: KindMarker, Identifier: name, CorpusScoped: corpusScoped}
}

func Model(path string) Descriptor      { return Descriptor{Kind: KindModel, Identifier: path} }
func ModelOutput(path string) Descriptor { return Descriptor{Kind: KindModelOutput, Identifier: path} }
func Binary(name string) Descriptor     { return Descriptor{Kind: KindBinary, Identifier: name} }
func BinaryDir(name string) Descriptor  { return Descriptor{Kind: KindBinaryDir, Identifier: name} }
func Config(path string) Descriptor     { return Descriptor{Kind: KindConfig, Identifier: path} }
func Wildcard(name string) Descriptor   { return Descriptor{Kind: KindWildcard, Identifier: name} }
func Export(pathTemplate string) Descriptor {
	return Descriptor{Kind: KindExport, Identifier: pathTemplate}
}
func ExportInput(identifier string) Descriptor {
	return Descriptor{Kind: KindExportInput, Identifier: identifier}
}
func ExportAnnotations() Descriptor     { return Descriptor{Kind: KindExportAnnotations} }
func SourceAnnotations() Descriptor     { return Descriptor{Kind: KindSourceAnnotations} }
func HeaderAnnotations() Descriptor     { return Descriptor{Kind: KindHeaderAnnotations} }
func Language() Descriptor              { return Descriptor{Kind: KindLanguage} }
func Corpus() Descriptor                { return Descriptor{Kind: KindCorpus} }
func SourceFilename() Descriptor        { return Descriptor{Kind: KindSourceFilename} }
func AllSourceFilenames() Descriptor    { return Descriptor{Kind: KindAllSourceFilenames} }
func Text() Descriptor                  { return Descriptor{Kind: KindText} }
func Source() Descriptor                { return Descriptor{Kind: KindSource} }

// Signature is the full typed input/output list of a Function.
type Signature struct {
	Inputs  []Descriptor
	Outputs []Descriptor
}

// ParamSpec documents one named parameter a Function accepts.
type ParamSpec struct {
	Description string
	Default     any
	Required    bool
}
