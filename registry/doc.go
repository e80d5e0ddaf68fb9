// Package registry holds the declared units of the pipeline: importers,
// annotators, exporters, installers, uninstallers, and modelbuilders. Each
// is a [Function] value added to a [Registry] at program startup -- the
// systems-language replacement for the reference implementation's
// decorator-based discovery (spec.md section 9, "Decorator-registered
// functions").
//
// A Function's inputs and outputs are described by a [Signature] of typed
// [Descriptor] values rather than by reflecting over parameters; Descriptor
// is a tagged union over the kinds in spec.md section 4.3 (the "Duck-typed
// descriptor families" design note), implemented here as a struct carrying
// a [DescriptorKind] tag plus the fields relevant to that kind.
//
// This package is grounded on the teacher's annotator registry pattern
// (magicschema.Config.Registry map[string]func() Annotator, looked up by
// name in Config.parseAnnotatorNames), generalized from a flat name map to
// a role-aware signature registry that also tracks ordering for collision
// detection.
package registry
