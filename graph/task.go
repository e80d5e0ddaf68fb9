package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/spraakbanken/sparv/registry"
)

// Task is a [registry.Function] specialized to zero or more source files,
// per spec.md section 3: "a rule specialized to zero or more source
// files: one file-scoped task per source file for per-file annotators;
// one corpus-scoped task for exporters/installers that combine all
// files."
type Task struct {
	// ID is the stable identity "function_id" (corpus-scoped) or
	// "function_id@file" (file-scoped), per spec.md section 4.5.
	ID string
	// Function is the rule this task specializes.
	Function registry.Function
	// File is the source file this task is scoped to, or "" for a
	// corpus-scoped task.
	File string
	// Wildcards holds the concrete bindings for any "{placeholder}" in
	// Function's identifier templates, for this instantiation.
	Wildcards map[string]string
	// Inputs and Outputs are fully-resolved concrete annotation/data/
	// marker identifiers (no remaining class refs or wildcards).
	Inputs  []string
	Outputs []string

	deps []*Task
}

// Deps returns the tasks this task depends on (its inputs' producers).
func (t *Task) Deps() []*Task { return t.deps }

func taskID(functionID, file string) string {
	if file == "" {
		return functionID
	}

	return functionID + "@" + file
}

func (t *Task) addOutput(id string) {
	for _, o := range t.Outputs {
		if o == id {
			return
		}
	}

	t.Outputs = append(t.Outputs, id)
}

func (t *Task) addInput(id string) {
	for _, in := range t.Inputs {
		if in == id {
			return
		}
	}

	t.Inputs = append(t.Inputs, id)
}

// Hash computes the staleness signature of spec.md section 4.5: function
// id, each input's content hash (supplied by the caller -- the scheduler
// reads actual file bytes via storage), parameter values, model file
// fingerprints, and binary version markers, combined with sha256.
//
// inputHashes must be keyed by the same identifiers in t.Inputs; missing
// entries hash as all-zero, which only ever happens for inputs that do
// not yet exist (a task that is about to fail its prerequisite check).
func (t *Task) Hash(inputHashes map[string][]byte, params map[string]any, modelFingerprint, binaryFingerprint []byte) [32]byte {
	h := sha256.New()

	fmt.Fprintf(h, "function:%s\n", t.Function.ID)
	fmt.Fprintf(h, "file:%s\n", t.File)

	sortedInputs := append([]string(nil), t.Inputs...)
	sort.Strings(sortedInputs)

	for _, in := range sortedInputs {
		fmt.Fprintf(h, "input:%s:", in)
		h.Write(inputHashes[in])
		h.Write([]byte{'\n'})
	}

	paramKeys := make([]string, 0, len(params))
	for k := range params {
		paramKeys = append(paramKeys, k)
	}

	sort.Strings(paramKeys)

	for _, k := range paramKeys {
		fmt.Fprintf(h, "param:%s=%v\n", k, params[k])
	}

	h.Write(modelFingerprint)
	h.Write(binaryFingerprint)

	var out [32]byte
	copy(out[:], h.Sum(nil))

	return out
}

// encodeUint64 is a small helper kept for callers that want a stable byte
// encoding of a numeric fingerprint component (e.g. a model file's mtime)
// without pulling in a serialization library for a single integer.
func encodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)

	return buf
}
