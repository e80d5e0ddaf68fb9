// Package segment registers tokenization and sentence-segmentation
// annotators grounded on clipperhouse/uax29/v2's Unicode text-segmentation
// algorithms (UAX #29 word and sentence boundaries), the module spec.md
// section 1 lists among Sparv's standard annotator modules.
package segment
