// Package genbank reads single-record GenBank flat files into the feature view the
// cluster builder needs. Parsing itself is done by github.com/bebop/poly.
package genbank

import "strings"

// Record is one LOCUS ... // block.
type Record struct {
	Name         string
	Length       int
	MoleculeType string
	Topology     string
	Definition   string
	Accession    string
	Version      string
	Features     []Feature
	Sequence     string // upper case
}

type Feature struct {
	Type        string
	RawLocation string
	// Location is nil when the location could not be read.
	Location    *Location
	LocationErr error
	// Qualifiers keeps every value of a key in file order.
	Qualifiers map[string][]string
	// Index is the position of the feature in the feature table.
	Index int
}

// First returns the first value recorded for key. Later repeats are ignored, and flags
// such as /pseudo or an empty "" value count as absent.
func (f *Feature) First(key string) (string, bool) {
	values := f.Qualifiers[key]
	if len(values) == 0 {
		return "", false
	}
	v := values[0]
	if key == "translation" {
		v = strings.Join(strings.Fields(v), "")
	} else {
		v = strings.Join(strings.Fields(strings.ReplaceAll(v, `""`, `"`)), " ")
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// CDS returns the coding sequence features in file order.
func (r *Record) CDS() []*Feature {
	out := make([]*Feature, 0, len(r.Features))
	for i := range r.Features {
		if r.Features[i].Type == "CDS" {
			out = append(out, &r.Features[i])
		}
	}
	return out
}
