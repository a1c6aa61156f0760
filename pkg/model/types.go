package model

import (
	"encoding/json"
)

// Optional is a qualifier that may be missing. Absent values marshal to null, which keeps
// them apart from a present but empty string.
type Optional struct {
	Value string
	Valid bool
}

func Some(v string) Optional { return Optional{Value: v, Valid: true} }

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Optional{}
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Protein is one CDS feature of a cluster.
// Location is 0-based half-open in parent record coordinates and DNA is exactly that slice.
type Protein struct {
	Gene        Optional `json:"gene"`
	ProteinID   Optional `json:"protein_id"`
	LocusTag    Optional `json:"locus_tag"`
	Product     Optional `json:"product"`
	DNA         string   `json:"dna"`
	Translation Optional `json:"translation"`
	Location    [2]int   `json:"location"`
	Strand      int      `json:"strand"`
	Description Optional `json:"description"`
}

// Embeddable reports whether the protein takes part in the cluster vector.
func (p *Protein) Embeddable() bool { return p.Translation.Valid }

// Cluster is the CDS features of one record, in file order.
type Cluster []Protein

// Embeddable counts the proteins that carry a translation.
func (c Cluster) Embeddable() int {
	n := 0
	for i := range c {
		if c[i].Embeddable() {
			n++
		}
	}
	return n
}
