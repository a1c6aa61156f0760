package genbank

import (
	"errors"

	polygb "github.com/bebop/poly/io/genbank"
)

// Span is a 0-based half-open interval.
type Span struct {
	Start int
	End   int
}

// Location is the envelope of a feature location: the smallest span covering every part.
type Location struct {
	Start  int
	End    int
	Strand int // +1 forward, -1 reverse
	Parts  []Span
	// Partial is set when either end carries a < or > marker.
	Partial bool
}

var errEmptyLocation = errors.New("location has no readable span")

// fromPoly flattens a parsed location tree. Leaves carry the spans; a complement anywhere
// on the path to the first leaf puts the feature on the reverse strand.
func fromPoly(pl polygb.Location) (*Location, error) {
	loc := &Location{Strand: 1}
	first := true
	var walk func(l polygb.Location, complement bool) error
	walk = func(l polygb.Location, complement bool) error {
		complement = complement != l.Complement
		if l.FivePrimePartial || l.ThreePrimePartial {
			loc.Partial = true
		}
		if len(l.SubLocations) > 0 {
			for _, sub := range l.SubLocations {
				if err := walk(sub, complement); err != nil {
					return err
				}
			}
			return nil
		}
		if l.Start < 0 || l.End <= l.Start {
			return errEmptyLocation
		}
		loc.Parts = append(loc.Parts, Span{Start: l.Start, End: l.End})
		if first {
			loc.Start, loc.End = l.Start, l.End
			if complement {
				loc.Strand = -1
			}
			first = false
		}
		loc.Start = min(loc.Start, l.Start)
		loc.End = max(loc.End, l.End)
		return nil
	}
	if err := walk(pl, false); err != nil {
		return nil, err
	}
	if len(loc.Parts) == 0 {
		return nil, errEmptyLocation
	}
	return loc, nil
}
