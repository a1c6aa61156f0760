package genbank

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	polygb "github.com/bebop/poly/io/genbank"

	"github.com/yumyai/bgcclass/pkg/errs"
)

// Parse reads exactly one GenBank record from r.
func Parse(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.ParseError{Msg: err.Error()}
	}
	if err := precheck(data); err != nil {
		return nil, err
	}

	records, err := parseMulti(data)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, &errs.ParseError{Msg: fmt.Sprintf("expected one record, found %d", len(records))}
	}
	return convert(records[0]), nil
}

// parseMulti runs the library parser. Malformed headers can make it panic, which is
// reported as a parse error like any other.
func parseMulti(data []byte) (records []polygb.Genbank, err error) {
	defer func() {
		if p := recover(); p != nil {
			records, err = nil, &errs.ParseError{Msg: fmt.Sprintf("unreadable record: %v", p)}
		}
	}()
	records, err = polygb.ParseMulti(bytes.NewReader(data))
	if err != nil {
		return nil, &errs.ParseError{Msg: err.Error()}
	}
	return records, nil
}

// precheck rejects what the library would accept silently: no LOCUS line, more than one
// record, and quoted qualifier values that never close.
func precheck(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var line, loci, quotes, quoteLine int
	inFeatures := false
	for scanner.Scan() {
		line++
		text := scanner.Text()
		switch {
		case strings.HasPrefix(text, "LOCUS"):
			loci++
			if loci > 1 {
				return &errs.ParseError{Line: line, Msg: "more than one LOCUS record"}
			}
		case strings.HasPrefix(text, "FEATURES"):
			inFeatures = true
		case strings.HasPrefix(text, "ORIGIN"), strings.HasPrefix(text, "//"):
			inFeatures = false
		case inFeatures:
			n := strings.Count(text, `"`)
			if quotes%2 == 0 && n%2 == 1 {
				quoteLine = line
			}
			quotes += n
		}
	}
	if err := scanner.Err(); err != nil {
		return &errs.ParseError{Line: line, Msg: err.Error()}
	}
	if loci == 0 {
		return &errs.ParseError{Msg: "no LOCUS record found"}
	}
	if quotes%2 == 1 {
		return &errs.ParseError{Line: quoteLine, Msg: "unterminated quoted qualifier"}
	}
	return nil
}

func convert(gb polygb.Genbank) *Record {
	rec := &Record{
		Name:         gb.Meta.Locus.Name,
		MoleculeType: gb.Meta.Locus.MoleculeType,
		Topology:     "linear",
		Definition:   strings.Join(strings.Fields(gb.Meta.Definition), " "),
		Accession:    strings.TrimSpace(gb.Meta.Accession),
		Version:      strings.TrimSpace(gb.Meta.Version),
		Sequence:     strings.ToUpper(gb.Sequence),
		Features:     make([]Feature, 0, len(gb.Features)),
	}
	if gb.Meta.Locus.Circular {
		rec.Topology = "circular"
	}
	rec.Length, _ = strconv.Atoi(strings.TrimSpace(gb.Meta.Locus.SequenceLength))

	for i, f := range gb.Features {
		feature := Feature{
			Type:        f.Type,
			RawLocation: f.Location.GbkLocationString,
			Qualifiers:  f.Attributes,
			Index:       i,
		}
		feature.Location, feature.LocationErr = fromPoly(f.Location)
		rec.Features = append(rec.Features, feature)
	}
	return rec
}
