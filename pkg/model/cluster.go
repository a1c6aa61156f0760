package model

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/embed"
	"github.com/yumyai/bgcclass/pkg/errs"
	"github.com/yumyai/bgcclass/pkg/genbank"
)

// ReadCluster parses one GenBank record from r and builds its cluster in a single pass.
// Every CDS becomes a Protein; the ones with a translation are embedded and summed into
// the vector in file order. The vector is nil when no CDS carries a translation.
func ReadCluster(r io.Reader, e embed.Embedder) (Cluster, *ClusterVector, error) {
	rec, err := genbank.Parse(genbank.NewDecodingReader(r))
	if err != nil {
		return nil, nil, err
	}
	return BuildCluster(rec, e)
}

// BuildCluster is ReadCluster for a record that is already parsed.
func BuildCluster(rec *genbank.Record, e embed.Embedder) (Cluster, *ClusterVector, error) {
	features := rec.CDS()
	cluster := make(Cluster, 0, len(features))
	var vector *ClusterVector

	for i, f := range features {
		p, err := proteinFromFeature(rec, f)
		if err != nil {
			return nil, nil, err
		}
		cluster = append(cluster, p)

		if !p.Embeddable() {
			logger.Debug("CDS without translation", zap.Int("index", i), zap.Int("feature", f.Index))
			continue
		}
		emb, err := e.Embed(p.Translation.Value)
		if err != nil {
			return nil, nil, &errs.EmbeddingError{Index: i, Err: err}
		}
		if vector == nil {
			vector = &ClusterVector{}
		}
		if err := vector.Add(emb); err != nil {
			return nil, nil, err
		}
	}

	return cluster, vector, nil
}

func proteinFromFeature(rec *genbank.Record, f *genbank.Feature) (Protein, error) {
	loc := f.Location
	if loc == nil {
		return Protein{}, &errs.ParseError{Msg: fmt.Sprintf("CDS %d location %q: %v", f.Index, f.RawLocation, f.LocationErr)}
	}
	if loc.End > len(rec.Sequence) {
		return Protein{}, &errs.ParseError{
			Msg: fmt.Sprintf("CDS %s ends past the %d bp sequence", f.RawLocation, len(rec.Sequence)),
		}
	}

	return Protein{
		Gene:        qualifier(f, "gene"),
		ProteinID:   qualifier(f, "protein_id"),
		LocusTag:    qualifier(f, "locus_tag"),
		Product:     qualifier(f, "product"),
		DNA:         rec.Sequence[loc.Start:loc.End],
		Translation: qualifier(f, "translation"),
		Location:    [2]int{loc.Start, loc.End},
		Strand:      loc.Strand,
		Description: qualifier(f, "description"),
	}, nil
}

func qualifier(f *genbank.Feature, key string) Optional {
	if v, ok := f.First(key); ok {
		return Some(v)
	}
	return Optional{}
}
