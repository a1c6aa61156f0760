// Package embed turns amino-acid sequences into fixed-shape numeric embeddings.
package embed

import "errors"

var (
	ErrInvalidSequence = errors.New("invalid amino-acid sequence")
	ErrUnknownKmer     = errors.New("k-mer not in vocabulary")
)

// Embedding is a row-major matrix. Providers that return a plain vector use a single row.
type Embedding [][]float64

// Clone returns a deep copy.
func (e Embedding) Clone() Embedding {
	out := make(Embedding, len(e))
	for i, row := range e {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Len is the number of scalars once flattened.
func (e Embedding) Len() int {
	n := 0
	for _, row := range e {
		n += len(row)
	}
	return n
}

// Embedder maps an amino-acid string to an embedding.
// Implementations must be safe for concurrent use once constructed.
type Embedder interface {
	Name() string
	// Dimension is the flattened length of every embedding, 0 when unknown until first use.
	Dimension() int
	Embed(seq string) (Embedding, error)
}
