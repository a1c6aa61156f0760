package embed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// UnknownToken is the vocabulary entry used for unseen k-mers when AllowUnknown is set.
const UnknownToken = "<unk>"

type ProtVecOptions struct {
	K            int
	AllowUnknown bool
}

// ProtVec embeds a protein as K rows, one per reading frame. Frame f holds the sum of the
// vectors of the non-overlapping k-mers of seq[f:].
type ProtVec struct {
	k            int
	dim          int
	vectors      map[string][]float64
	allowUnknown bool
}

func NewProtVec(vectors map[string][]float64, opts ProtVecOptions) (*ProtVec, error) {
	if opts.K <= 0 {
		opts.K = 3
	}
	if len(vectors) == 0 {
		return nil, errors.New("protvec: empty vocabulary")
	}

	dim := -1
	for word, v := range vectors {
		if dim == -1 {
			dim = len(v)
		}
		if len(v) != dim || dim == 0 {
			return nil, fmt.Errorf("protvec: vector for %q has length %d, expected %d", word, len(v), dim)
		}
		if word != UnknownToken && len(word) != opts.K {
			return nil, fmt.Errorf("protvec: word %q is not a %d-mer", word, opts.K)
		}
	}
	if opts.AllowUnknown {
		if _, ok := vectors[UnknownToken]; !ok {
			return nil, fmt.Errorf("protvec: unknown k-mers allowed but vocabulary has no %s entry", UnknownToken)
		}
	}

	return &ProtVec{
		k:            opts.K,
		dim:          dim,
		vectors:      vectors,
		allowUnknown: opts.AllowUnknown,
	}, nil
}

func (p *ProtVec) Name() string { return "protvec" }

func (p *ProtVec) Dimension() int { return p.k * p.dim }

func (p *ProtVec) Embed(seq string) (Embedding, error) {
	seq = strings.ToUpper(strings.TrimSpace(seq))
	if seq == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	for i := 0; i < len(seq); i++ {
		if seq[i] < 'A' || seq[i] > 'Z' {
			return nil, fmt.Errorf("%w: character %q at %d", ErrInvalidSequence, seq[i], i)
		}
	}
	if len(seq) < p.k {
		return nil, fmt.Errorf("%w: length %d shorter than k=%d", ErrInvalidSequence, len(seq), p.k)
	}

	out := make(Embedding, p.k)
	for frame := 0; frame < p.k; frame++ {
		row := make([]float64, p.dim)
		for i := frame; i+p.k <= len(seq); i += p.k {
			v, err := p.lookup(seq[i : i+p.k])
			if err != nil {
				return nil, err
			}
			for j, x := range v {
				row[j] += x
			}
		}
		out[frame] = row
	}
	return out, nil
}

func (p *ProtVec) lookup(kmer string) ([]float64, error) {
	if v, ok := p.vectors[kmer]; ok {
		return v, nil
	}
	if p.allowUnknown {
		return p.vectors[UnknownToken], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKmer, kmer)
}

// LoadWord2VecText reads the word2vec text format: a "count dim" header line followed by
// one "word v1 v2 ..." line per entry.
func LoadWord2VecText(r io.Reader) (map[string][]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("word2vec: empty file")
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, fmt.Errorf("word2vec: bad header %q", scanner.Text())
	}
	count, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("word2vec: bad count: %w", err)
	}
	dim, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("word2vec: bad dimension: %w", err)
	}

	vectors := make(map[string][]float64, count)
	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != dim+1 {
			return nil, fmt.Errorf("word2vec: line %d has %d values, expected %d", line, len(fields)-1, dim)
		}
		v := make([]float64, dim)
		for i, f := range fields[1:] {
			if v[i], err = strconv.ParseFloat(f, 64); err != nil {
				return nil, fmt.Errorf("word2vec: line %d: %w", line, err)
			}
		}
		vectors[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vectors) != count {
		return nil, fmt.Errorf("word2vec: header declares %d words, read %d", count, len(vectors))
	}
	return vectors, nil
}
