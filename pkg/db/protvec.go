package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// The k-mer table of a ProtVec model. vector holds a JSON array of floats.
const protvecSchema = `CREATE TABLE IF NOT EXISTS protvec (
	kmer   TEXT PRIMARY KEY,
	vector TEXT NOT NULL
)`

// LoadProtVecSQLite reads every k-mer vector from the protvec table of a SQLite file.
func LoadProtVecSQLite(path string) (map[string][]float64, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx := context.TODO()

	rows, err := db.QueryContext(ctx, `SELECT kmer, vector FROM protvec`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rows.Close()

	vectors := make(map[string][]float64)
	for rows.Next() {
		var kmer, raw string
		if err := rows.Scan(&kmer, &raw); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", path, err)
		}
		var v []float64
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%s: vector for %q: %w", path, kmer, err)
		}
		vectors[kmer] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vectors, nil
}

// WriteProtVecSQLite stores vectors in the protvec table of path, replacing rows with the same k-mer.
func WriteProtVecSQLite(path string, vectors map[string][]float64) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, protvecSchema); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stm, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO protvec (kmer, vector) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stm.Close()

	for kmer, v := range vectors {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := stm.ExecContext(ctx, kmer, string(raw)); err != nil {
			return fmt.Errorf("insert %q: %w", kmer, err)
		}
	}
	return tx.Commit()
}
