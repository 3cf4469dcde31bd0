package index

import (
	"fmt"
	"strings"
	"time"

	"github.com/ehclinic/medcat/internal/models"
)

// Searcher is the read side of the mirror.
type Searcher interface {
	SearchIDs(query string) ([]string, error)
}

// Verify *DB satisfies Searcher at compile time.
var _ Searcher = (*DB)(nil)

// ReplaceAll rebuilds the mirror from the given disease list within a single
// transaction. Row positions follow the list order so search results come
// back in document order (newest first).
func (db *DB) ReplaceAll(diseases []models.Disease) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM diseases`); err != nil {
		return fmt.Errorf("index: clear mirror: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO diseases (id, name, symptoms, lab_tests, diagnosis_notes, treatment, haystack, position, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, d := range diseases {
		symptoms := strings.Join(d.Symptoms, "\n")
		labTests := strings.Join(d.LabTests, "\n")
		if _, err := stmt.Exec(
			d.ID, d.Name, symptoms, labTests, d.DiagnosisNotes, d.Treatment,
			haystack(d), i, now,
		); err != nil {
			return fmt.Errorf("index: insert disease: %w", err)
		}
	}

	return tx.Commit()
}

// SearchIDs returns the ids of diseases whose searchable fields contain the
// query as a case-insensitive substring, in document order. An empty query
// matches everything. Matching is plain containment, not ranked or fuzzy.
func (db *DB) SearchIDs(query string) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	// instr avoids LIKE wildcard escaping; haystack is pre-lowered in Go so
	// case folding is not limited to SQLite's ASCII-only lower().
	rows, err := db.conn.Query(`
		SELECT id FROM diseases
		WHERE ? = '' OR instr(haystack, ?) > 0
		ORDER BY position
	`, needle, needle)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Count returns the number of mirrored diseases.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM diseases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// haystack builds the lowercased concatenation of every searchable field.
func haystack(d models.Disease) string {
	parts := []string{d.Name, d.DiagnosisNotes, d.Treatment}
	parts = append(parts, d.Symptoms...)
	parts = append(parts, d.LabTests...)
	return strings.ToLower(strings.Join(parts, "\n"))
}
