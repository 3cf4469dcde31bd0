// Package docfile parses, validates, and serializes the document JSON that
// crosses the import/export boundary.
package docfile

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ehclinic/medcat/internal/apperr"
	"github.com/ehclinic/medcat/internal/models"
)

// exportPrefix is the fixed stem of the export filename.
const exportPrefix = "EH-doctor-data-"

// Parse decodes raw bytes into a document and validates the required shape:
// a JSON object carrying a diseases list. Shape failures wrap
// apperr.ErrInvalidDocument so callers can classify them.
func Parse(data []byte) (*models.Document, error) {
	// Probe field presence first: a struct decode cannot distinguish a
	// missing diseases field from an empty list.
	var probe struct {
		Diseases *json.RawMessage `json:"diseases"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", apperr.ErrInvalidDocument, err)
	}
	if err := validation.Validate(probe.Diseases, validation.NotNil); err != nil {
		return nil, fmt.Errorf("%w: diseases list is missing", apperr.ErrInvalidDocument)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: unexpected field types: %v", apperr.ErrInvalidDocument, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Marshal serializes a document for persistence (compact form).
func Marshal(doc *models.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docfile: marshal: %w", err)
	}
	return data, nil
}

// MarshalExport serializes a document as a pretty-printed UTF-8 JSON file
// suitable for hand inspection and later re-import.
func MarshalExport(doc *models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docfile: marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportFilename returns the dated export filename for the given time.
func ExportFilename(t time.Time) string {
	return exportPrefix + t.Format("2006-01-02") + ".json"
}
