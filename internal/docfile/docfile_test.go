package docfile

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ehclinic/medcat/internal/apperr"
	"github.com/ehclinic/medcat/internal/models"
)

func TestParseValidDocument(t *testing.T) {
	data := []byte(`{
		"version": 1,
		"clinic": {"name": "EH Clinic", "owner": "Dr. H"},
		"diseases": [
			{"id": "d1", "name": "Migraine", "symptoms": ["Headache"], "labTests": [],
			 "diagnosisNotes": "", "treatment": "", "references": []}
		]
	}`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Clinic.Name != "EH Clinic" {
		t.Errorf("clinic name = %q", doc.Clinic.Name)
	}
	if len(doc.Diseases) != 1 || doc.Diseases[0].Name != "Migraine" {
		t.Errorf("diseases = %+v", doc.Diseases)
	}
}

func TestParseNotJSON(t *testing.T) {
	_, err := Parse([]byte("this is not json"))
	if !errors.Is(err, apperr.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestParseMissingDiseases(t *testing.T) {
	_, err := Parse([]byte(`{"version": 1, "clinic": {"name": "x", "owner": "y"}}`))
	if !errors.Is(err, apperr.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestParseEmptyDiseasesListIsValid(t *testing.T) {
	doc, err := Parse([]byte(`{"version": 1, "diseases": []}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Diseases == nil || len(doc.Diseases) != 0 {
		t.Errorf("diseases = %#v, want empty non-nil slice", doc.Diseases)
	}
}

func TestParseNormalizesNullCollections(t *testing.T) {
	doc, err := Parse([]byte(`{"diseases": [{"id": "d1", "name": "Flu"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d := doc.Diseases[0]
	if d.Symptoms == nil || d.LabTests == nil || d.References == nil {
		t.Errorf("collections not normalized: %+v", d)
	}
}

func TestExportRoundTrip(t *testing.T) {
	original := models.SeedDocument()
	data, err := MarshalExport(original)
	if err != nil {
		t.Fatalf("MarshalExport: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse of exported bytes: %v", err)
	}
	if !reflect.DeepEqual(original, got) {
		t.Errorf("round trip mismatch:\noriginal: %+v\ngot: %+v", original, got)
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2026, time.August, 23, 10, 30, 0, 0, time.UTC)
	got := ExportFilename(ts)
	want := "EH-doctor-data-2026-08-23.json"
	if got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}
}
