// Package models defines the domain types for the disease catalog.
package models

// Reference kinds.
const (
	ReferenceKindGoogle = "google"
	ReferenceKindNote   = "note"
)

// Document is the full persisted application state: clinic metadata plus the
// disease list. It is replaced wholesale on import.
type Document struct {
	Version  int       `json:"version"`
	Clinic   Clinic    `json:"clinic"`
	Diseases []Disease `json:"diseases"`
}

// Clinic holds practice metadata carried inside the document.
type Clinic struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// Disease is one catalog entry. Identity is ID; every other field is freely
// mutable through the editors.
type Disease struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Symptoms       []string    `json:"symptoms"`
	LabTests       []string    `json:"labTests"`
	DiagnosisNotes string      `json:"diagnosisNotes"`
	Treatment      string      `json:"treatment"`
	References     []Reference `json:"references"`
}

// Reference is a citation attached to a disease: either an outbound link
// (kind "google", url meaningful) or a free-text note (kind "note", note
// meaningful). The unused field is a placeholder, not enforced absent.
type Reference struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Note  string `json:"note"`
}

// Normalize replaces nil collections with empty ones so that a document
// always carries arrays, never nulls, across serialization boundaries.
func (d *Document) Normalize() {
	if d.Diseases == nil {
		d.Diseases = []Disease{}
	}
	for i := range d.Diseases {
		d.Diseases[i].Normalize()
	}
}

// Normalize replaces nil collections on a disease with empty ones.
func (d *Disease) Normalize() {
	if d.Symptoms == nil {
		d.Symptoms = []string{}
	}
	if d.LabTests == nil {
		d.LabTests = []string{}
	}
	if d.References == nil {
		d.References = []Reference{}
	}
}

// Clone returns a deep copy of the document. The catalog service hands out
// clones so callers can never mutate the owned state behind its back.
func (d *Document) Clone() *Document {
	out := &Document{
		Version:  d.Version,
		Clinic:   d.Clinic,
		Diseases: make([]Disease, len(d.Diseases)),
	}
	for i := range d.Diseases {
		out.Diseases[i] = d.Diseases[i].Clone()
	}
	return out
}

// Clone returns a deep copy of a disease.
func (d Disease) Clone() Disease {
	out := d
	out.Symptoms = append([]string(nil), d.Symptoms...)
	out.LabTests = append([]string(nil), d.LabTests...)
	out.References = append([]Reference(nil), d.References...)
	out.Normalize()
	return out
}
