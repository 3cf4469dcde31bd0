// Package catalog implements the local data store: it owns the in-memory
// document, applies CRUD mutations, persists after every mutation, and
// supports whole-document export and import.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/ehclinic/medcat/internal/apperr"
	"github.com/ehclinic/medcat/internal/checksum"
	"github.com/ehclinic/medcat/internal/docfile"
	"github.com/ehclinic/medcat/internal/index"
	"github.com/ehclinic/medcat/internal/models"
	"github.com/ehclinic/medcat/internal/sse"
	"github.com/ehclinic/medcat/internal/storage"
)

// DocumentKey is the storage key holding the serialized document.
const DocumentKey = "document.json"

// ErrInvalidReference is returned when a reference carries an unknown kind.
var ErrInvalidReference = errors.New(`catalog: reference kind must be "google" or "note"`)

// Notifier receives catalog change events. A nil Notifier is allowed.
type Notifier interface {
	PublishCatalogEvent(kind, id string)
}

// Service owns the document and serializes access to it. Persistence is
// overwrite-on-mutate, last write wins; there is no merge and no undo.
type Service struct {
	store  storage.Provider
	idx    *index.DB
	notify Notifier

	mu            sync.RWMutex
	doc           *models.Document
	docChecksum   string
	pendingDelete map[string]struct{}
}

// NewService loads the document (seeding on first run or unreadable state),
// persists it, and builds the search mirror.
func NewService(store storage.Provider, idx *index.DB, notify Notifier) (*Service, error) {
	s := &Service{
		store:         store,
		idx:           idx,
		notify:        notify,
		pendingDelete: make(map[string]struct{}),
	}
	s.doc = s.load()
	if err := s.persist(); err != nil {
		return nil, fmt.Errorf("catalog: initial persist: %w", err)
	}
	return s, nil
}

// load reads the persisted document. Missing or malformed bytes yield the
// deterministic seed document; corruption is treated as absence, never as an
// error to propagate.
func (s *Service) load() *models.Document {
	data, err := s.store.Read(DocumentKey)
	if err != nil {
		return models.SeedDocument()
	}
	doc, err := docfile.Parse(data)
	if err != nil {
		return models.SeedDocument()
	}
	return doc
}

// persist serializes the full document, writes it through the storage port,
// and rebuilds the search mirror. Called with s.mu held (or before the
// service is shared).
func (s *Service) persist() error {
	data, err := docfile.Marshal(s.doc)
	if err != nil {
		return err
	}
	if err := s.store.Write(DocumentKey, data); err != nil {
		return fmt.Errorf("catalog: persist document: %w", err)
	}
	s.docChecksum = checksum.Sum(data)
	if err := s.idx.ReplaceAll(s.doc.Diseases); err != nil {
		return fmt.Errorf("catalog: rebuild search mirror: %w", err)
	}
	return nil
}

func (s *Service) publish(kind, id string) {
	if s.notify != nil {
		s.notify.PublishCatalogEvent(kind, id)
	}
}

// Document returns a deep copy of the current document.
func (s *Service) Document(_ context.Context) *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// AddDisease creates a blank disease with a fresh id, prepends it to the
// list, persists, and returns it for immediate editing.
func (s *Service) AddDisease(_ context.Context) (*models.Disease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := models.Disease{
		ID:         uuid.NewString(),
		Symptoms:   []string{},
		LabTests:   []string{},
		References: []models.Reference{},
	}
	s.doc.Diseases = append([]models.Disease{d}, s.doc.Diseases...)
	if err := s.persist(); err != nil {
		return nil, err
	}
	s.publish(sse.EventDiseaseCreated, d.ID)
	out := d.Clone()
	return &out, nil
}

// GetDisease returns a deep copy of the disease with the given id.
func (s *Service) GetDisease(_ context.Context, id string) (*models.Disease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.doc.Diseases {
		if s.doc.Diseases[i].ID == id {
			out := s.doc.Diseases[i].Clone()
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// UpdateDisease replaces the disease whose id matches next.ID and persists.
func (s *Service) UpdateDisease(_ context.Context, next models.Disease) error {
	if next.ID == "" {
		return apperr.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Diseases {
		if s.doc.Diseases[i].ID == next.ID {
			s.doc.Diseases[i] = next.Clone()
			if err := s.persist(); err != nil {
				return err
			}
			s.publish(sse.EventDiseaseUpdated, next.ID)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// RequestDelete marks a disease for deletion. Nothing is mutated until the
// operator confirms; a lone request is always safe.
func (s *Service) RequestDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Diseases {
		if s.doc.Diseases[i].ID == id {
			s.pendingDelete[id] = struct{}{}
			return nil
		}
	}
	return apperr.ErrNotFound
}

// ConfirmDelete removes a disease previously marked by RequestDelete and
// persists. Confirming without a pending request performs no mutation.
func (s *Service) ConfirmDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pendingDelete[id]; !ok {
		return apperr.ErrConfirmationRequired
	}
	delete(s.pendingDelete, id)

	for i := range s.doc.Diseases {
		if s.doc.Diseases[i].ID == id {
			s.doc.Diseases = append(s.doc.Diseases[:i], s.doc.Diseases[i+1:]...)
			if err := s.persist(); err != nil {
				return err
			}
			s.publish(sse.EventDiseaseDeleted, id)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// AddReference appends a reference to the parent disease and persists. The
// reference id is generated here; kind must be one of the known kinds.
func (s *Service) AddReference(_ context.Context, diseaseID string, ref models.Reference) (*models.Reference, error) {
	if err := validation.Validate(ref.Kind,
		validation.Required,
		validation.In(models.ReferenceKindGoogle, models.ReferenceKindNote),
	); err != nil {
		return nil, ErrInvalidReference
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Diseases {
		if s.doc.Diseases[i].ID != diseaseID {
			continue
		}
		ref.ID = uuid.NewString()
		s.doc.Diseases[i].References = append(s.doc.Diseases[i].References, ref)
		if err := s.persist(); err != nil {
			return nil, err
		}
		s.publish(sse.EventReferenceAdded, diseaseID)
		out := ref
		return &out, nil
	}
	return nil, apperr.ErrNotFound
}

// RemoveReference deletes a reference from the parent disease and persists.
func (s *Service) RemoveReference(_ context.Context, diseaseID, refID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Diseases {
		if s.doc.Diseases[i].ID != diseaseID {
			continue
		}
		refs := s.doc.Diseases[i].References
		for j := range refs {
			if refs[j].ID == refID {
				s.doc.Diseases[i].References = append(refs[:j], refs[j+1:]...)
				if err := s.persist(); err != nil {
					return err
				}
				s.publish(sse.EventReferenceRemoved, diseaseID)
				return nil
			}
		}
		return apperr.ErrNotFound
	}
	return apperr.ErrNotFound
}

// Search returns deep copies of the diseases whose fields contain the query
// as a case-insensitive substring, in document order. An empty query returns
// every disease.
func (s *Service) Search(_ context.Context, query string) ([]models.Disease, error) {
	ids, err := s.idx.SearchIDs(query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]*models.Disease, len(s.doc.Diseases))
	for i := range s.doc.Diseases {
		byID[s.doc.Diseases[i].ID] = &s.doc.Diseases[i]
	}

	out := make([]models.Disease, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

// ExportDocument returns the pretty-printed document and the dated filename
// it should be saved under.
func (s *Service) ExportDocument(_ context.Context) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := docfile.MarshalExport(s.doc)
	if err != nil {
		return nil, "", err
	}
	return data, docfile.ExportFilename(time.Now()), nil
}

// ImportDocument validates and installs a whole replacement document,
// persisting it immediately and fully discarding the prior one. On failure
// the current document is left untouched.
func (s *Service) ImportDocument(_ context.Context, data []byte) (*models.Document, error) {
	doc, err := docfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("import failed: file is not a valid catalog document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc
	s.doc = doc
	if err := s.persist(); err != nil {
		s.doc = prev
		return nil, err
	}
	s.pendingDelete = make(map[string]struct{})
	s.publish(sse.EventDocumentImported, "")
	return s.doc.Clone(), nil
}

// SearchLink builds the outbound web search URL for a disease.
func (s *Service) SearchLink(ctx context.Context, id string) (string, error) {
	d, err := s.GetDisease(ctx, id)
	if err != nil {
		return "", err
	}
	return models.SearchURL(d.Name), nil
}

// Reload re-reads the persisted document after an external change (for
// example a restored backup dropped over the live file). It reports whether
// the in-memory document was replaced. Unparseable on-disk bytes keep the
// current document rather than falling back to the seed: an external write
// may be mid-flight.
func (s *Service) Reload(_ context.Context) (bool, error) {
	data, err := s.store.Read(DocumentKey)
	if err != nil {
		return false, fmt.Errorf("catalog: reload read: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if checksum.Sum(data) == s.docChecksum {
		return false, nil
	}
	doc, err := docfile.Parse(data)
	if err != nil {
		return false, fmt.Errorf("catalog: reload parse: %w", err)
	}
	s.doc = doc
	s.docChecksum = checksum.Sum(data)
	s.pendingDelete = make(map[string]struct{})
	if err := s.idx.ReplaceAll(s.doc.Diseases); err != nil {
		return true, fmt.Errorf("catalog: reload mirror: %w", err)
	}
	return true, nil
}
