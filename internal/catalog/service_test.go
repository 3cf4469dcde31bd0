package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehclinic/medcat/internal/apperr"
	"github.com/ehclinic/medcat/internal/models"
	"github.com/ehclinic/medcat/internal/storage"
	"github.com/ehclinic/medcat/internal/testutil"
)

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) PublishCatalogEvent(kind, id string) {
	r.events = append(r.events, kind)
}

func testService(t *testing.T) (*Service, storage.Provider, *recordingNotifier) {
	t.Helper()

	_, store := testutil.TestStore(t)
	db := testutil.TestDB(t)

	notifier := &recordingNotifier{}
	svc, err := NewService(store, db, notifier)
	require.NoError(t, err)
	return svc, store, notifier
}

func TestFirstRunSeedsDocument(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	doc := svc.Document(ctx)
	require.Len(t, doc.Diseases, 1)
	assert.Equal(t, "Anaemia (General)", doc.Diseases[0].Name)
	assert.Equal(t, models.CurrentVersion, doc.Version)
}

func TestCorruptPersistedStateYieldsSeed(t *testing.T) {
	_, store := testutil.TestStore(t)
	require.NoError(t, store.Write(DocumentKey, []byte("{{{ not json")))

	db := testutil.TestDB(t)

	svc, err := NewService(store, db, nil)
	require.NoError(t, err, "corruption is treated as absence, never an error")

	doc := svc.Document(context.Background())
	require.Len(t, doc.Diseases, 1)
	assert.Equal(t, "Anaemia (General)", doc.Diseases[0].Name)
}

func TestAddDiseaseIsFirstInSearch(t *testing.T) {
	svc, _, notifier := testService(t)
	ctx := context.Background()

	d, err := svc.AddDisease(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)
	assert.NotNil(t, d.Symptoms)
	assert.NotNil(t, d.LabTests)
	assert.NotNil(t, d.References)

	results, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, d.ID, results[0].ID, "new disease must come first")
	assert.Contains(t, notifier.events, "disease.created")
}

func TestUpdateDisease(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	d, err := svc.AddDisease(ctx)
	require.NoError(t, err)

	d.Name = "Type 2 Diabetes"
	d.Symptoms = []string{"Polyuria", "Polydipsia"}
	require.NoError(t, svc.UpdateDisease(ctx, *d))

	got, err := svc.GetDisease(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Type 2 Diabetes", got.Name)
	assert.Equal(t, []string{"Polyuria", "Polydipsia"}, got.Symptoms)
}

func TestUpdateUnknownDisease(t *testing.T) {
	svc, _, _ := testService(t)
	err := svc.UpdateDisease(context.Background(), models.Disease{ID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	doc := svc.Document(ctx)
	id := doc.Diseases[0].ID

	// Confirm without a request mutates nothing.
	err := svc.ConfirmDelete(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrConfirmationRequired)
	results, _ := svc.Search(ctx, "")
	assert.Len(t, results, 1)

	// A lone request mutates nothing either.
	require.NoError(t, svc.RequestDelete(ctx, id))
	results, _ = svc.Search(ctx, "")
	assert.Len(t, results, 1)

	// Request then confirm removes the disease.
	require.NoError(t, svc.ConfirmDelete(ctx, id))
	results, _ = svc.Search(ctx, "")
	assert.Empty(t, results)

	_, err = svc.GetDisease(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequestDeleteUnknownDisease(t *testing.T) {
	svc, _, _ := testService(t)
	err := svc.RequestDelete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReferences(t *testing.T) {
	svc, _, notifier := testService(t)
	ctx := context.Background()

	d, err := svc.AddDisease(ctx)
	require.NoError(t, err)

	ref, err := svc.AddReference(ctx, d.ID, models.Reference{
		Kind:  models.ReferenceKindNote,
		Label: "Local protocol",
		Note:  "See the laminated sheet in room 2.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ref.ID)

	got, err := svc.GetDisease(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, got.References, 1)
	assert.Equal(t, "Local protocol", got.References[0].Label)
	assert.Contains(t, notifier.events, "reference.added")

	require.NoError(t, svc.RemoveReference(ctx, d.ID, ref.ID))
	got, _ = svc.GetDisease(ctx, d.ID)
	assert.Empty(t, got.References)

	err = svc.RemoveReference(ctx, d.ID, ref.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddReferenceInvalidKind(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	d, _ := svc.AddDisease(ctx)

	_, err := svc.AddReference(ctx, d.ID, models.Reference{Kind: "wiki", Label: "x"})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestSearchSubstringSemantics(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	// Seed has "Pallor" among symptoms.
	results, err := svc.Search(ctx, "pallor")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Anaemia (General)", results[0].Name)

	results, err = svc.Search(ctx, "xyz123")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Treatment field is searchable too.
	results, err = svc.Search(ctx, "oral iron")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _, notifier := testService(t)
	ctx := context.Background()

	d, _ := svc.AddDisease(ctx)
	d.Name = "Hypertension"
	d.LabTests = []string{"Ambulatory BP monitoring"}
	require.NoError(t, svc.UpdateDisease(ctx, *d))

	original := svc.Document(ctx)
	data, filename, err := svc.ExportDocument(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^EH-doctor-data-\d{4}-\d{2}-\d{2}\.json$`, filename)

	// Wipe by importing an empty catalog, then restore from the export.
	_, err = svc.ImportDocument(ctx, []byte(`{"version":1,"clinic":{"name":"","owner":""},"diseases":[]}`))
	require.NoError(t, err)
	results, _ := svc.Search(ctx, "")
	assert.Empty(t, results)

	restored, err := svc.ImportDocument(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, original, restored, "export then import must round-trip")
	assert.Contains(t, notifier.events, "document.imported")

	results, _ = svc.Search(ctx, "hypertension")
	assert.Len(t, results, 1)
}

func TestImportMalformedLeavesDocumentUntouched(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	before := svc.Document(ctx)

	for _, data := range [][]byte{
		[]byte("not json at all"),
		[]byte(`{"version":1,"clinic":{"name":"x","owner":"y"}}`), // no diseases
	} {
		_, err := svc.ImportDocument(ctx, data)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrInvalidDocument)
		assert.Contains(t, err.Error(), "import failed")
	}

	assert.Equal(t, before, svc.Document(ctx))
}

func TestImportPersistsImmediately(t *testing.T) {
	svc, store, _ := testService(t)
	ctx := context.Background()

	_, err := svc.ImportDocument(ctx, []byte(`{"version":1,"clinic":{"name":"New Clinic","owner":"Dr. N"},"diseases":[]}`))
	require.NoError(t, err)

	data, err := store.Read(DocumentKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), "New Clinic")
}

func TestSearchLink(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	doc := svc.Document(ctx)
	link, err := svc.SearchLink(ctx, doc.Diseases[0].ID)
	require.NoError(t, err)
	assert.Contains(t, link, "https://www.google.com/search?q=")
	assert.Contains(t, link, "Anaemia")
	assert.NotContains(t, link, " ", "url must be percent-encoded")

	_, err = svc.SearchLink(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReloadAfterExternalReplacement(t *testing.T) {
	svc, store, _ := testService(t)
	ctx := context.Background()

	// Unchanged bytes: no reload.
	changed, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	// External replacement (restored backup).
	require.NoError(t, store.Write(DocumentKey,
		[]byte(`{"version":1,"clinic":{"name":"Restored","owner":""},"diseases":[]}`)))
	changed, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Restored", svc.Document(ctx).Clinic.Name)

	// Unparseable external write keeps the current document.
	require.NoError(t, store.Write(DocumentKey, []byte("garbage")))
	changed, err = svc.Reload(ctx)
	require.False(t, changed)
	require.Error(t, err)
	assert.Equal(t, "Restored", svc.Document(ctx).Clinic.Name)
	if !errors.Is(err, apperr.ErrInvalidDocument) {
		t.Errorf("reload error should classify the bad document: %v", err)
	}
}
