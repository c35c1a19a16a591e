package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rogersnm/frontdesk/internal/clock"
	"github.com/rogersnm/frontdesk/internal/metrics"
	"github.com/rogersnm/frontdesk/internal/model"
	"github.com/rogersnm/frontdesk/internal/persist"
	"github.com/rogersnm/frontdesk/internal/persist/mocks"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestStores(t *testing.T, opts ...Option) (*Stores, *clock.Stepping) {
	t.Helper()
	clk := clock.NewStepping(epoch, time.Second)
	s, err := Open(context.Background(), persist.NewMemory(), append([]Option{WithClock(clk)}, opts...)...)
	require.NoError(t, err)
	return s, clk
}

// newFailingPort loads empty collections and accepts the first n saves.
func newFailingPort(n int) *mocks.MockPort {
	p := &mocks.MockPort{}
	p.On("Load", mock.Anything, mock.Anything).Return(nil, persist.ErrNotExist)
	if n > 0 {
		p.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(n)
	}
	p.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	return p
}

func TestOpen_EmptyPort(t *testing.T) {
	s, _ := newTestStores(t)
	assert.Empty(t, s.Clients.ListClients())
	assert.Empty(t, s.Documents.ListDocuments(DocumentFilter{}))
}

func TestOpen_LoadFailure(t *testing.T) {
	p := &mocks.MockPort{}
	p.On("Load", mock.Anything, persist.KeyClients).Return(nil, errors.New("connection refused"))

	_, err := Open(context.Background(), p)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
	assert.Equal(t, persist.KeyClients, se.Key)
}

func TestOpen_CorruptSnapshot(t *testing.T) {
	port := persist.NewMemory()
	require.NoError(t, port.Save(context.Background(), persist.KeyDocuments, []byte("{not json")))

	_, err := Open(context.Background(), port)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "decode", se.Op)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	port := persist.NewMemory()
	clk := clock.NewStepping(epoch, time.Minute)
	s, err := Open(ctx, port, WithClock(clk))
	require.NoError(t, err)

	renewal := epoch.AddDate(0, 2, 0)
	c, err := s.Clients.AddClient(ctx, ClientProfile{
		Name:              "Ada Lovelace",
		Email:             "ada@example.com",
		Category:          "life",
		Notes:             "Prefers email.",
		PolicyRenewalDate: &renewal,
	})
	require.NoError(t, err)
	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "Bare"})
	require.NoError(t, err)
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "call", Notes: "renewal chat"})
	require.NoError(t, err)
	_, err = s.Clients.UpdateClientStatus(ctx, c.ID, model.ClientActive)
	require.NoError(t, err)

	d, err := s.Documents.AddDocument(ctx, c.ID, DocumentInput{Name: "policy.pdf", Type: "policy", Size: 1024})
	require.NoError(t, err)
	_, err = s.Documents.AddDocumentVersion(ctx, d.ID, VersionInput{Comment: "signed"})
	require.NoError(t, err)
	_, err = s.Documents.AddDocument(ctx, c.ID, DocumentInput{Name: "id.png", Type: "id", Tags: []string{"kyc"}})
	require.NoError(t, err)
	require.NoError(t, s.Documents.ArchiveDocument(ctx, d.ID))

	reopened, err := Open(ctx, port, WithClock(clk))
	require.NoError(t, err)
	assert.Equal(t, s.Clients.ListClients(), reopened.Clients.ListClients())
	assert.Equal(t, s.Documents.ListDocuments(DocumentFilter{}), reopened.Documents.ListDocuments(DocumentFilter{}))
}

func TestRoundTrip_FilePort(t *testing.T) {
	ctx := context.Background()
	port := persist.NewFile(t.TempDir())
	s, err := Open(ctx, port)
	require.NoError(t, err)

	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Grace"})
	require.NoError(t, err)
	_, err = s.Documents.AddDocument(ctx, c.ID, DocumentInput{Name: "a.pdf", Type: "claim"})
	require.NoError(t, err)

	reopened, err := Open(ctx, port)
	require.NoError(t, err)
	assert.Equal(t, s.Clients.ListClients(), reopened.Clients.ListClients())
	assert.Equal(t, s.Documents.ListDocuments(DocumentFilter{}), reopened.Documents.ListDocuments(DocumentFilter{}))
}

func TestStorageFailure_ClientLeftUnchanged(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newFailingPort(1))
	require.NoError(t, err)

	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Kept"})
	require.NoError(t, err)

	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "Lost"})
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Op)
	assert.Equal(t, persist.KeyClients, se.Key)
	assert.EqualError(t, errors.Unwrap(err), "disk full")

	_, err = s.Clients.UpdateClient(ctx, c.ID, ClientUpdate{Name: ptr("Changed")})
	require.ErrorAs(t, err, &se)
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "call"})
	require.ErrorAs(t, err, &se)
	require.ErrorAs(t, s.Clients.DeleteClient(ctx, c.ID), &se)

	clients := s.Clients.ListClients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Kept", clients[0].Name)
	assert.Empty(t, clients[0].Interactions)
	assert.Nil(t, clients[0].UpdatedAt)
}

func TestStorageFailure_DocumentLeftUnchanged(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newFailingPort(1))
	require.NoError(t, err)

	d, err := s.Documents.AddDocument(ctx, "CLI-1", DocumentInput{Name: "a.pdf", Tags: []string{"x"}})
	require.NoError(t, err)

	var se *StorageError
	require.ErrorAs(t, s.Documents.ArchiveDocument(ctx, d.ID), &se)
	_, err = s.Documents.AddDocumentVersion(ctx, d.ID, VersionInput{Name: "b.pdf"})
	require.ErrorAs(t, err, &se)
	require.ErrorAs(t, s.Documents.AddDocumentTag(ctx, d.ID, "y"), &se)
	removed, err := s.Documents.RemoveDocumentTag(ctx, d.ID, "x")
	require.ErrorAs(t, err, &se)
	assert.False(t, removed)

	got, err := s.Documents.GetDocument(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestLogging_MutationsAndFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := context.Background()
	s, err := Open(ctx, newFailingPort(1), WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "One"})
	require.NoError(t, err)
	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "Two"})
	require.Error(t, err)

	saved := logs.FilterMessage("snapshot saved").All()
	require.Len(t, saved, 1)
	assert.Equal(t, "add", saved[0].ContextMap()["op"])

	failed := logs.FilterMessage("snapshot save failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, persist.KeyClients, failed[0].ContextMap()["key"])
}

func TestMetrics_CountsMutations(t *testing.T) {
	m := metrics.New()
	ctx := context.Background()
	s, err := Open(ctx, newFailingPort(2), WithMetrics(m))
	require.NoError(t, err)

	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "One"})
	require.NoError(t, err)
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "email"})
	require.NoError(t, err)
	_, err = s.Documents.AddDocument(ctx, c.ID, DocumentInput{Name: "a.pdf"})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues(persist.KeyClients, "add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues(persist.KeyClients, "interaction")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageFailures.WithLabelValues(persist.KeyDocuments, "save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectionSize.WithLabelValues(persist.KeyClients)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CollectionSize.WithLabelValues(persist.KeyDocuments)))
}

func TestStores_Search(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)

	_, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Harbor Marine"})
	require.NoError(t, err)
	c, err := s.Clients.AddClient(ctx, ClientProfile{
		Name:  "Jo Smith",
		Notes: "Owns a boat moored at the harbor, wants cover for the winter season.",
	})
	require.NoError(t, err)
	_, err = s.Documents.AddDocument(ctx, c.ID, DocumentInput{Name: "boat.pdf", Type: "policy", Tags: []string{"harbor"}})
	require.NoError(t, err)

	results := s.Search("HARBOR")
	require.Len(t, results, 3)
	assert.Equal(t, "client", results[0].Type)
	assert.Empty(t, results[0].Snippet)
	assert.Equal(t, c.ID, results[1].ID)
	assert.Contains(t, results[1].Snippet, "harbor")
	assert.Equal(t, "document", results[2].Type)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "", snippet("nothing here", "zzz"))
	assert.Equal(t, "short match", snippet("short match", "match"))

	long := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa needle bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	got := snippet(long, "needle")
	assert.True(t, len(got) < len(long))
	assert.Contains(t, got, "...")
	assert.Contains(t, got, "needle")
}

func TestSnippet_CaseChangingMultibyte(t *testing.T) {
	// Ⱥ is two bytes but lowercases to three.
	body := strings.Repeat("Ⱥ", 100) + " HARBOR policy " + strings.Repeat("é", 60)
	got := snippet(body, "harbor")
	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "HARBOR")
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 3+40+len("HARBOR")+40+3, utf8.RuneCountInString(got))

	assert.Equal(t, "ⱥ harbor", snippet("ⱥ harbor", "harbor"))
}

func TestSearch_MultibyteNotes(t *testing.T) {
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(context.Background(), ClientProfile{
		Name:  "Hale",
		Notes: strings.Repeat("Ⱥ", 100) + " harbor policy",
	})
	require.NoError(t, err)

	var results []SearchResult
	require.NotPanics(t, func() { results = s.Search("harbor") })
	require.Len(t, results, 1)
	assert.Equal(t, c.ID, results[0].ID)
	assert.Contains(t, results[0].Snippet, "harbor policy")
	assert.True(t, utf8.ValidString(results[0].Snippet))
}

func ptr[T any](v T) *T {
	return &v
}
