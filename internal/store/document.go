package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rogersnm/frontdesk/internal/clock"
	"github.com/rogersnm/frontdesk/internal/id"
	"github.com/rogersnm/frontdesk/internal/model"
	"github.com/rogersnm/frontdesk/internal/persist"
)

// DefaultRecentLimit is used by GetRecentDocuments when limit is not positive.
const DefaultRecentLimit = 10

// recentUploadWindow bounds DocumentStats.RecentUploads, in days.
const recentUploadWindow = 30

type DocumentInput struct {
	Name        string
	Type        string
	Size        int64
	MimeType    string
	URL         string
	Description string
	Tags        []string
}

// VersionInput describes a new file revision. Empty or zero fields keep the
// document's current values.
type VersionInput struct {
	Name     string
	Type     string
	Size     int64
	MimeType string
	URL      string
	Comment  string
}

// DocumentUpdate merges every non-nil field. Status is not updatable here;
// use ArchiveDocument or DeleteDocument.
type DocumentUpdate struct {
	Name        *string
	Type        *string
	Description *string
	URL         *string
	MimeType    *string
	Size        *int64
	Tags        *[]string
}

// DocumentFilter narrows ListDocuments. Empty fields match everything.
type DocumentFilter struct {
	Type     string
	Status   model.DocumentStatus
	ClientID string
}

type DocumentStore struct {
	mu    sync.RWMutex
	col   collection[model.Document]
	clock clock.Clock
	log   *zap.Logger
}

// OpenDocuments loads the document collection from port.
func OpenDocuments(ctx context.Context, port persist.Port, opts ...Option) (*DocumentStore, error) {
	o := buildOptions(opts)
	s := &DocumentStore{
		col: collection[model.Document]{
			key:     persist.KeyDocuments,
			port:    port,
			log:     o.log,
			metrics: o.metrics,
		},
		clock: o.clock,
		log:   o.log,
	}
	if err := s.col.load(ctx); err != nil {
		return nil, err
	}
	for i := range s.col.items {
		s.col.items[i].Normalize()
	}
	return s, nil
}

// AddDocument records a new active document for clientID with its first
// version. The client id is not checked against the client store.
func (s *DocumentStore) AddDocument(ctx context.Context, clientID string, in DocumentInput) (model.Document, error) {
	did, err := id.New(id.Document)
	if err != nil {
		return model.Document{}, err
	}
	now := s.clock.Now()
	d := model.Document{
		ID:          did,
		ClientID:    clientID,
		Name:        in.Name,
		Type:        in.Type,
		Size:        in.Size,
		MimeType:    in.MimeType,
		URL:         in.URL,
		Description: in.Description,
		Tags:        model.UniqueTags(in.Tags),
		Status:      model.DocumentActive,
		Versions: []model.Version{{
			Number:    1,
			Timestamp: now,
			Name:      in.Name,
			Type:      in.Type,
			Size:      in.Size,
			MimeType:  in.MimeType,
			URL:       in.URL,
		}},
		UploadedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(slices.Clone(s.col.items), d)
	if err := s.col.commit(ctx, "add", next); err != nil {
		return model.Document{}, err
	}
	return d.Clone(), nil
}

func (s *DocumentStore) GetDocument(docID string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(docID)
	if i < 0 {
		return model.Document{}, notFound("document", docID)
	}
	return s.col.items[i].Clone(), nil
}

// GetClientDocuments returns every document of the client, whatever its
// status.
func (s *DocumentStore) GetClientDocuments(clientID string) []model.Document {
	return s.filter(func(d *model.Document) bool { return d.ClientID == clientID })
}

func (s *DocumentStore) ListDocuments(f DocumentFilter) []model.Document {
	return s.filter(func(d *model.Document) bool {
		if f.Type != "" && d.Type != f.Type {
			return false
		}
		if f.Status != "" && d.Status != f.Status {
			return false
		}
		return f.ClientID == "" || d.ClientID == f.ClientID
	})
}

// AddDocumentVersion appends the next version and makes it current.
func (s *DocumentStore) AddDocumentVersion(ctx context.Context, docID string, in VersionInput) (model.Version, error) {
	var added model.Version
	_, err := s.mutate(ctx, "version", docID, func(d *model.Document, now time.Time) error {
		added = model.Version{
			Number:    d.LatestVersion() + 1,
			Timestamp: now,
			Name:      in.Name,
			Type:      in.Type,
			Size:      in.Size,
			MimeType:  in.MimeType,
			URL:       in.URL,
			Comment:   in.Comment,
		}
		d.Versions = append(d.Versions, added)
		d.CurrentVersion = added.Number
		if in.Name != "" {
			d.Name = in.Name
		}
		if in.Type != "" {
			d.Type = in.Type
		}
		if in.Size != 0 {
			d.Size = in.Size
		}
		if in.MimeType != "" {
			d.MimeType = in.MimeType
		}
		if in.URL != "" {
			d.URL = in.URL
		}
		d.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return model.Version{}, err
	}
	return added, nil
}

// GetDocumentVersion reports false when either the document or the version
// number is unknown.
func (s *DocumentStore) GetDocumentVersion(docID string, number int) (model.Version, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(docID)
	if i < 0 {
		return model.Version{}, false
	}
	for _, v := range s.col.items[i].Versions {
		if v.Number == number {
			return v, true
		}
	}
	return model.Version{}, false
}

func (s *DocumentStore) UpdateDocument(ctx context.Context, docID string, upd DocumentUpdate) (model.Document, error) {
	return s.mutate(ctx, "update", docID, func(d *model.Document, now time.Time) error {
		applyDocumentUpdate(d, upd)
		d.UpdatedAt = &now
		return nil
	})
}

// ArchiveDocument moves the document to archived. Archiving again only
// refreshes archivedAt; a deleted document cannot be archived.
func (s *DocumentStore) ArchiveDocument(ctx context.Context, docID string) error {
	_, err := s.transition(ctx, "archive", docID, model.DocumentArchived)
	return err
}

// DeleteDocument soft-deletes the document. The record stays in the
// collection with status deleted.
func (s *DocumentStore) DeleteDocument(ctx context.Context, docID string) error {
	_, err := s.transition(ctx, "delete", docID, model.DocumentDeleted)
	return err
}

// SearchDocuments matches active documents whose name, type, or any tag
// contains the query, ignoring case.
func (s *DocumentStore) SearchDocuments(query string) []model.Document {
	q := strings.ToLower(query)
	return s.filter(func(d *model.Document) bool {
		return d.Status == model.DocumentActive && documentMatches(d, q)
	})
}

func (s *DocumentStore) GetDocumentsByType(docType string) []model.Document {
	return s.filter(func(d *model.Document) bool {
		return d.Status == model.DocumentActive && d.Type == docType
	})
}

// GetRecentDocuments returns up to limit active documents, newest upload
// first.
func (s *DocumentStore) GetRecentDocuments(limit int) []model.Document {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	docs := s.filter(func(d *model.Document) bool { return d.Status == model.DocumentActive })
	slices.SortStableFunc(docs, func(a, b model.Document) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs
}

// AddDocumentTag is idempotent. An empty or already present tag is not
// written.
func (s *DocumentStore) AddDocumentTag(ctx context.Context, docID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(docID)
	if i < 0 {
		return notFound("document", docID)
	}
	if tag == "" || s.col.items[i].HasTag(tag) {
		return nil
	}
	d := s.col.items[i].Clone()
	d.Tags = append(d.Tags, tag)
	return s.col.commit(ctx, "tag", s.col.replace(i, d))
}

// RemoveDocumentTag reports whether the tag was present and removed.
func (s *DocumentStore) RemoveDocumentTag(ctx context.Context, docID, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(docID)
	if i < 0 {
		return false, notFound("document", docID)
	}
	if !s.col.items[i].HasTag(tag) {
		return false, nil
	}
	d := s.col.items[i].Clone()
	d.Tags = slices.DeleteFunc(d.Tags, func(t string) bool { return t == tag })
	if err := s.col.commit(ctx, "untag", s.col.replace(i, d)); err != nil {
		return false, err
	}
	return true, nil
}

// GetDocumentStats counts every document regardless of status. ByStatus
// always carries all three statuses.
func (s *DocumentStore) GetDocumentStats() model.DocumentStats {
	cutoff := s.clock.Now().AddDate(0, 0, -recentUploadWindow)

	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := model.DocumentStats{
		Total:    len(s.col.items),
		ByType:   map[string]int{},
		ByStatus: map[model.DocumentStatus]int{},
	}
	for _, st := range model.DocumentStatuses {
		stats.ByStatus[st] = 0
	}
	for _, d := range s.col.items {
		stats.ByType[d.Type]++
		stats.ByStatus[d.Status]++
		if !d.UploadedAt.Before(cutoff) {
			stats.RecentUploads++
		}
	}
	return stats
}

func (s *DocumentStore) transition(ctx context.Context, op, docID string, next model.DocumentStatus) (model.Document, error) {
	return s.mutate(ctx, op, docID, func(d *model.Document, now time.Time) error {
		if !d.Status.CanTransition(next) {
			return fmt.Errorf("%s document %s from %s: %w", op, docID, d.Status, ErrInvalidTransition)
		}
		d.Status = next
		switch next {
		case model.DocumentArchived:
			d.ArchivedAt = &now
		case model.DocumentDeleted:
			d.DeletedAt = &now
		}
		return nil
	})
}

// mutate applies fn to a copy of the document and commits it. An error
// from fn aborts without saving.
func (s *DocumentStore) mutate(ctx context.Context, op, docID string, fn func(d *model.Document, now time.Time) error) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(docID)
	if i < 0 {
		return model.Document{}, notFound("document", docID)
	}
	d := s.col.items[i].Clone()
	if err := fn(&d, s.clock.Now()); err != nil {
		return model.Document{}, err
	}
	if err := s.col.commit(ctx, op, s.col.replace(i, d)); err != nil {
		return model.Document{}, err
	}
	return d.Clone(), nil
}

func (s *DocumentStore) filter(keep func(*model.Document) bool) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Document{}
	for i := range s.col.items {
		if keep(&s.col.items[i]) {
			out = append(out, s.col.items[i].Clone())
		}
	}
	return out
}

func (s *DocumentStore) indexOf(docID string) int {
	return slices.IndexFunc(s.col.items, func(d model.Document) bool { return d.ID == docID })
}

func applyDocumentUpdate(d *model.Document, upd DocumentUpdate) {
	if upd.Name != nil {
		d.Name = *upd.Name
	}
	if upd.Type != nil {
		d.Type = *upd.Type
	}
	if upd.Description != nil {
		d.Description = *upd.Description
	}
	if upd.URL != nil {
		d.URL = *upd.URL
	}
	if upd.MimeType != nil {
		d.MimeType = *upd.MimeType
	}
	if upd.Size != nil {
		d.Size = *upd.Size
	}
	if upd.Tags != nil {
		d.Tags = model.UniqueTags(*upd.Tags)
	}
}
