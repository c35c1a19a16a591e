package store

import (
	"context"
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

// DefaultRenewalWindowDays is the look-ahead used when the caller has no
// preference.
const DefaultRenewalWindowDays = 30

// ClientProfile carries the caller-supplied fields of a new client. A zero
// Status means prospect.
type ClientProfile struct {
	Name              string
	Email             string
	Phone             string
	Category          string
	Address           string
	Notes             string
	Status            model.ClientStatus
	PolicyRenewalDate *time.Time
	LastContactDate   *time.Time
}

// ClientUpdate merges every non-nil field. The double pointers clear the
// date when set to a nil *time.Time.
type ClientUpdate struct {
	Name              *string
	Email             *string
	Phone             *string
	Category          *string
	Address           *string
	Notes             *string
	Status            *model.ClientStatus
	PolicyRenewalDate **time.Time
	LastContactDate   **time.Time
}

type InteractionInput struct {
	Type  string
	Notes string
}

type DocumentRefInput struct {
	DocumentID string
	Name       string
	Type       string
	URL        string
}

// ClientFilter combines its non-empty fields with AND. Status and Category
// compare case-insensitively; Query uses the same rules as SearchClients.
type ClientFilter struct {
	Status   model.ClientStatus
	Category string
	Query    string
}

type ClientStore struct {
	mu    sync.RWMutex
	col   collection[model.Client]
	clock clock.Clock
	log   *zap.Logger
}

// OpenClients loads the client roster from port.
func OpenClients(ctx context.Context, port persist.Port, opts ...Option) (*ClientStore, error) {
	o := buildOptions(opts)
	s := &ClientStore{
		col: collection[model.Client]{
			key:     persist.KeyClients,
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

func (s *ClientStore) AddClient(ctx context.Context, p ClientProfile) (model.Client, error) {
	cid, err := id.New(id.Client)
	if err != nil {
		return model.Client{}, err
	}
	status := p.Status
	if status == "" {
		status = model.ClientProspect
	}

	c := model.Client{
		ID:                cid,
		Name:              p.Name,
		Email:             p.Email,
		Phone:             p.Phone,
		Category:          p.Category,
		Address:           p.Address,
		Notes:             p.Notes,
		Status:            status,
		PolicyRenewalDate: p.PolicyRenewalDate,
		LastContactDate:   p.LastContactDate,
		CreatedAt:         s.clock.Now(),
		Interactions:      []model.Interaction{},
		Documents:         []model.DocumentRef{},
	}
	c = c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(slices.Clone(s.col.items), c)
	if err := s.col.commit(ctx, "add", next); err != nil {
		return model.Client{}, err
	}
	return c.Clone(), nil
}

func (s *ClientStore) UpdateClient(ctx context.Context, clientID string, upd ClientUpdate) (model.Client, error) {
	return s.mutate(ctx, "update", clientID, func(c *model.Client, now time.Time) {
		applyClientUpdate(c, upd)
		c.UpdatedAt = &now
	})
}

// UpdateClientStatus sets the status and stamps both statusUpdatedAt and
// updatedAt.
func (s *ClientStore) UpdateClientStatus(ctx context.Context, clientID string, status model.ClientStatus) (model.Client, error) {
	return s.mutate(ctx, "status", clientID, func(c *model.Client, now time.Time) {
		c.Status = status
		c.StatusUpdatedAt = &now
		c.UpdatedAt = &now
	})
}

// DeleteClient removes the client permanently.
func (s *ClientStore) DeleteClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(clientID)
	if i < 0 {
		return notFound("client", clientID)
	}
	next := slices.Delete(slices.Clone(s.col.items), i, i+1)
	return s.col.commit(ctx, "delete", next)
}

// AddInteraction appends to the client's interaction log. Interactions are
// never edited or removed afterwards.
func (s *ClientStore) AddInteraction(ctx context.Context, clientID string, in InteractionInput) (model.Interaction, error) {
	iid, err := id.New(id.Interaction)
	if err != nil {
		return model.Interaction{}, err
	}
	var added model.Interaction
	_, err = s.mutate(ctx, "interaction", clientID, func(c *model.Client, now time.Time) {
		added = model.Interaction{ID: iid, Type: in.Type, Notes: in.Notes, Timestamp: now}
		c.Interactions = append(c.Interactions, added)
	})
	if err != nil {
		return model.Interaction{}, err
	}
	return added, nil
}

// AddDocumentRef appends a lightweight document reference to the client.
// It does not touch the document store.
func (s *ClientStore) AddDocumentRef(ctx context.Context, clientID string, in DocumentRefInput) (model.DocumentRef, error) {
	rid, err := id.New(id.DocumentRef)
	if err != nil {
		return model.DocumentRef{}, err
	}
	var added model.DocumentRef
	_, err = s.mutate(ctx, "document_ref", clientID, func(c *model.Client, now time.Time) {
		added = model.DocumentRef{
			ID:         rid,
			DocumentID: in.DocumentID,
			Name:       in.Name,
			Type:       in.Type,
			URL:        in.URL,
			UploadedAt: now,
		}
		c.Documents = append(c.Documents, added)
	})
	if err != nil {
		return model.DocumentRef{}, err
	}
	return added, nil
}

func (s *ClientStore) GetClient(clientID string) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(clientID)
	if i < 0 {
		return model.Client{}, notFound("client", clientID)
	}
	return s.col.items[i].Clone(), nil
}

// ListClients returns the roster in insertion order.
func (s *ClientStore) ListClients() []model.Client {
	return s.filter(func(*model.Client) bool { return true })
}

func (s *ClientStore) GetClientsByStatus(status model.ClientStatus) []model.Client {
	return s.filter(func(c *model.Client) bool { return c.Status == status })
}

func (s *ClientStore) GetClientsByCategory(category string) []model.Client {
	return s.filter(func(c *model.Client) bool { return c.Category == category })
}

// SearchClients matches the query case-insensitively against name, email,
// phone, and notes. Any one field matching is enough.
func (s *ClientStore) SearchClients(query string) []model.Client {
	q := strings.ToLower(query)
	return s.filter(func(c *model.Client) bool { return clientMatches(c, q) })
}

func (s *ClientStore) FilterClients(f ClientFilter) []model.Client {
	q := strings.ToLower(f.Query)
	return s.filter(func(c *model.Client) bool {
		if f.Status != "" && !strings.EqualFold(string(c.Status), string(f.Status)) {
			return false
		}
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			return false
		}
		return q == "" || clientMatches(c, q)
	})
}

// GetUpcomingRenewals returns clients whose policy renews between now and
// days from now, both ends inclusive.
func (s *ClientStore) GetUpcomingRenewals(days int) []model.Client {
	now := s.clock.Now()
	until := now.AddDate(0, 0, days)
	return s.filter(func(c *model.Client) bool {
		if c.PolicyRenewalDate == nil {
			return false
		}
		r := *c.PolicyRenewalDate
		return !r.Before(now) && !r.After(until)
	})
}

// GetClientTimeline merges the creation event, interactions, and document
// references, most recent first. Unknown ids yield an empty timeline.
func (s *ClientStore) GetClientTimeline(clientID string) []model.TimelineEvent {
	c, err := s.GetClient(clientID)
	if err != nil {
		return []model.TimelineEvent{}
	}

	events := make([]model.TimelineEvent, 0, 1+len(c.Interactions)+len(c.Documents))
	events = append(events, model.TimelineEvent{
		Kind:        model.TimelineCreation,
		Timestamp:   c.CreatedAt,
		Title:       "Client Added",
		Description: "Client profile was created",
	})
	for _, in := range c.Interactions {
		events = append(events, model.TimelineEvent{
			Kind:        model.TimelineInteraction,
			Timestamp:   in.Timestamp,
			Title:       in.Type,
			Description: in.Notes,
		})
	}
	for _, d := range c.Documents {
		events = append(events, model.TimelineEvent{
			Kind:        model.TimelineDocument,
			Timestamp:   d.UploadedAt,
			Title:       "Document Added",
			Description: d.Name,
		})
	}
	slices.SortStableFunc(events, func(a, b model.TimelineEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return events
}

// mutate applies fn to a copy of the client and commits it.
func (s *ClientStore) mutate(ctx context.Context, op, clientID string, fn func(c *model.Client, now time.Time)) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(clientID)
	if i < 0 {
		return model.Client{}, notFound("client", clientID)
	}
	c := s.col.items[i].Clone()
	fn(&c, s.clock.Now())
	if err := s.col.commit(ctx, op, s.col.replace(i, c)); err != nil {
		return model.Client{}, err
	}
	return c.Clone(), nil
}

func (s *ClientStore) filter(keep func(*model.Client) bool) []model.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Client{}
	for i := range s.col.items {
		if keep(&s.col.items[i]) {
			out = append(out, s.col.items[i].Clone())
		}
	}
	return out
}

func (s *ClientStore) indexOf(clientID string) int {
	return slices.IndexFunc(s.col.items, func(c model.Client) bool { return c.ID == clientID })
}

func applyClientUpdate(c *model.Client, upd ClientUpdate) {
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Category != nil {
		c.Category = *upd.Category
	}
	if upd.Address != nil {
		c.Address = *upd.Address
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.PolicyRenewalDate != nil {
		c.PolicyRenewalDate = *upd.PolicyRenewalDate
	}
	if upd.LastContactDate != nil {
		c.LastContactDate = *upd.LastContactDate
	}
}
