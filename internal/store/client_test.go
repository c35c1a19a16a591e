package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogersnm/frontdesk/internal/clock"
	"github.com/rogersnm/frontdesk/internal/id"
	"github.com/rogersnm/frontdesk/internal/model"
)

func TestAddClient_Defaults(t *testing.T) {
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(context.Background(), ClientProfile{Name: "Ada"})
	require.NoError(t, err)

	typ, err := id.TypeOf(c.ID)
	require.NoError(t, err)
	assert.Equal(t, id.Client, typ)
	assert.Equal(t, model.ClientProspect, c.Status)
	assert.Equal(t, epoch, c.CreatedAt)
	assert.NotNil(t, c.Interactions)
	assert.NotNil(t, c.Documents)
	assert.Nil(t, c.UpdatedAt)
}

func TestAddClient_KeepsSuppliedStatus(t *testing.T) {
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(context.Background(), ClientProfile{Name: "Ada", Status: model.ClientActive})
	require.NoError(t, err)
	assert.Equal(t, model.ClientActive, c.Status)
}

func TestAddClient_AcceptsEmptyName(t *testing.T) {
	s, _ := newTestStores(t)
	_, err := s.Clients.AddClient(context.Background(), ClientProfile{})
	require.NoError(t, err)
	assert.Len(t, s.Clients.ListClients(), 1)
}

func TestAddClient_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t, WithClock(clock.Fixed(epoch)))
	seen := map[string]bool{}
	for range 200 {
		c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "same"})
		require.NoError(t, err)
		assert.Equal(t, epoch, c.CreatedAt)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestGetClient_NotFound(t *testing.T) {
	s, _ := newTestStores(t)
	_, err := s.Clients.GetClient("CLI-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetClient_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Ada"})
	require.NoError(t, err)
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "call"})
	require.NoError(t, err)

	got, err := s.Clients.GetClient(c.ID)
	require.NoError(t, err)
	got.Name = "Mallory"
	got.Interactions[0].Notes = "tampered"
	got.Interactions = append(got.Interactions, model.Interaction{ID: "INT-x"})

	again, err := s.Clients.GetClient(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)
	require.Len(t, again.Interactions, 1)
	assert.Empty(t, again.Interactions[0].Notes)

	c.Name = "changed via returned value"
	again, err = s.Clients.GetClient(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)
}

func TestUpdateClient_MergesAndStamps(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)
	renewal := epoch.AddDate(0, 1, 0)
	c, err := s.Clients.AddClient(ctx, ClientProfile{
		Name:              "Ada",
		Email:             "ada@example.com",
		PolicyRenewalDate: &renewal,
	})
	require.NoError(t, err)

	status := model.ClientInactive
	var noDate *time.Time
	updated, err := s.Clients.UpdateClient(ctx, c.ID, ClientUpdate{
		Phone:             ptr("555-0100"),
		Status:            &status,
		PolicyRenewalDate: &noDate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, model.ClientInactive, updated.Status)
	assert.Nil(t, updated.PolicyRenewalDate)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(c.CreatedAt))
	assert.Nil(t, updated.StatusUpdatedAt)
}

func TestUpdateClient_NotFound(t *testing.T) {
	s, _ := newTestStores(t)
	_, err := s.Clients.UpdateClient(context.Background(), "CLI-missing", ClientUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateClientStatus(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestStores(t)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Ada"})
	require.NoError(t, err)

	at := epoch.Add(time.Hour)
	clk.Set(at)
	updated, err := s.Clients.UpdateClientStatus(ctx, c.ID, model.ClientActive)
	require.NoError(t, err)
	assert.Equal(t, model.ClientActive, updated.Status)
	require.NotNil(t, updated.StatusUpdatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, at, *updated.StatusUpdatedAt)
	assert.Equal(t, at, *updated.UpdatedAt)

	_, err = s.Clients.UpdateClientStatus(ctx, "CLI-missing", model.ClientActive)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)
	a, err := s.Clients.AddClient(ctx, ClientProfile{Name: "A"})
	require.NoError(t, err)
	b, err := s.Clients.AddClient(ctx, ClientProfile{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, s.Clients.DeleteClient(ctx, a.ID))
	_, err = s.Clients.GetClient(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining := s.Clients.ListClients()
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)

	assert.ErrorIs(t, s.Clients.DeleteClient(ctx, a.ID), ErrNotFound)
}

func TestAddInteraction_AppendOnly(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Ada"})
	require.NoError(t, err)

	first, err := s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "call", Notes: "intro"})
	require.NoError(t, err)
	second, err := s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "email", Notes: "quote sent"})
	require.NoError(t, err)

	typ, err := id.TypeOf(first.ID)
	require.NoError(t, err)
	assert.Equal(t, id.Interaction, typ)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	got, err := s.Clients.GetClient(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Interaction{first, second}, got.Interactions)
}

func TestAddInteraction_NotFound(t *testing.T) {
	s, _ := newTestStores(t)
	_, err := s.Clients.AddInteraction(context.Background(), "CLI-missing", InteractionInput{Type: "call"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDocumentRef(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Ada"})
	require.NoError(t, err)

	ref, err := s.Clients.AddDocumentRef(ctx, c.ID, DocumentRefInput{DocumentID: "DOC-1", Name: "policy.pdf", Type: "policy"})
	require.NoError(t, err)
	typ, err := id.TypeOf(ref.ID)
	require.NoError(t, err)
	assert.Equal(t, id.DocumentRef, typ)
	assert.Equal(t, "DOC-1", ref.DocumentID)
	assert.False(t, ref.UploadedAt.IsZero())

	got, err := s.Clients.GetClient(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentRef{ref}, got.Documents)

	_, err = s.Clients.AddDocumentRef(ctx, "CLI-missing", DocumentRefInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func seedClients(t *testing.T, s *ClientStore) {
	t.Helper()
	ctx := context.Background()
	profiles := []ClientProfile{
		{Name: "Ada Lovelace", Email: "ada@example.com", Category: "life", Status: model.ClientActive},
		{Name: "Grace Hopper", Phone: "555-0199", Category: "auto", Status: model.ClientProspect},
		{Name: "Alan Turing", Category: "Life", Notes: "Asked about umbrella cover", Status: model.ClientInactive},
	}
	for _, p := range profiles {
		_, err := s.AddClient(ctx, p)
		require.NoError(t, err)
	}
}

func names(clients []model.Client) []string {
	out := make([]string, len(clients))
	for i, c := range clients {
		out[i] = c.Name
	}
	return out
}

func TestGetClientsByStatusAndCategory(t *testing.T) {
	s, _ := newTestStores(t)
	seedClients(t, s.Clients)

	assert.Equal(t, []string{"Ada Lovelace"}, names(s.Clients.GetClientsByStatus(model.ClientActive)))
	assert.Equal(t, []string{"Ada Lovelace"}, names(s.Clients.GetClientsByCategory("life")))
	assert.Empty(t, s.Clients.GetClientsByCategory("home"))
	assert.NotNil(t, s.Clients.GetClientsByCategory("home"))
}

func TestSearchClients(t *testing.T) {
	s, _ := newTestStores(t)
	seedClients(t, s.Clients)

	tests := []struct {
		query string
		want  []string
	}{
		{"ADA", []string{"Ada Lovelace"}},
		{"example.com", []string{"Ada Lovelace"}},
		{"0199", []string{"Grace Hopper"}},
		{"umbrella", []string{"Alan Turing"}},
		{"a", []string{"Ada Lovelace", "Grace Hopper", "Alan Turing"}},
		{"nobody", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, names(s.Clients.SearchClients(tt.query)))
		})
	}
}

func TestFilterClients(t *testing.T) {
	s, _ := newTestStores(t)
	seedClients(t, s.Clients)

	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, names(s.Clients.FilterClients(ClientFilter{Category: "LIFE"})))
	assert.Equal(t, []string{"Alan Turing"}, names(s.Clients.FilterClients(ClientFilter{Category: "life", Status: "Inactive"})))
	assert.Equal(t, []string{"Grace Hopper"}, names(s.Clients.FilterClients(ClientFilter{Query: "hopper"})))
	assert.Len(t, s.Clients.FilterClients(ClientFilter{}), 3)
}

func TestGetUpcomingRenewals(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestStores(t)

	in15 := epoch.AddDate(0, 0, 15)
	past := epoch.AddDate(0, 0, -1)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Soon", PolicyRenewalDate: &in15})
	require.NoError(t, err)
	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "Lapsed", PolicyRenewalDate: &past})
	require.NoError(t, err)
	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "No date"})
	require.NoError(t, err)

	clk.Set(epoch)
	due := s.Clients.GetUpcomingRenewals(DefaultRenewalWindowDays)
	require.Len(t, due, 1)
	assert.Equal(t, c.ID, due[0].ID)

	clk.Set(epoch)
	assert.Empty(t, s.Clients.GetUpcomingRenewals(10))
}

func TestGetUpcomingRenewals_InclusiveBounds(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestStores(t)
	atNow := epoch
	atEnd := epoch.AddDate(0, 0, 7)
	_, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Today", PolicyRenewalDate: &atNow})
	require.NoError(t, err)
	_, err = s.Clients.AddClient(ctx, ClientProfile{Name: "Edge", PolicyRenewalDate: &atEnd})
	require.NoError(t, err)

	clk.Set(epoch)
	assert.Equal(t, []string{"Today", "Edge"}, names(s.Clients.GetUpcomingRenewals(7)))
}

func TestGetClientTimeline(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStores(t)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Ada"})
	require.NoError(t, err)
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "call", Notes: "intro"})
	require.NoError(t, err)
	_, err = s.Clients.AddDocumentRef(ctx, c.ID, DocumentRefInput{Name: "policy.pdf"})
	require.NoError(t, err)

	events := s.Clients.GetClientTimeline(c.ID)
	require.Len(t, events, 3)
	assert.Equal(t, model.TimelineDocument, events[0].Kind)
	assert.Equal(t, "Document Added", events[0].Title)
	assert.Equal(t, "policy.pdf", events[0].Description)
	assert.Equal(t, model.TimelineInteraction, events[1].Kind)
	assert.Equal(t, "call", events[1].Title)
	assert.Equal(t, "intro", events[1].Description)
	assert.Equal(t, model.TimelineCreation, events[2].Kind)
	assert.Equal(t, "Client Added", events[2].Title)
}

func TestGetClientTimeline_StableForEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestStores(t)
	c, err := s.Clients.AddClient(ctx, ClientProfile{Name: "Ada"})
	require.NoError(t, err)

	clk.Set(epoch.Add(time.Hour))
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "first"})
	require.NoError(t, err)
	clk.Set(epoch.Add(time.Hour))
	_, err = s.Clients.AddInteraction(ctx, c.ID, InteractionInput{Type: "second"})
	require.NoError(t, err)

	events := s.Clients.GetClientTimeline(c.ID)
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Title)
	assert.Equal(t, "second", events[1].Title)
}

func TestGetClientTimeline_UnknownClient(t *testing.T) {
	s, _ := newTestStores(t)
	events := s.Clients.GetClientTimeline("CLI-missing")
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
