package model

import (
	"slices"
	"time"
)

type Client struct {
	ID                string        `json:"id" yaml:"id"`
	Name              string        `json:"name,omitempty" yaml:"name"`
	Email             string        `json:"email,omitempty" yaml:"email,omitempty"`
	Phone             string        `json:"phone,omitempty" yaml:"phone,omitempty"`
	Category          string        `json:"category,omitempty" yaml:"category,omitempty"`
	Address           string        `json:"address,omitempty" yaml:"address,omitempty"`
	Notes             string        `json:"notes,omitempty" yaml:"-"`
	Status            ClientStatus  `json:"status" yaml:"status"`
	PolicyRenewalDate *time.Time    `json:"policyRenewalDate,omitempty" yaml:"policy_renewal_date,omitempty"`
	LastContactDate   *time.Time    `json:"lastContactDate,omitempty" yaml:"last_contact_date,omitempty"`
	CreatedAt         time.Time     `json:"createdAt" yaml:"created_at"`
	UpdatedAt         *time.Time    `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
	StatusUpdatedAt   *time.Time    `json:"statusUpdatedAt,omitempty" yaml:"status_updated_at,omitempty"`
	Interactions      []Interaction `json:"interactions" yaml:"-"`
	Documents         []DocumentRef `json:"documents" yaml:"-"`
}

type Interaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DocumentRef is the client's own lightweight record of a document. It is
// not kept in sync with the document store.
type DocumentRef struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId,omitempty"`
	Name       string    `json:"name"`
	Type       string    `json:"type,omitempty"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Normalize replaces nil logs with empty slices.
func (c *Client) Normalize() {
	if c.Interactions == nil {
		c.Interactions = []Interaction{}
	}
	if c.Documents == nil {
		c.Documents = []DocumentRef{}
	}
}

// Clone returns a deep copy that shares no memory with c.
func (c Client) Clone() Client {
	out := c
	out.PolicyRenewalDate = cloneTime(c.PolicyRenewalDate)
	out.LastContactDate = cloneTime(c.LastContactDate)
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	out.StatusUpdatedAt = cloneTime(c.StatusUpdatedAt)
	out.Interactions = slices.Clone(c.Interactions)
	out.Documents = slices.Clone(c.Documents)
	out.Normalize()
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
