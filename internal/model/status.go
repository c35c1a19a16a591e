package model

import "fmt"

// ClientStatus is an open set: stores keep whatever value they are given.
type ClientStatus string

const (
	ClientProspect ClientStatus = "prospect"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

var KnownClientStatuses = []ClientStatus{ClientProspect, ClientActive, ClientInactive}

// IsKnown reports whether s is one of the documented client statuses.
func (s ClientStatus) IsKnown() bool {
	for _, v := range KnownClientStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type DocumentStatus string

const (
	DocumentActive   DocumentStatus = "active"
	DocumentArchived DocumentStatus = "archived"
	DocumentDeleted  DocumentStatus = "deleted"
)

var DocumentStatuses = []DocumentStatus{DocumentActive, DocumentArchived, DocumentDeleted}

func ValidateDocumentStatus(s DocumentStatus) error {
	for _, v := range DocumentStatuses {
		if s == v {
			return nil
		}
	}
	return fmt.Errorf("invalid document status %q: must be one of active, archived, deleted", s)
}

// CanTransition reports whether a document may move from s to next.
// Repeating the current terminal state is allowed; nothing leaves deleted.
func (s DocumentStatus) CanTransition(next DocumentStatus) bool {
	switch s {
	case DocumentActive:
		return next == DocumentArchived || next == DocumentDeleted
	case DocumentArchived:
		return next == DocumentArchived || next == DocumentDeleted
	case DocumentDeleted:
		return next == DocumentDeleted
	}
	return false
}
