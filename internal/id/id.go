package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type EntityType string

const (
	Client      EntityType = "CLI"
	Interaction EntityType = "INT"
	DocumentRef EntityType = "REF"
	Document    EntityType = "DOC"
)

var allTypes = []EntityType{Client, Interaction, DocumentRef, Document}

// New returns "<prefix>-<uuid>". The suffix is a version 7 UUID, so ids stay
// unique even when many are minted within the same millisecond.
func New(t EntityType) (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return string(t) + "-" + u.String(), nil
}

func Parse(id string) (EntityType, uuid.UUID, error) {
	prefix, rest, ok := strings.Cut(id, "-")
	if !ok {
		return "", uuid.Nil, fmt.Errorf("invalid id %q: missing separator", id)
	}
	t, err := parsePrefix(prefix)
	if err != nil {
		return "", uuid.Nil, err
	}
	u, err := uuid.Parse(rest)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return t, u, nil
}

func TypeOf(id string) (EntityType, error) {
	t, _, err := Parse(id)
	return t, err
}

func parsePrefix(prefix string) (EntityType, error) {
	for _, t := range allTypes {
		if string(t) == prefix {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity prefix %q", prefix)
}
