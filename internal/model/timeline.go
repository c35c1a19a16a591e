package model

import "time"

type TimelineKind string

const (
	TimelineCreation    TimelineKind = "creation"
	TimelineInteraction TimelineKind = "interaction"
	TimelineDocument    TimelineKind = "document"
)

type TimelineEvent struct {
	Kind        TimelineKind `json:"type"`
	Timestamp   time.Time    `json:"timestamp"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
}
