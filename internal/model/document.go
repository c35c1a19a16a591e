package model

import (
	"slices"
	"time"
)

type Document struct {
	ID             string         `json:"id"`
	ClientID       string         `json:"clientId"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Size           int64          `json:"size,omitempty"`
	MimeType       string         `json:"mimeType,omitempty"`
	URL            string         `json:"url,omitempty"`
	Description    string         `json:"description,omitempty"`
	Tags           []string       `json:"tags"`
	Status         DocumentStatus `json:"status"`
	Versions       []Version      `json:"versions"`
	CurrentVersion int            `json:"currentVersion,omitempty"`
	UploadedAt     time.Time      `json:"uploadedAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
	ArchivedAt     *time.Time     `json:"archivedAt,omitempty"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty"`
}

// Version is a snapshot of a document's file fields at one point in time.
type Version struct {
	Number    int       `json:"number"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name,omitempty"`
	Type      string    `json:"type,omitempty"`
	Size      int64     `json:"size,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
	URL       string    `json:"url,omitempty"`
	Comment   string    `json:"comment,omitempty"`
}

// LatestVersion returns the highest version number, which is 1 for a fresh
// document.
func (d *Document) LatestVersion() int {
	n := 0
	for _, v := range d.Versions {
		if v.Number > n {
			n = v.Number
		}
	}
	return n
}

// Normalize replaces a nil tag list with an empty one.
func (d *Document) Normalize() {
	if d.Tags == nil {
		d.Tags = []string{}
	}
}

func (d *Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Clone returns a deep copy that shares no memory with d.
func (d Document) Clone() Document {
	out := d
	out.Tags = slices.Clone(d.Tags)
	out.Versions = slices.Clone(d.Versions)
	out.UpdatedAt = cloneTime(d.UpdatedAt)
	out.ArchivedAt = cloneTime(d.ArchivedAt)
	out.DeletedAt = cloneTime(d.DeletedAt)
	out.Normalize()
	return out
}

// UniqueTags drops empty and repeated tags, keeping first-seen order. The
// result is never nil.
func UniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

type DocumentStats struct {
	Total         int                    `json:"total"`
	ByType        map[string]int         `json:"byType"`
	ByStatus      map[DocumentStatus]int `json:"byStatus"`
	RecentUploads int                    `json:"recentUploads"`
}
