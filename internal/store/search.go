package store

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rogersnm/frontdesk/internal/model"
)

type SearchResult struct {
	Type    string
	ID      string
	Title   string
	Snippet string
}

// Search runs the client and document searches together. Client hits on
// notes carry a snippet around the match.
func (s *Stores) Search(query string) []SearchResult {
	q := strings.ToLower(query)
	var results []SearchResult

	for _, c := range s.Clients.SearchClients(query) {
		r := SearchResult{Type: "client", ID: c.ID, Title: c.Name}
		if !matchesQuery(q, c.Name) && matchesQuery(q, c.Notes) {
			r.Snippet = snippet(c.Notes, q)
		}
		results = append(results, r)
	}
	for _, d := range s.Documents.SearchDocuments(query) {
		results = append(results, SearchResult{Type: "document", ID: d.ID, Title: d.Name})
	}
	return results
}

func clientMatches(c *model.Client, q string) bool {
	return matchesQuery(q, c.Name) ||
		matchesQuery(q, c.Email) ||
		matchesQuery(q, c.Phone) ||
		matchesQuery(q, c.Notes)
}

func documentMatches(d *model.Document, q string) bool {
	if matchesQuery(q, d.Name) || matchesQuery(q, d.Type) {
		return true
	}
	return slices.ContainsFunc(d.Tags, func(t string) bool { return matchesQuery(q, t) })
}

// matchesQuery expects q already lowercased.
func matchesQuery(q, text string) bool {
	return strings.Contains(strings.ToLower(text), q)
}

// snippet returns the match with up to 40 runes of context on each side.
// query must already be lowercased.
func snippet(body, query string) string {
	text := []rune(body)
	q := []rune(query)
	idx := indexFold(text, q)
	if idx < 0 {
		return ""
	}
	start := max(idx-40, 0)
	end := min(idx+len(q)+40, len(text))
	s := string(text[start:end])
	if start > 0 {
		s = "..." + s
	}
	if end < len(text) {
		s = s + "..."
	}
	return strings.ReplaceAll(s, "\n", " ")
}

// indexFold returns the rune offset of q in text, comparing text lowercased
// rune by rune, or -1.
func indexFold(text, q []rune) int {
	for i := 0; i+len(q) <= len(text); i++ {
		match := true
		for j, r := range q {
			if unicode.ToLower(text[i+j]) != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
