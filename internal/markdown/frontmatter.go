package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/rogersnm/frontdesk/internal/model"
)

// Parse reads YAML frontmatter and body from r into T.
func Parse[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// Marshal serializes meta as YAML frontmatter followed by body.
func Marshal[T any](meta T, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// MarshalClient writes the client's profile as frontmatter with the notes as
// the markdown body. Interactions and document references are left out.
func MarshalClient(c model.Client) ([]byte, error) {
	return Marshal(c, c.Notes)
}

// ParseClient reads a file written by MarshalClient. The body becomes Notes.
func ParseClient(r io.Reader) (model.Client, error) {
	c, body, err := Parse[model.Client](r)
	if err != nil {
		return model.Client{}, err
	}
	if c.ID == "" {
		return model.Client{}, fmt.Errorf("client file has no id")
	}
	c.Notes = body
	return c, nil
}
