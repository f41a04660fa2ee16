package viz

import (
	"encoding/json"
	"fmt"
)

// Agent is an author or publisher of the rendered dataset.
type Agent struct {
	Name string
	URL  string
	// Organization marks the agent as a schema.org Organization rather than a Person.
	Organization bool
}

// Metadata describes the page for search engines and citation tools.
type Metadata struct {
	Name         string
	Description  string
	URL          string
	License      string
	Keywords     []string
	DateModified string // YYYY-MM-DD
	Authors      []Agent
	Publisher    *Agent
}

type ldAgent struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type ldDataset struct {
	Context      string    `json:"@context"`
	Type         string    `json:"@type"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	URL          string    `json:"url,omitempty"`
	License      string    `json:"license,omitempty"`
	Keywords     []string  `json:"keywords,omitempty"`
	DateModified string    `json:"dateModified,omitempty"`
	Author       []ldAgent `json:"author,omitempty"`
	Publisher    *ldAgent  `json:"publisher,omitempty"`
}

func toLDAgent(a Agent) ldAgent {
	t := "Person"
	if a.Organization {
		t = "Organization"
	}
	return ldAgent{Type: t, Name: a.Name, URL: a.URL}
}

// JSONLD returns the schema.org Dataset description of the page.
func (m Metadata) JSONLD() (string, error) {
	doc := ldDataset{
		Context:      "https://schema.org",
		Type:         "Dataset",
		Name:         m.Name,
		Description:  m.Description,
		URL:          m.URL,
		License:      m.License,
		Keywords:     m.Keywords,
		DateModified: m.DateModified,
	}
	for _, a := range m.Authors {
		doc.Author = append(doc.Author, toLDAgent(a))
	}
	if m.Publisher != nil {
		p := toLDAgent(*m.Publisher)
		doc.Publisher = &p
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}
	return string(data), nil
}

// AuthorNames lists the author names for the <meta name="author"> tag.
func (m Metadata) AuthorNames() []string {
	names := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		names = append(names, a.Name)
	}
	return names
}
