package eventfile

import (
	"fmt"
	"os"
)

// Candidate is an ad eligible for selection. Lower non-zero priorities are
// preferred; 0 means ineligible.
type Candidate struct {
	ID   string `json:"id"`
	Rank int    `json:"priority"`
}

// Priority implements priority.Prioritized.
func (c Candidate) Priority() int {
	return c.Rank
}

type candidateDocument struct {
	Candidates []Candidate `json:"candidates"`
}

// LoadCandidates reads a candidate file from disk.
func (l *Loader) LoadCandidates(path string) ([]Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidate file: %w", err)
	}
	return l.ParseCandidates(path, data)
}

// ParseCandidates decodes a candidate document.
func (l *Loader) ParseCandidates(filename string, data []byte) ([]Candidate, error) {
	var doc candidateDocument
	if err := l.decode(filename, data, "#Candidates", &doc); err != nil {
		return nil, err
	}
	if doc.Candidates == nil {
		return []Candidate{}, nil
	}
	return doc.Candidates, nil
}
