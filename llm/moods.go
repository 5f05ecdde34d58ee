// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed moods.yaml
var moodsYAML []byte

// Mood is one entry of the mood catalog.
type Mood struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

type moodFile struct {
	Moods []Mood `yaml:"moods"`
}

// MoodCatalog is the ordered set of moods question sets can be generated for.
type MoodCatalog struct {
	moods []Mood
}

// LoadMoods parses the embedded mood catalog.
func LoadMoods() (*MoodCatalog, error) {
	return ParseMoods(moodsYAML)
}

// MustLoadMoods is LoadMoods for package initialization; it panics on error.
func MustLoadMoods() *MoodCatalog {
	c, err := LoadMoods()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseMoods decodes a mood catalog, rejecting unknown fields, empty entries
// and duplicate labels.
func ParseMoods(data []byte) (*MoodCatalog, error) {
	var f moodFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse mood catalog: %w", err)
	}
	if len(f.Moods) == 0 {
		return nil, errors.New("mood catalog is empty")
	}

	seen := make(map[string]bool, len(f.Moods))
	for i, m := range f.Moods {
		if strings.TrimSpace(m.Label) == "" || strings.TrimSpace(m.Description) == "" {
			return nil, fmt.Errorf("mood %d: label and description are required", i)
		}
		key := moodKey(m.Label)
		if seen[key] {
			return nil, fmt.Errorf("mood %q is listed twice", m.Label)
		}
		seen[key] = true
	}

	return &MoodCatalog{moods: f.Moods}, nil
}

// All returns the moods in catalog order.
func (c *MoodCatalog) All() []Mood {
	out := make([]Mood, len(c.moods))
	copy(out, c.moods)
	return out
}

// Lookup finds a mood by label, ignoring case and spacing so that
// "Flirty / Romantic" matches "Flirty/Romantic".
func (c *MoodCatalog) Lookup(label string) (Mood, bool) {
	key := moodKey(label)
	for _, m := range c.moods {
		if moodKey(m.Label) == key {
			return m, true
		}
	}
	return Mood{}, false
}

func moodKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), ""))
}
