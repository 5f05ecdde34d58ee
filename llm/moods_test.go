// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"testing"
)

func TestLoadMoods(t *testing.T) {
	c, err := LoadMoods()
	if err != nil {
		t.Fatalf("LoadMoods() error = %v", err)
	}

	want := []string{"Casual/Playful", "Flirty/Romantic", "Deep/Intimate", "Spicy/Sensual", "Erotic/Naughty"}
	all := c.All()
	if len(all) != len(want) {
		t.Fatalf("got %d moods, want %d", len(all), len(want))
	}
	for i, label := range want {
		if all[i].Label != label {
			t.Errorf("mood %d = %s, want %s", i, all[i].Label, label)
		}
		if all[i].Description == "" {
			t.Errorf("mood %s has no description", label)
		}
	}
}

func TestMoodLookup(t *testing.T) {
	c := MustLoadMoods()

	tests := []struct {
		input string
		want  string
		found bool
	}{
		{"Flirty/Romantic", "Flirty/Romantic", true},
		{"Flirty / Romantic", "Flirty/Romantic", true},
		{"  deep/intimate ", "Deep/Intimate", true},
		{"Angry/Shouty", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		m, ok := c.Lookup(tt.input)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tt.input, ok, tt.found)
		}
		if m.Label != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.input, m.Label, tt.want)
		}
	}
}

func TestParseMoodsRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "moods:\n  - label: A\n    description: a\n    colour: red\n"},
		{"empty catalog", "moods: []\n"},
		{"missing description", "moods:\n  - label: A\n"},
		{"duplicate label", "moods:\n  - label: A/B\n    description: x\n  - label: a / b\n    description: y\n"},
		{"not yaml", "moods: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMoods([]byte(tt.yaml)); err == nil {
				t.Error("ParseMoods() expected error, got nil")
			}
		})
	}
}
