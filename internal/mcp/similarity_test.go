package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kutbudev/tracker/internal/models"
)

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		minScore float64
		maxScore float64
	}{
		{
			name:     "identical strings",
			a:        "Client Website",
			b:        "Client Website",
			minScore: 0.99,
			maxScore: 1.0,
		},
		{
			name:     "shared words",
			a:        "Client Website Redesign",
			b:        "Website Redesign",
			minScore: 0.6,
			maxScore: 0.7,
		},
		{
			name:     "completely different strings",
			a:        "Internal Tooling",
			b:        "Client Website",
			minScore: 0.0,
			maxScore: 0.0,
		},
		{
			name:     "empty string handling",
			a:        "",
			b:        "Some content",
			minScore: 0.0,
			maxScore: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := JaccardSimilarity(tt.a, tt.b)
			if score < tt.minScore || score > tt.maxScore {
				t.Errorf("JaccardSimilarity(%q, %q) = %v, want between %v and %v",
					tt.a, tt.b, score, tt.minScore, tt.maxScore)
			}
		})
	}
}

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Corp", "acmecorp"},
		{"acme-corp", "acmecorp"},
		{"example.com", "examplecom"},
		{"my_project", "myproject"},
		{"UPPER CASE", "uppercase"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := normalizeForMatch(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeForMatch(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFuzzyMatchNames(t *testing.T) {
	names := []string{"example.com", "Acme Frontend", "Acme Backend", "Internal Tooling"}

	t.Run("substring match", func(t *testing.T) {
		matches := fuzzyMatchNames(names, "example")
		if len(matches) == 0 {
			t.Fatal("Expected at least one match")
		}
		if matches[0].Name != "example.com" {
			t.Errorf("Expected top match 'example.com', got %q", matches[0].Name)
		}
		if matches[0].MatchType != "contains" {
			t.Errorf("Expected match type 'contains', got %q", matches[0].MatchType)
		}
	})

	t.Run("normalized exact match", func(t *testing.T) {
		matches := fuzzyMatchNames(names, "acme_frontend")
		if len(matches) == 0 {
			t.Fatal("Expected at least one match")
		}
		if matches[0].Name != "Acme Frontend" || matches[0].Confidence != 0.95 {
			t.Errorf("top match = %+v, want Acme Frontend at 0.95", matches[0])
		}
	})

	t.Run("shared prefix matches both", func(t *testing.T) {
		matches := fuzzyMatchNames(names, "acme")
		if len(matches) != 2 {
			t.Fatalf("Expected 2 matches, got %d", len(matches))
		}
	})

	t.Run("typo in suffix", func(t *testing.T) {
		matches := fuzzyMatchNames(names, "internal-toolin")
		if len(matches) == 0 || matches[0].Name != "Internal Tooling" {
			t.Fatalf("matches = %+v, want Internal Tooling first", matches)
		}
	})

	t.Run("short input ignored", func(t *testing.T) {
		if matches := fuzzyMatchNames(names, "ac"); matches != nil {
			t.Errorf("Expected nil for short input, got %v", matches)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if matches := fuzzyMatchNames(names, "zzzzzz"); len(matches) != 0 {
			t.Errorf("Expected no matches, got %v", matches)
		}
	})
}

func TestSuggest(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	err := s.suggest(ctx, models.NotFound("project", "acm"))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("suggest() error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), `did you mean "acme"`) {
		t.Errorf("suggest() = %q, want a suggestion for acme", err.Error())
	}

	plain := models.TimerIsNotRunning()
	if got := s.suggest(ctx, plain); got != plain {
		t.Errorf("suggest() changed an unrelated error: %v", got)
	}

	miss := models.NotFound("project", "zzzzzz")
	if got := s.suggest(ctx, miss); got != miss {
		t.Errorf("suggest() = %v, want error unchanged", got)
	}
}
