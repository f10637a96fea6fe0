package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kutbudev/tracker/internal/models"
)

// tokenize splits text into lowercase word tokens
func tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

// JaccardSimilarity calculates word-level Jaccard similarity between two strings.
// Returns a value between 0.0 (no similarity) and 1.0 (identical).
func JaccardSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// normalizeForMatch removes spaces, hyphens, underscores, dots for fuzzy matching.
// "Acme Corp" -> "acmecorp"
// "acme-corp" -> "acmecorp"
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

// nameMatch is a fuzzy match of a reference against a catalog name
type nameMatch struct {
	Name       string
	Confidence float64 // 0.0-1.0
	MatchType  string  // "normalized", "contains", "prefix", "words"
}

// fuzzyMatchNames finds names that fuzzy-match the input string, best first.
// Inputs shorter than 3 characters never match.
func fuzzyMatchNames(names []string, input string) []nameMatch {
	input = strings.TrimSpace(input)
	if len(input) < 3 {
		return nil
	}
	inputNorm := normalizeForMatch(input)
	if inputNorm == "" {
		return nil
	}

	var matches []nameMatch
	for _, name := range names {
		nameNorm := normalizeForMatch(name)
		if nameNorm == "" {
			continue
		}

		// 1. Normalized exact match
		if inputNorm == nameNorm {
			matches = append(matches, nameMatch{Name: name, Confidence: 0.95, MatchType: "normalized"})
			continue
		}

		// 2. Substring either way
		if strings.Contains(nameNorm, inputNorm) || strings.Contains(inputNorm, nameNorm) {
			shorter, longer := len(inputNorm), len(nameNorm)
			if shorter > longer {
				shorter, longer = longer, shorter
			}
			score := 0.70 + float64(shorter)/float64(longer)*0.20
			matches = append(matches, nameMatch{Name: name, Confidence: score, MatchType: "contains"})
			continue
		}

		// 3. Common prefix of at least half the shorter string
		if p := commonPrefix(inputNorm, nameNorm); p >= 3 {
			shorter, longer := len(inputNorm), len(nameNorm)
			if shorter > longer {
				shorter, longer = longer, shorter
			}
			if p*2 >= shorter {
				score := 0.60 + float64(p)/float64(longer)*0.25
				matches = append(matches, nameMatch{Name: name, Confidence: score, MatchType: "prefix"})
				continue
			}
		}

		// 4. Shared words
		if sim := JaccardSimilarity(input, name); sim >= 0.5 {
			matches = append(matches, nameMatch{Name: name, Confidence: sim * 0.8, MatchType: "words"})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

const maxSuggestions = 3

// suggest decorates a project or tag not-found error with close catalog names.
// Any other error, or a lookup failure, returns err unchanged.
func (s *Server) suggest(ctx context.Context, err error) error {
	var e *models.Error
	if !errors.As(err, &e) || !errors.Is(err, models.ErrNotFound) || e.Ref == "" {
		return err
	}

	var names []string
	switch e.Model {
	case "project":
		projects, lerr := s.service.ListProjects(ctx)
		if lerr != nil {
			return err
		}
		for _, p := range projects {
			names = append(names, p.Name)
		}
	case "tag":
		tags, lerr := s.service.ListTags(ctx)
		if lerr != nil {
			return err
		}
		for _, t := range tags {
			names = append(names, t.Name)
		}
	default:
		return err
	}

	matches := fuzzyMatchNames(names, e.Ref)
	if len(matches) == 0 {
		return err
	}
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	quoted := make([]string, len(matches))
	for i, m := range matches {
		quoted[i] = fmt.Sprintf("%q", m.Name)
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(quoted, ", "))
}
