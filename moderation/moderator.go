// Package moderation censors forbidden words in chat lines before they are
// persisted or fanned out to room members.
package moderation

import (
	"chatd/errors"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// mapping links the normalized search text back to rune positions in the
// original line, so the censor can overwrite exactly the matched span.
type mapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton from the normalized word
// list. Matching is case-insensitive and resistant to common leet spellings
// and punctuation noise.
func NewModerator(words []string, replacement rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		normalized := normalizeRunes([]rune(word))
		if len(normalized) == 0 {
			// Punctuation-only entries normalize to nothing and would match
			// everywhere.
			continue
		}
		patterns = append(patterns, normalized)
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, replacement: replacement}, nil
}

// Censor replaces every rune of a matched span with the replacement rune,
// preserving spacing and untouched text.
func (m *Moderator) Censor(line string) string {
	normalized := normalize(line)
	if len(normalized.normalized) == 0 {
		return line
	}

	spans := m.matcher.MultiPatternSearch(normalized.normalized, false)
	if len(spans) == 0 {
		return line
	}

	runes := []rune(line)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(normalized.origIdx) {
			continue
		}

		origStart := normalized.origIdx[start]
		origEnd := normalized.origIdx[end-1] + 1
		for i := origStart; i < origEnd; i++ {
			runes[i] = m.replacement
		}
	}

	return string(runes)
}

func normalize(line string) mapping {
	runes := []rune(line)
	result := mapping{
		normalized: make([]rune, 0, len(runes)),
		origIdx:    make([]int, 0, len(runes)),
	}

	for i, r := range runes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		result.normalized = append(result.normalized, unicode.ToLower(clean))
		result.origIdx = append(result.origIdx, i)
	}
	return result
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
