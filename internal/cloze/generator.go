// Package cloze builds fill-in-the-blank questions from sentences.
package cloze

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
)

// BlankMarker is the display form of a blanked token.
const BlankMarker = "_____"

// ErrNoEligibleToken is returned when a sentence has no token that can be
// blanked, e.g. a sentence consisting only of punctuation.
var ErrNoEligibleToken = errors.New("no eligible token to blank")

// Punctuation covers Latin and CJK punctuation. A token made up
// entirely of these characters can't be blanked, and the characters are
// stripped from recorded answer words. Word-cleaning elsewhere strips
// the same set so answers and candidate words stay comparable.
const Punctuation = ".?¿¡!,;:\"'“”‘’()「」。、？！，；："

// Blank is one blanked token of a cloze sentence.
type Blank struct {
	// Word is the expected answer with surrounding punctuation stripped.
	Word string `yaml:"word"`

	// Index is the token's 0-based position in logical (left-to-right)
	// order, regardless of display direction.
	Index int `yaml:"index"`

	// Options holds multiple-choice options when that mode is active.
	// Empty otherwise.
	Options []string `yaml:"options,omitempty"`
}

// Cloze is a generated cloze question for one sentence.
type Cloze struct {
	// Masked is the display sentence with blanked tokens replaced by
	// BlankMarker, token order reversed for right-to-left scripts.
	Masked string `yaml:"masked"`

	// Blanks are the blanked tokens in ascending logical index order.
	Blanks []Blank `yaml:"blanks"`
}

// Generate blanks up to blankCount tokens of a whitespace-tokenized
// sentence. Tokens that are pure punctuation are never blanked. When
// allowedIndices is non-empty, only those 1-based token positions are
// eligible. The actual blank count is clamped to the number of eligible
// positions; a sentence with none yields ErrNoEligibleToken.
func Generate(rng *rand.Rand, sentence string, blankCount int, reverse bool, allowedIndices []int) (Cloze, error) {
	tokens := strings.Fields(sentence)

	eligible := eligibleIndices(tokens, allowedIndices)
	if len(eligible) == 0 {
		return Cloze{}, ErrNoEligibleToken
	}
	if blankCount < 1 {
		blankCount = 1
	}
	if blankCount > len(eligible) {
		blankCount = len(eligible)
	}

	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	selected := eligible[:blankCount]
	sort.Ints(selected)

	blanks := make([]Blank, 0, blankCount)
	masked := make([]string, len(tokens))
	copy(masked, tokens)
	for _, index := range selected {
		blanks = append(blanks, Blank{
			Word:  strings.Trim(tokens[index], Punctuation),
			Index: index,
		})
		masked[index] = BlankMarker
	}

	if reverse {
		for i, j := 0, len(masked)-1; i < j; i, j = i+1, j-1 {
			masked[i], masked[j] = masked[j], masked[i]
		}
	}

	return Cloze{
		Masked: strings.Join(masked, " "),
		Blanks: blanks,
	}, nil
}

// MaskTransliteration blanks the same logical token positions in a
// transliterated form of the sentence, so the transliteration doesn't give
// the answer away. Positions beyond the transliteration's token count are
// ignored (segmentations may disagree).
func MaskTransliteration(transliteration string, blanks []Blank, reverse bool) string {
	if transliteration == "" {
		return ""
	}
	tokens := strings.Fields(transliteration)
	for _, blank := range blanks {
		if blank.Index < len(tokens) {
			tokens[blank.Index] = BlankMarker
		}
	}
	if reverse {
		for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
			tokens[i], tokens[j] = tokens[j], tokens[i]
		}
	}
	return strings.Join(tokens, " ")
}

func eligibleIndices(tokens []string, allowedIndices []int) []int {
	allowed := make(map[int]struct{}, len(allowedIndices))
	for _, index := range allowedIndices {
		// uploader indices are 1-based
		allowed[index-1] = struct{}{}
	}

	var eligible []int
	for i, token := range tokens {
		if strings.Trim(token, Punctuation) == "" {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[i]; !ok {
				continue
			}
		}
		eligible = append(eligible, i)
	}
	return eligible
}
