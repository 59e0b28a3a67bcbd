// Package distractor finds plausible wrong answers for multiple-choice
// cloze questions by edit distance over a sampled slice of the corpus.
package distractor

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/opencloze/opencloze/internal/cloze"
)

// ErrInsufficient is returned when the scanned sentences do not contain
// enough distinct candidate words. Callers may retry with a larger
// sampleCap before giving up.
var ErrInsufficient = errors.New("insufficient distractors")

const (
	// DefaultCandidateSampleSize is how many closest words are kept
	// before the final uniform draw.
	DefaultCandidateSampleSize = 100

	// DefaultSampleCap bounds how many sentences of the pool are scanned
	// for candidate words.
	DefaultSampleCap = 500
)


// Sample draws n distinct distractors for targetWord from the pool of
// translation strings. It scans a random subset of at most sampleCap
// sentences, ranks the deduplicated words by Levenshtein distance to the
// target, keeps the candidateSampleSize closest, and uniformly samples n
// of those. The target word itself is never returned. If fewer than n
// distinct candidates exist, an error is returned rather than a short
// result.
func Sample(rng *rand.Rand, pool []string, targetWord string, n, candidateSampleSize, sampleCap int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("distractor count must be positive, got %d", n)
	}

	scan := pool
	if len(pool) > sampleCap {
		indices := rng.Perm(len(pool))[:sampleCap]
		scan = make([]string, 0, sampleCap)
		for _, i := range indices {
			scan = append(scan, pool[i])
		}
	}

	candidates := candidateWords(scan, targetWord)
	if len(candidates) < n {
		return nil, fmt.Errorf("%w: need %d, found %d distinct candidates", ErrInsufficient, n, len(candidates))
	}

	rankByDistance(candidates, targetWord)
	if len(candidates) > candidateSampleSize {
		candidates = candidates[:candidateSampleSize]
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:n], nil
}

// candidateWords collects the deduplicated, lowercased, punctuation-free
// words of the scanned sentences, in first-seen order, excluding the
// target word.
func candidateWords(sentences []string, targetWord string) []string {
	target := strings.ToLower(targetWord)
	seen := make(map[string]struct{})
	var words []string
	for _, sentence := range sentences {
		for _, field := range strings.Fields(strings.ToLower(sentence)) {
			word := strings.Trim(field, cloze.Punctuation)
			if word == "" || word == target {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}
	return words
}

// rankByDistance sorts words by edit distance to the target ascending.
// The sort is stable over first-seen order so results are deterministic
// for a fixed rand seed.
func rankByDistance(words []string, targetWord string) {
	target := strings.ToLower(targetWord)
	distances := make(map[string]int, len(words))
	for _, word := range words {
		distances[word] = levenshtein.ComputeDistance(target, word)
	}
	sort.SliceStable(words, func(i, j int) bool {
		return distances[words[i]] < distances[words[j]]
	})
}
