// Package difficulty computes static per-sentence difficulty scores from
// corpus term rarity. Scoring runs once per ingestion batch, not per round.
package difficulty

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/opencloze/opencloze/internal/cloze"
)

// DefaultRarityFloorPercentile is the fraction of the lowest idf weights
// averaged to stand in for out-of-vocabulary words.
const DefaultRarityFloorPercentile = 0.10

// Scorer holds idf weights fitted over one corpus. Words not seen during
// fitting score at the floor weight, i.e. they are treated as common
// rather than maximally rare.
type Scorer struct {
	weights     map[string]float64
	floorWeight float64
}

// Fit builds idf weights over the corpus, one document per sentence,
// using the smoothed idf formulation ln((1+n)/(1+df)) + 1.
func Fit(sentences []string, rarityFloorPercentile float64) (*Scorer, error) {
	if len(sentences) == 0 {
		return nil, errors.New("cannot fit a difficulty scorer on an empty corpus")
	}
	if rarityFloorPercentile <= 0 || rarityFloorPercentile > 1 {
		rarityFloorPercentile = DefaultRarityFloorPercentile
	}

	documentFrequency := make(map[string]int)
	for _, sentence := range sentences {
		for word := range wordSet(sentence) {
			documentFrequency[word]++
		}
	}

	n := float64(len(sentences))
	weights := make(map[string]float64, len(documentFrequency))
	for word, df := range documentFrequency {
		weights[word] = math.Log((1+n)/(1+float64(df))) + 1
	}

	return &Scorer{
		weights:     weights,
		floorWeight: floorWeight(weights, rarityFloorPercentile),
	}, nil
}

// floorWeight averages the lowest percentile of fitted weights.
func floorWeight(weights map[string]float64, percentile float64) float64 {
	sorted := make([]float64, 0, len(weights))
	for _, w := range weights {
		sorted = append(sorted, w)
	}
	sort.Float64s(sorted)

	count := int(math.Ceil(float64(len(sorted)) * percentile))
	if count < 1 {
		count = 1
	}
	sum := 0.0
	for _, w := range sorted[:count] {
		sum += w
	}
	return sum / float64(count)
}

// Score computes a sentence's difficulty: the mean of the mean and the sum
// of its word weights, blending lexical rarity with sentence length.
// Rounded to 2 decimals; lower is easier.
func (s *Scorer) Score(sentence string) float64 {
	words := tokenize(sentence)
	if len(words) == 0 {
		return 0
	}

	sum := 0.0
	for _, word := range words {
		weight, ok := s.weights[word]
		if !ok {
			weight = s.floorWeight
		}
		sum += weight
	}
	mean := sum / float64(len(words))
	return math.Round((mean+sum)/2*100) / 100
}

// ScoreAll scores every sentence with a scorer fitted on that same corpus.
func ScoreAll(sentences []string, rarityFloorPercentile float64) ([]float64, error) {
	scorer, err := Fit(sentences, rarityFloorPercentile)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(sentences))
	for i, sentence := range sentences {
		scores[i] = scorer.Score(sentence)
	}
	return scores, nil
}

func tokenize(sentence string) []string {
	fields := strings.Fields(strings.ToLower(sentence))
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, cloze.Punctuation)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return words
}

func wordSet(sentence string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range tokenize(sentence) {
		set[word] = struct{}{}
	}
	return set
}
