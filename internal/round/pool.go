package round

import (
	"fmt"
	"math"
	"sort"

	"github.com/opencloze/opencloze/internal/corpus"
)

// selectPool filters the corpus to the round's candidate sentences.
// fullPool is the set-filtered corpus (used for difficulty percentiles
// and distractor sampling); pool additionally applies the difficulty
// band or sentence-id range.
func selectPool(records []corpus.SentenceRecord, cfg Config) (pool, fullPool []corpus.SentenceRecord, err error) {
	fullPool = corpus.FilterBySet(records, cfg.Set)
	if len(fullPool) == 0 {
		return nil, nil, fmt.Errorf("no sentences match set %q", cfg.Set)
	}

	if cfg.GuessTransliteration {
		swapped := make([]corpus.SentenceRecord, len(fullPool))
		copy(swapped, fullPool)
		for i := range swapped {
			swapped[i].Translation, swapped[i].Transliteration =
				swapped[i].Transliteration, swapped[i].Translation
		}
		fullPool = swapped
	}

	if cfg.Randomize {
		difficulties := make([]float64, 0, len(fullPool))
		for _, record := range fullPool {
			difficulties = append(difficulties, record.Difficulty)
		}
		lower := quantile(difficulties, cfg.PercentileLow/100)
		upper := quantile(difficulties, cfg.PercentileHigh/100)

		for _, record := range fullPool {
			if record.Difficulty >= lower && record.Difficulty <= upper {
				pool = append(pool, record)
			}
		}
	} else {
		for _, record := range fullPool {
			if record.SentenceID >= cfg.SequentialFrom && record.SentenceID <= cfg.SequentialTo {
				pool = append(pool, record)
			}
		}
		sort.Slice(pool, func(i, j int) bool {
			return pool[i].SentenceID < pool[j].SentenceID
		})
	}

	if len(pool) == 0 {
		return nil, nil, fmt.Errorf("no sentences match the requested filters in set %q", cfg.Set)
	}
	return pool, fullPool, nil
}

// quantile computes the q-quantile (0-1) of values with linear
// interpolation between order statistics.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	position := q * float64(len(sorted)-1)
	lower := int(math.Floor(position))
	upper := int(math.Ceil(position))
	if lower == upper {
		return sorted[lower]
	}
	fraction := position - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// difficultyPercentile is the fraction of the full pool with strictly
// lower difficulty than the given score.
func difficultyPercentile(fullPool []corpus.SentenceRecord, difficulty float64) float64 {
	if len(fullPool) == 0 {
		return 0
	}
	below := 0
	for _, record := range fullPool {
		if record.Difficulty < difficulty {
			below++
		}
	}
	return float64(below) / float64(len(fullPool))
}
