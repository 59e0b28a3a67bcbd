package distractor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool = []string{
	"El gato come pescado.",
	"El perro come carne.",
	"La gata duerme mucho.",
	"Los gatos corren rápido.",
	"Un pato nada en el lago.",
}

func TestSample_basicProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		distractors, err := Sample(rng, testPool, "gato", 3, DefaultCandidateSampleSize, DefaultSampleCap)
		require.NoError(t, err)
		require.Len(t, distractors, 3)

		seen := make(map[string]struct{})
		for _, word := range distractors {
			assert.NotEqual(t, "gato", word)
			_, duplicate := seen[word]
			assert.False(t, duplicate, "duplicate distractor %q", word)
			seen[word] = struct{}{}
		}
	}
}

func TestSample_prefersCloseWords(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// with candidateSampleSize=2 only the two closest words can be drawn;
	// "gata" and "gatos" are both distance 1 and seen before "pato"
	distractors, err := Sample(rng, testPool, "gato", 2, 2, DefaultSampleCap)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gata", "gatos"}, distractors)
}

func TestSample_insufficientCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Sample(rng, []string{"hola mundo"}, "hola", 3, DefaultCandidateSampleSize, DefaultSampleCap)
	assert.ErrorContains(t, err, "insufficient distractors")

	// fails the same way every time
	_, err = Sample(rng, []string{"hola mundo"}, "hola", 3, DefaultCandidateSampleSize, DefaultSampleCap)
	assert.ErrorContains(t, err, "insufficient distractors")
}

func TestSample_invalidCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Sample(rng, testPool, "gato", 0, DefaultCandidateSampleSize, DefaultSampleCap)
	assert.Error(t, err)
}

func TestSample_sampleCapBoundsScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	pool := make([]string, 1000)
	for i := range pool {
		pool[i] = "palabra común repetida"
	}
	pool = append(pool, testPool...)

	// a capped scan still yields enough candidates from the repeated pool
	distractors, err := Sample(rng, pool, "palabra", 2, DefaultCandidateSampleSize, 50)
	require.NoError(t, err)
	assert.Len(t, distractors, 2)
}

func TestCandidateWords_normalization(t *testing.T) {
	words := candidateWords([]string{"¡Hola, Mundo!", "hola otra vez."}, "otra")

	assert.Equal(t, []string{"hola", "mundo", "vez"}, words)
}
