package translit

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// japaneseTransliterator produces a space-joined katakana reading per
// token via the kagome morphological analyzer, aligned with the
// segmenter's tokenization so blanked positions line up.
type japaneseTransliterator struct {
	tokenizer *tokenizer.Tokenizer
}

func newJapaneseTransliterator() (Transliterator, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenizer.New > %w", err)
	}
	return &japaneseTransliterator{tokenizer: t}, nil
}

func (j *japaneseTransliterator) Transliterate(text string) (string, error) {
	// The corpus stores pre-segmented text; strip the spaces before
	// re-analyzing so kagome sees natural input.
	tokens := j.tokenizer.Tokenize(strings.ReplaceAll(text, " ", ""))

	readings := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := strings.TrimSpace(token.Surface)
		if surface == "" {
			continue
		}

		// IPA feature 7 is the reading; fall back to the surface for
		// tokens the dictionary doesn't know.
		reading := surface
		features := token.Features()
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		readings = append(readings, reading)
	}
	return strings.Join(readings, " "), nil
}
