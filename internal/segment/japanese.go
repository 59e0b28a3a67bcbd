package segment

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// japaneseSegmenter segments Japanese text with the kagome morphological
// analyzer and the IPA dictionary.
type japaneseSegmenter struct {
	tokenizer *tokenizer.Tokenizer
}

func newJapaneseSegmenter() (Segmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenizer.New > %w", err)
	}
	return &japaneseSegmenter{tokenizer: t}, nil
}

func (s *japaneseSegmenter) Segment(text string) (string, error) {
	tokens := s.tokenizer.Tokenize(text)
	surfaces := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := strings.TrimSpace(token.Surface)
		if surface == "" {
			continue
		}
		surfaces = append(surfaces, surface)
	}
	return strings.Join(surfaces, " "), nil
}
