// Package segment provides word segmentation for languages without
// whitespace word boundaries. Segmenters run at corpus ingestion time;
// the rest of the application only ever sees space-joined tokens.
package segment

import (
	"fmt"
	"strings"
)

// Segmenter splits text into space-joined word tokens.
type Segmenter interface {
	Segment(text string) (string, error)
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(text string) (string, error)

func (f SegmenterFunc) Segment(text string) (string, error) {
	return f(text)
}

// registry maps language codes to segmenter constructors. Construction is
// deferred because morphological dictionaries are expensive to load.
var registry = map[string]func() (Segmenter, error){
	"jpn": newJapaneseSegmenter,
	"cmn": newNaiveCJKSegmenter,
}

// ForLanguage returns the segmenter for a language code, or a passthrough
// segmenter for languages that already use whitespace boundaries.
func ForLanguage(code string) (Segmenter, error) {
	construct, ok := registry[code]
	if !ok {
		return SegmenterFunc(func(text string) (string, error) {
			return text, nil
		}), nil
	}
	segmenter, err := construct()
	if err != nil {
		return nil, fmt.Errorf("construct segmenter for %s > %w", code, err)
	}
	return segmenter, nil
}

// newNaiveCJKSegmenter splits on individual runes, keeping existing
// whitespace. A character-level split is crude for Mandarin but keeps
// every character blankable.
func newNaiveCJKSegmenter() (Segmenter, error) {
	return SegmenterFunc(func(text string) (string, error) {
		var tokens []string
		for _, r := range text {
			if r == ' ' || r == '\t' {
				continue
			}
			tokens = append(tokens, string(r))
		}
		return strings.Join(tokens, " "), nil
	}), nil
}
