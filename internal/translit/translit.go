// Package translit provides best-effort transliteration of target-language
// text into Latin-readable form. Strategies are registered per language
// code; languages without a strategy transliterate to the empty string,
// and failures degrade to empty rather than propagating.
package translit

import "fmt"

// Transliterator converts text of one language into a readable
// transliteration. An empty result means "no transliteration available".
type Transliterator interface {
	Transliterate(text string) (string, error)
}

// TransliteratorFunc adapts a function to the Transliterator interface.
type TransliteratorFunc func(text string) (string, error)

func (f TransliteratorFunc) Transliterate(text string) (string, error) {
	return f(text)
}

// registry maps language codes to transliterator constructors.
var registry = map[string]func() (Transliterator, error){
	"jpn": newJapaneseTransliterator,
	"rus": newRussianTransliterator,
}

// ForLanguage returns the transliterator for a language code. Languages
// without a registered strategy get a no-op transliterator that always
// returns the empty string.
func ForLanguage(code string) (Transliterator, error) {
	construct, ok := registry[code]
	if !ok {
		return TransliteratorFunc(func(string) (string, error) {
			return "", nil
		}), nil
	}
	transliterator, err := construct()
	if err != nil {
		return nil, fmt.Errorf("construct transliterator for %s > %w", code, err)
	}
	return transliterator, nil
}

// BestEffort transliterates and swallows failures, returning the empty
// string instead. Transliteration is cosmetic; it must never abort
// corpus ingestion or a round.
func BestEffort(t Transliterator, text string) string {
	result, err := t.Transliterate(text)
	if err != nil {
		return ""
	}
	return result
}
