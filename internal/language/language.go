// Package language holds the registry of supported study languages and the
// per-language capabilities the rest of the application dispatches on.
package language

import (
	"fmt"
	"sort"
)

// Language describes one supported study language.
type Language struct {
	Name string // display name, e.g. "Japanese"
	Code string // ISO 639-3 code used for corpus file names, e.g. "jpn"

	// TTSCode is the code the speech synthesizer expects. Usually the
	// ISO 639-1 form of Code.
	TTSCode string

	// RightToLeft marks scripts whose cloze display order is reversed.
	RightToLeft bool

	// NeedsSegmentation marks languages without whitespace word boundaries.
	// Their translations are segmented at ingestion time.
	NeedsSegmentation bool

	// SpecialChars are characters shown for copying during a round,
	// for keyboards that can't type them directly.
	SpecialChars []string
}

var registry = map[string]Language{
	"Arabic":     {Name: "Arabic", Code: "ara", TTSCode: "ar", RightToLeft: true},
	"Bengali":    {Name: "Bengali", Code: "ben", TTSCode: "bn"},
	"Czech":      {Name: "Czech", Code: "ces", TTSCode: "cs", SpecialChars: []string{"á", "č", "ď", "é", "ě", "í", "ň", "ó", "ř", "š", "ť", "ú", "ů", "ý", "ž"}},
	"Danish":     {Name: "Danish", Code: "dan", TTSCode: "da", SpecialChars: []string{"æ", "ø", "å"}},
	"Dutch":      {Name: "Dutch", Code: "nld", TTSCode: "nl"},
	"French":     {Name: "French", Code: "fra", TTSCode: "fr", SpecialChars: []string{"à", "â", "ç", "é", "è", "ê", "ë", "î", "ï", "ô", "û", "ü"}},
	"German":     {Name: "German", Code: "deu", TTSCode: "de", SpecialChars: []string{"ä", "ö", "ü", "ß"}},
	"Greek":      {Name: "Greek", Code: "ell", TTSCode: "el"},
	"Hindi":      {Name: "Hindi", Code: "hin", TTSCode: "hi"},
	"Hungarian":  {Name: "Hungarian", Code: "hun", TTSCode: "hu", SpecialChars: []string{"á", "é", "í", "ó", "ö", "ő", "ú", "ü", "ű"}},
	"Italian":    {Name: "Italian", Code: "ita", TTSCode: "it", SpecialChars: []string{"à", "è", "é", "ì", "ò", "ù"}},
	"Japanese":   {Name: "Japanese", Code: "jpn", TTSCode: "ja", NeedsSegmentation: true},
	"Mandarin":   {Name: "Mandarin", Code: "cmn", TTSCode: "zh-CN", NeedsSegmentation: true},
	"Norwegian":  {Name: "Norwegian", Code: "nob", TTSCode: "no", SpecialChars: []string{"æ", "ø", "å"}},
	"Portuguese": {Name: "Portuguese", Code: "por", TTSCode: "pt", SpecialChars: []string{"ã", "á", "â", "à", "ç", "é", "ê", "í", "õ", "ó", "ô", "ú"}},
	"Romanian":   {Name: "Romanian", Code: "ron", TTSCode: "ro", SpecialChars: []string{"ă", "â", "î", "ș", "ț"}},
	"Russian":    {Name: "Russian", Code: "rus", TTSCode: "ru"},
	"Spanish":    {Name: "Spanish", Code: "spa", TTSCode: "es", SpecialChars: []string{"á", "é", "í", "ñ", "ó", "ú", "ü", "¿", "¡"}},
	"Swedish":    {Name: "Swedish", Code: "swe", TTSCode: "sv", SpecialChars: []string{"å", "ä", "ö"}},
	"Turkish":    {Name: "Turkish", Code: "tur", TTSCode: "tr", SpecialChars: []string{"ç", "ğ", "ı", "ö", "ş", "ü"}},
}

// Lookup returns the language registered under the given display name.
func Lookup(name string) (Language, error) {
	lang, ok := registry[name]
	if !ok {
		return Language{}, fmt.Errorf("unsupported language %q", name)
	}
	return lang, nil
}

// Names returns all registered display names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
