package translit

import "strings"

// cyrillicToLatin is a scientific-style romanization of Russian Cyrillic.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "'", 'э': "e", 'ю': "yu", 'я': "ya",
}

func newRussianTransliterator() (Transliterator, error) {
	return TransliteratorFunc(func(text string) (string, error) {
		var sb strings.Builder
		for _, r := range text {
			lower := r
			upper := false
			if r >= 'А' && r <= 'Я' || r == 'Ё' {
				lower = r + ('а' - 'А')
				if r == 'Ё' {
					lower = 'ё'
				}
				upper = true
			}
			latin, ok := cyrillicToLatin[lower]
			if !ok {
				sb.WriteRune(r)
				continue
			}
			if upper && latin != "" {
				latin = strings.ToUpper(latin[:1]) + latin[1:]
			}
			sb.WriteString(latin)
		}
		return sb.String(), nil
	}), nil
}
