// Package slug builds URL-safe identifiers from Latin or Russian display names.
package slug

import (
	"strings"
	"unicode"
)

// translit maps each lowercase Cyrillic letter to its Latin spelling.
// ъ and ь carry no sound of their own and are dropped.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r >= 'а' && r <= 'я', r == 'ё':
		return true
	}
	return unicode.IsSpace(r)
}

// Make lowercases name, drops everything outside Latin/Cyrillic letters, digits
// and whitespace, transliterates Cyrillic and joins the words with single hyphens.
func Make(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if !allowed(r) {
			continue
		}
		if lat, ok := translit[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
