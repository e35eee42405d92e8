package naming

import "strings"

// translit maps common Latin diacritics and ligatures to identifier
// safe replacements. Runes not in the table and outside [a-z0-9] are
// treated as separators.
var translit = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'ç': "c",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ñ': "n",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ý': "y", 'ÿ': "y",
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'đ': "d",
	'ł': "l",
	'š': "s",
	'ž': "z",
}

// Slugify normalises a name fragment into an identifier-safe slug:
// lowercase, diacritics transliterated, everything outside [a-z0-9_]
// collapsed into single underscores, no leading or trailing
// underscore.
//
//	Slugify("Büro Licht")   == "buro_licht"
//	Slugify("  Living--Room (Main) ") == "living_room_main"
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSep := true // suppress leading separator
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		case translit[r] != "":
			b.WriteString(translit[r])
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}

	return strings.TrimRight(b.String(), "_")
}

// stripPrefixFold removes prefix from s when s starts with it,
// comparing case-insensitively on slug form so "Office Light" loses
// its "office" prefix. Returns the remainder trimmed of separator
// residue, and whether anything was stripped.
func stripPrefixFold(s, prefix string) (string, bool) {
	if prefix == "" {
		return s, false
	}
	slugged := Slugify(s)
	prefSlug := Slugify(prefix)
	if prefSlug == "" || !strings.HasPrefix(slugged, prefSlug) {
		return s, false
	}
	rest := strings.TrimLeft(strings.TrimPrefix(slugged, prefSlug), "_")
	return rest, true
}
