package asset

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AllowedExtensions lists the accepted cover file extensions, lower case without the dot.
var AllowedExtensions = []string{"png", "jpg", "jpeg"}

const defaultBase = "cover"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// fold strips accents and drops everything outside ASCII. Chains keep state, so each call builds its own.
func fold() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// Extension returns the lower-cased extension of filename without the dot, or "" if it has none.
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// SanitizeFilename reduces an uploaded file name to a safe ASCII name: no directory parts,
// whitespace collapsed to underscores, only letters, digits, '_', '.' and '-'.
// It may return "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	if s, _, err := transform.String(fold(), name); err == nil {
		name = s
	}
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// StoredName derives the blob key for one asset row: the sanitized base name, the first 16 hex
// characters of the digest, the row's nonce and the original extension. The nonce keeps a later
// row for the same bytes off the key of an earlier one whose object may still be awaiting removal;
// the stored_name constraint rejects the rare repeat.
func StoredName(filename, digest, nonce string) string {
	ext := Extension(filename)
	base := SanitizeFilename(strings.TrimSuffix(filepath.Base(strings.ReplaceAll(filename, `\`, "/")), filepath.Ext(filename)))
	if base == "" {
		base = defaultBase
	}
	short := digest
	if len(short) > 16 {
		short = short[:16]
	}
	key := base + "-" + short
	if nonce != "" {
		key += "-" + nonce
	}
	if ext == "" {
		return key
	}
	return key + "." + ext
}
