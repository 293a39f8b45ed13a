// Package repair contains the offline consistency-repair tooling that
// reconciles the usuarios and auth tables: diagnosing orphan users and schema
// drift, deriving login handles for legacy rows, and healing anomalies
// deterministically. None of it is exposed over the network; it runs from the
// authfix maintenance binary against the store directly.
package repair

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxHandleBase is how much of the normalized display name survives before
// the id suffix is appended.
const maxHandleBase = 15

// stripDiacritics decomposes to NFD, drops the combining marks, and
// recomposes, turning "Pérez" into "Perez".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DeriveHandle builds a deterministic login handle for a user that has none:
// the display name lowercased, diacritics and non-alphanumerics stripped,
// truncated to 15 characters ("user" when nothing survives), with the numeric
// id appended so the result is unique across derivations.
func DeriveHandle(nombre string, id int) string {
	base, _, err := transform.String(stripDiacritics, strings.ToLower(nombre))
	if err != nil {
		base = strings.ToLower(nombre)
	}

	var sb strings.Builder
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()
	if len(cleaned) > maxHandleBase {
		cleaned = cleaned[:maxHandleBase]
	}
	if cleaned == "" {
		cleaned = "user"
	}
	return fmt.Sprintf("%s%d", cleaned, id)
}

// FallbackHandle is the literal pattern used when the derived handle collides
// with an existing row. A pre-existing row matching this pattern too is a
// second-order collision this tooling does not attempt to resolve.
func FallbackHandle(id int) string {
	return fmt.Sprintf("user%d", id)
}

// TempPassword is the deterministic temporary password assigned to a repaired
// user. Only its hash is persisted; the plaintext is emitted once for
// out-of-band delivery.
func TempPassword(id int) string {
	return fmt.Sprintf("password%d", id)
}
