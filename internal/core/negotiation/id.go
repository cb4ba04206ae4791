package negotiation

import (
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const idPrefix = "NEG-"

// GenerateNegotiationID builds an ID of the form NEG-<ULID>.
// The caller supplies time and entropy to keep this function testable.
func GenerateNegotiationID(now time.Time, entropy io.Reader) string {
	return idPrefix + ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// IsValidNegotiationID reports whether id has the NEG-<ULID> format.
func IsValidNegotiationID(id string) bool {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(rest)
	return err == nil
}
