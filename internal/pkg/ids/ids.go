package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns prefix + "_" + 12 hex characters of a random UUID,
// e.g. lead_3f2a9c01b7de.
func New(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}
