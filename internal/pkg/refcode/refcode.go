package refcode

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Length is the number of characters in a complaint reference code.
const Length = 12

// New generates the short reference code shown to reporters: the first 12 hex
// characters of a random UUID, uppercased. 48 random bits keep the collision
// probability negligible at this system's scale.
func New() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:])[:Length])
}
