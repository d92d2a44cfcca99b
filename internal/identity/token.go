package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode indicates a malformed identity token. Callers must treat
// the identity as unknown and degrade gracefully rather than fail.
var ErrDecode = errors.New("malformed identity token")

// Identity holds the profile fields carried in an ID token's payload.
type Identity struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// segmentDecoder reuses the JWT parser's base64 handling for the
// payload segment. No signature verification happens here; the token
// was minted by the authorization boundary and is only read for display
// and login hints.
var segmentDecoder = jwt.NewParser()

// Decode extracts the identity record from a dot-delimited ID token by
// base64-decoding its second segment. All malformed inputs (missing
// segment, bad base64, bad JSON) return an error wrapping ErrDecode;
// Decode never panics.
func Decode(token string) (Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return Identity{}, fmt.Errorf("%w: expected at least two segments, got %d", ErrDecode, len(parts))
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return id, nil
}
