// Package identity resolves inbound credentials into the normalized owner
// principal and enforces ownership on fetched entities. Everything below
// the HTTP boundary receives an explicit Identity; there is no ambient
// auth state.
package identity

// OwnerKey is the opaque principal key all entities are scoped to.
// Compare owner keys with ==, never as raw ad-hoc strings.
type OwnerKey string

func (k OwnerKey) String() string {
	return string(k)
}

// Identity is the resolved principal for one request. Both authentication
// paths (session assertion and API access token) yield the same shape, so
// the engine never needs to know which one produced it.
type Identity struct {
	OwnerKey OwnerKey
}

// Owns reports whether the identity owns an entity with the given owner key
func (id Identity) Owns(owner string) bool {
	return id.OwnerKey == OwnerKey(owner)
}
