package identity

// Identity represents the authenticated principal as stored in the
// credential store. It contains facts only, no decisions.
type Identity struct {
	ID             string // opaque unique identifier
	Email          string // email address, also the login handle
	EmailConfirmed bool   // set true at registration (confirmation is bypassed)
}

// Claim is a typed fact attached to an Identity. Claims are ordered and
// duplicates by type are allowed (e.g. multiple "role" claims).
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// RoleClaimType is the claim type used when materializing role
// memberships into the token payload.
const RoleClaimType = "role"
