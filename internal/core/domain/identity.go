package domain

// Identity is the authenticated principal extracted from a verified session token.
//
// A delegated (impersonation) identity carries the customer's id, email and role;
// ImpersonatedBy holds the issuing admin's id for audit only and is never consulted
// for authorization.
type Identity struct {
	UserID         string
	Email          string
	Role           Role
	ImpersonatedBy string
}

// Delegated reports whether the identity was minted through impersonation.
func (i *Identity) Delegated() bool {
	return i != nil && i.ImpersonatedBy != ""
}

// Authorize is the role gate: it allows the call when the identity holds the
// required role. An empty required role only demands a valid identity.
func Authorize(id *Identity, required Role) error {
	if id == nil || id.UserID == "" || !id.Role.Valid() {
		return ErrUnauthenticated
	}
	if required == "" || id.Role == required {
		return nil
	}
	return ErrForbidden
}
