// ABOUTME: Ownership policy deciding who may mutate a shared resource
// ABOUTME: Strict owner equality; no roles, groups, or admin override

package policy

// CanModify reports whether the requester may mutate a resource recorded
// as belonging to owner. The decision is strict equality between the
// resource's owner and the authenticated identity.
//
// Callers must check that the resource exists before consulting the
// policy: not-found takes priority over forbidden, so an attacker cannot
// probe which identifiers exist by reading the rejection mode.
func CanModify(owner, requester string) bool {
	return owner != "" && owner == requester
}
