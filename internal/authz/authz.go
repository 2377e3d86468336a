// Package authz holds the single ownership policy governing resource access.
// Handlers MUST call CanAccess before any single-resource read, update, or
// delete; role-based branching is not re-implemented per endpoint.
package authz

import "github.com/HassanMunene/mazao-erp/internal/store"

// Action is a resource operation subject to the ownership policy.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CanAccess reports whether principal p may perform action on a resource
// owned by the principal with ownerID.
//
// Admins may act on any resource except deleting their own account, which is
// always refused so the system cannot be left without an administrator.
// Farmers may act only on their own resources. List endpoints do not call
// this; they narrow their queries to the caller instead.
func CanAccess(p *store.User, ownerID string, action Action) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		if action == ActionDelete && ownerID == p.ID {
			return false
		}
		return true
	}
	return ownerID == p.ID
}
