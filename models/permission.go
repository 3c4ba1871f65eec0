package models

// Owned is anything with an ownership scope
type Owned interface {
	OwnedBy() Owner
}

// CanEdit decides whether identity may mutate resource. A nil resource means "create a new one".
//   - create: any authenticated user, or a guest in admin mode
//   - public resource: guests in admin mode only (not authenticated users)
//   - private resource: its owner only
func CanEdit(identity Identity, resource Owned) bool {
	if resource == nil {
		return identity.IsAuthenticated() || identity.IsGuestAdmin()
	}
	owner := resource.OwnedBy()
	if owner.IsPublic() {
		return identity.IsGuestAdmin()
	}
	userID, ok := identity.UserID()
	return ok && owner == UserOwner(userID)
}

func checkCanEdit(identity Identity, resource Owned) error {
	if !CanEdit(identity, resource) {
		return newError(ErrPermissionDenied, "Permission denied")
	}
	return nil
}
