package models

// Identity is who is asking: an authenticated user or a guest, who may hold the admin capability
type Identity struct {
	userID    uint64
	adminMode bool
}

func Authenticated(userID uint64) Identity {
	return Identity{userID: userID}
}

func Guest(adminMode bool) Identity {
	return Identity{adminMode: adminMode}
}

func (i Identity) IsAuthenticated() bool {
	return i.userID != 0
}

func (i Identity) UserID() (uint64, bool) {
	return i.userID, i.userID != 0
}

// IsGuestAdmin is true only for guests that passed the admin password check
func (i Identity) IsGuestAdmin() bool {
	return i.userID == 0 && i.adminMode
}

// Owner is the scope new resources created by this identity belong to
func (i Identity) Owner() Owner {
	if i.IsAuthenticated() {
		return UserOwner(i.userID)
	}
	return Public
}
