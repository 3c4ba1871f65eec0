package models

import "strconv"

// Owner is either Public (the shared guest dataset) or a specific user
type Owner struct {
	userID uint64
}

var Public = Owner{}

func UserOwner(userID uint64) Owner {
	return Owner{userID: userID}
}

// OwnerOf maps the nullable user_id column
func OwnerOf(userID *uint64) Owner {
	if userID == nil {
		return Public
	}
	return UserOwner(*userID)
}

func (o Owner) IsPublic() bool {
	return o.userID == 0
}

func (o Owner) UserID() (uint64, bool) {
	return o.userID, o.userID != 0
}

func (o Owner) column() *uint64 {
	if o.IsPublic() {
		return nil
	}
	id := o.userID
	return &id
}

func (o Owner) String() string {
	if o.IsPublic() {
		return "public"
	}
	return "user:" + strconv.FormatUint(o.userID, 10)
}

// imagePrefix keeps file names of different owners apart
func (o Owner) imagePrefix() string {
	if o.IsPublic() {
		return "public_"
	}
	return "u" + strconv.FormatUint(o.userID, 10) + "_"
}
