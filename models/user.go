package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"-"`
	UpdatedAt int64  `json:"-"`
	Username  string `gorm:"type:varchar(80);not null;index:uniq_username,unique" json:"username"`
	Password  string `gorm:"type:varchar(100);not null" json:"-"`
}

// ProfileUpdate carries the optional changes of a profile edit; CurrentPassword is always required
type ProfileUpdate struct {
	Username        string
	NewPassword     string
	CurrentPassword string
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) == nil
}

func UserCreate(tx *gorm.DB, username, plainTextPassword string) (u User, err error) {
	username = strings.TrimSpace(username)
	if username == "" || plainTextPassword == "" {
		return u, newError(ErrValidation, "Username and password required")
	}
	if taken, err := usernameTaken(tx, username, 0); err != nil {
		return u, err
	} else if taken {
		return u, newError(ErrUsernameTaken, "Username already exists")
	}
	u.Username = username
	if err = u.SetPassword(plainTextPassword); err != nil {
		return u, err
	}
	return u, translateDBError(tx.Create(&u).Error)
}

// UserLogin returns the user only if the credentials match
func UserLogin(tx *gorm.DB, username, plainTextPassword string) (u User, success bool) {
	if tx.First(&u, "username = ?", username).Error != nil {
		return User{}, false
	}
	if !u.CheckPassword(plainTextPassword) {
		return User{}, false
	}
	return u, true
}

func UserLoad(tx *gorm.DB, id uint64) (u User, err error) {
	err = tx.First(&u, id).Error
	return u, translateDBError(err)
}

func (u *User) UpdateProfile(tx *gorm.DB, r ProfileUpdate) error {
	if r.CurrentPassword == "" {
		return newError(ErrValidation, "Current password is required")
	}
	if !u.CheckPassword(r.CurrentPassword) {
		return newError(ErrUnauthenticated, "Incorrect current password")
	}
	username := strings.TrimSpace(r.Username)
	if username != "" && username != u.Username {
		taken, err := usernameTaken(tx, username, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return newError(ErrUsernameTaken, "Username already taken")
		}
		u.Username = username
	}
	if r.NewPassword != "" {
		if err := u.SetPassword(r.NewPassword); err != nil {
			return err
		}
	}
	return translateDBError(tx.Save(u).Error)
}

func usernameTaken(tx *gorm.DB, username string, exceptID uint64) (bool, error) {
	var existing User
	err := tx.Select("id").Where("username = ? AND id != ?", username, exceptID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
