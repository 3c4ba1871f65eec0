package models

import "gorm.io/gorm"

// Init creates or updates the schema
func Init(tx *gorm.DB) error {
	return tx.AutoMigrate(&User{}, &Opening{}, &Variation{}, &TutorialLink{})
}

type Stats struct {
	Users      int64 `json:"users"`
	Openings   int64 `json:"openings"`
	Public     int64 `json:"public_openings"`
	Variations int64 `json:"variations"`
}

func GetStats(tx *gorm.DB) (s Stats, err error) {
	if err = tx.Model(&User{}).Count(&s.Users).Error; err != nil {
		return
	}
	if err = tx.Model(&Opening{}).Count(&s.Openings).Error; err != nil {
		return
	}
	if err = tx.Model(&Opening{}).Where("user_id IS NULL").Count(&s.Public).Error; err != nil {
		return
	}
	err = tx.Model(&Variation{}).Count(&s.Variations).Error
	return
}
