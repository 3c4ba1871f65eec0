package models

import (
	"strings"

	"gorm.io/gorm"
)

type TutorialLink struct {
	ID          uint64 `gorm:"primaryKey"`
	VariationID uint64 `gorm:"not null;index"`
	URL         string `gorm:"type:varchar(500);not null"`
}

// newTutorialLinks trims the URLs and drops blank ones
func newTutorialLinks(urls []string) []TutorialLink {
	result := []TutorialLink{}
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			result = append(result, TutorialLink{URL: url})
		}
	}
	return result
}

func replaceTutorialLinks(tx *gorm.DB, variationID uint64, urls []string) error {
	if err := tx.Where("variation_id = ?", variationID).Delete(&TutorialLink{}).Error; err != nil {
		return err
	}
	links := newTutorialLinks(urls)
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].VariationID = variationID
	}
	return tx.Create(&links).Error
}
