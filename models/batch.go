package models

import "gorm.io/gorm"

type BatchDeleteResult struct {
	Openings   int
	Variations int
	Skipped    int
	Images     []string // files no longer referenced, to be removed after commit
}

// BatchDelete deletes what identity may edit and skips the rest. Run it inside a transaction:
// any error must roll back everything deleted so far.
func BatchDelete(tx *gorm.DB, identity Identity, openingIDs, variationIDs []uint64) (result BatchDeleteResult, err error) {
	images := []string{}
	if len(variationIDs) > 0 {
		variations := []Variation{}
		if err = tx.Joins("Opening").Where("variations.id IN ?", variationIDs).Find(&variations).Error; err != nil {
			return
		}
		allowed := []Variation{}
		for i := range variations {
			if CanEdit(identity, &variations[i].Opening) {
				allowed = append(allowed, variations[i])
			} else {
				result.Skipped++
			}
		}
		removed, err := deleteVariationRows(tx, allowed)
		if err != nil {
			return result, err
		}
		images = append(images, removed...)
		result.Variations = len(allowed)
	}
	if len(openingIDs) > 0 {
		openings := []Opening{}
		if err = tx.Preload("Variations").Where("id IN ?", openingIDs).Find(&openings).Error; err != nil {
			return
		}
		for i := range openings {
			if !CanEdit(identity, &openings[i]) {
				result.Skipped++
				continue
			}
			removed, err := deleteOpeningRows(tx, &openings[i])
			if err != nil {
				return result, err
			}
			images = append(images, removed...)
			result.Openings++
		}
	}
	result.Images, err = unreferencedImages(tx, images)
	return
}
