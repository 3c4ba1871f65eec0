package models

import (
	"gorm.io/gorm"
)

// Openings are ordered within (owner, side), variations within their opening.
// New entries go after the current maximum; deletes leave gaps that are never compacted.

func nextOpeningPosition(tx *gorm.DB, owner Owner, side Side) (int, error) {
	next := 0
	err := whereOwner(tx.Model(&Opening{}), owner).
		Where("side = ?", side).
		Select("coalesce(max(position), -1) + 1").
		Scan(&next).Error
	return next, err
}

func nextVariationPosition(tx *gorm.DB, openingID uint64) (int, error) {
	next := 0
	err := tx.Model(&Variation{}).
		Where("opening_id = ?", openingID).
		Select("coalesce(max(position), -1) + 1").
		Scan(&next).Error
	return next, err
}

func checkOrderIDs(ids []uint64) error {
	if len(ids) == 0 {
		return newError(ErrValidation, "ids required")
	}
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return newError(ErrValidation, "Duplicate id in order")
		}
		seen[id] = true
	}
	return nil
}

// ReorderOpenings sets positions to the index of each id in ids. All openings must exist, share one
// (owner, side) scope and be editable; otherwise nothing is changed.
func ReorderOpenings(tx *gorm.DB, identity Identity, ids []uint64) error {
	if err := checkOrderIDs(ids); err != nil {
		return err
	}
	openings := []Opening{}
	if err := tx.Where("id IN ?", ids).Find(&openings).Error; err != nil {
		return err
	}
	if len(openings) != len(ids) {
		return newError(ErrValidation, "Invalid opening id")
	}
	scope, side := openings[0].OwnedBy(), openings[0].Side
	for i := range openings {
		if openings[i].OwnedBy() != scope || openings[i].Side != side {
			return newError(ErrValidation, "Openings must share the same owner and side")
		}
	}
	for i := range openings {
		if err := checkCanEdit(identity, &openings[i]); err != nil {
			return err
		}
	}
	for position, id := range ids {
		if err := tx.Model(&Opening{}).Where("id = ?", id).Update("position", position).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReorderVariations is ReorderOpenings for the variations of a single opening
func ReorderVariations(tx *gorm.DB, identity Identity, ids []uint64) error {
	if err := checkOrderIDs(ids); err != nil {
		return err
	}
	variations := []Variation{}
	if err := tx.Joins("Opening").Where("variations.id IN ?", ids).Find(&variations).Error; err != nil {
		return err
	}
	if len(variations) != len(ids) {
		return newError(ErrValidation, "Invalid variation id")
	}
	openingID := variations[0].OpeningID
	for i := range variations {
		if variations[i].OpeningID != openingID {
			return newError(ErrValidation, "Variations must belong to the same opening")
		}
	}
	if err := checkCanEdit(identity, &variations[0].Opening); err != nil {
		return err
	}
	for position, id := range ids {
		if err := tx.Model(&Variation{}).Where("id = ?", id).Update("position", position).Error; err != nil {
			return err
		}
	}
	return nil
}
