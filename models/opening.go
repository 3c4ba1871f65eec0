package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Side string

const (
	SideWhite Side = "white"
	SideBlack Side = "black"
)

func (s Side) Valid() bool {
	return s == SideWhite || s == SideBlack
}

type Opening struct {
	ID         uint64  `gorm:"primaryKey"`
	UserID     *uint64 `gorm:"index:owner_side_position,priority:1"` // NULL for the public dataset
	Name       string  `gorm:"type:varchar(100);not null"`
	Side       Side    `gorm:"type:varchar(10);not null;index:owner_side_position,priority:2"`
	IsFavorite bool    `gorm:"not null;default:false"`
	Position   int     `gorm:"not null;default:0;index:owner_side_position,priority:3"`
	UpdatedAt  int64
	Variations []Variation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (o *Opening) OwnedBy() Owner {
	return OwnerOf(o.UserID)
}

// whereOwner restricts a query on openings to one ownership scope
func whereOwner(tx *gorm.DB, owner Owner) *gorm.DB {
	if userID, ok := owner.UserID(); ok {
		return tx.Where("user_id = ?", userID)
	}
	return tx.Where("user_id IS NULL")
}

func preloadVariations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Variations.Tutorials", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// ListOpenings returns the openings of a scope with nested variations, ordered by side then position
func ListOpenings(tx *gorm.DB, owner Owner, onlyFavorites bool) ([]Opening, error) {
	openings := []Opening{}
	q := whereOwner(preloadVariations(tx), owner)
	if onlyFavorites {
		q = q.Where("is_favorite = ?", true)
	}
	err := q.Order("side ASC, position ASC, id ASC").Find(&openings).Error
	return openings, err
}

// LoadOpening returns an opening with its variations and tutorial links
func LoadOpening(tx *gorm.DB, id uint64) (o Opening, err error) {
	err = preloadVariations(tx).First(&o, id).Error
	return o, translateDBError(err)
}

// FindOpening looks up an opening by name within a scope, nil if there is none
func FindOpening(tx *gorm.DB, owner Owner, side Side, name string) (*Opening, error) {
	var o Opening
	err := whereOwner(tx, owner).Where("side = ? AND name = ?", side, name).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOpening appends a new opening to the end of its (owner, side) scope
func CreateOpening(tx *gorm.DB, owner Owner, name string, side Side) (o Opening, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return o, newError(ErrValidation, "Name is required")
	}
	if !side.Valid() {
		return o, newError(ErrValidation, "Side must be white or black")
	}
	existing, err := FindOpening(tx, owner, side, name)
	if err != nil {
		return o, err
	}
	if existing != nil {
		return o, newError(ErrOpeningNameTaken, "Opening with this name already exists")
	}
	position, err := nextOpeningPosition(tx, owner, side)
	if err != nil {
		return o, err
	}
	o = Opening{
		UserID:   owner.column(),
		Name:     name,
		Side:     side,
		Position: position,
	}
	return o, translateDBError(tx.Omit("Variations").Create(&o).Error)
}

func RenameOpening(tx *gorm.DB, identity Identity, id uint64, name string) (Opening, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Opening{}, newError(ErrValidation, "Name is required")
	}
	o, err := LoadOpening(tx, id)
	if err != nil {
		return o, err
	}
	if err = checkCanEdit(identity, &o); err != nil {
		return o, err
	}
	existing, err := FindOpening(tx, o.OwnedBy(), o.Side, name)
	if err != nil {
		return o, err
	}
	if existing != nil && existing.ID != o.ID {
		return o, newError(ErrOpeningNameTaken, "Opening with this name already exists")
	}
	o.Name = name
	if err = tx.Model(&o).Update("name", name).Error; err != nil {
		return o, translateDBError(err)
	}
	return o, nil
}

func ToggleFavorite(tx *gorm.DB, identity Identity, id uint64) (Opening, error) {
	o, err := LoadOpening(tx, id)
	if err != nil {
		return o, err
	}
	if err = checkCanEdit(identity, &o); err != nil {
		return o, err
	}
	o.IsFavorite = !o.IsFavorite
	return o, tx.Model(&o).Update("is_favorite", o.IsFavorite).Error
}

// DeleteOpening removes an opening with all its variations; the returned image files are no longer referenced
func DeleteOpening(tx *gorm.DB, identity Identity, id uint64) ([]string, error) {
	o, err := LoadOpening(tx, id)
	if err != nil {
		return nil, err
	}
	if err = checkCanEdit(identity, &o); err != nil {
		return nil, err
	}
	images, err := deleteOpeningRows(tx, &o)
	if err != nil {
		return nil, err
	}
	return unreferencedImages(tx, images)
}

// deleteOpeningRows cascades explicitly: tutorial links, variations, then the opening itself
func deleteOpeningRows(tx *gorm.DB, o *Opening) (images []string, err error) {
	images, err = deleteVariationRows(tx, o.Variations)
	if err != nil {
		return nil, err
	}
	return images, tx.Delete(&Opening{}, o.ID).Error
}
