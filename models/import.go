package models

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImportResult struct {
	Imported int
	Copied   []string // image files created, to be removed if the transaction fails
}

// ImportOpenings copies public openings into the caller's private scope. Openings already present
// (same name and side) are skipped, so importing twice creates a single copy.
func ImportOpenings(tx *gorm.DB, identity Identity, ids []uint64) (result ImportResult, err error) {
	result.Copied = []string{}
	userID, ok := identity.UserID()
	if !ok {
		return result, newError(ErrUnauthenticated, "Must be logged in to import")
	}
	if len(ids) == 0 {
		return result, nil
	}
	owner := UserOwner(userID)
	public := []Opening{}
	err = whereOwner(preloadVariations(tx), Public).
		Where("id IN ?", ids).
		Order("side ASC, position ASC, id ASC").
		Find(&public).Error
	if err != nil {
		return
	}
	for i := range public {
		source := &public[i]
		existing, err := FindOpening(tx, owner, source.Side, source.Name)
		if err != nil {
			return result, err
		}
		if existing != nil {
			continue
		}
		opening, err := CreateOpening(tx, owner, source.Name, source.Side)
		if err != nil {
			return result, err
		}
		// Source positions may have gaps, copies are numbered 0..n-1
		for position, sv := range source.Variations {
			v := Variation{
				OpeningID: opening.ID,
				Name:      sv.Name,
				Moves:     sv.Moves,
				Notes:     copyString(sv.Notes),
				Position:  position,
				Tutorials: newTutorialLinks(sv.TutorialURLs()),
			}
			if sv.ImageFilename != nil {
				// Never share the file with the public copy: deleting one must not affect the other
				name, err := copyImage(owner, *sv.ImageFilename)
				if err != nil {
					zap.L().Warn("cannot copy image on import",
						zap.String("file", *sv.ImageFilename), zap.Uint64("variation", sv.ID), zap.Error(err))
				} else {
					v.ImageFilename = &name
					result.Copied = append(result.Copied, name)
				}
			}
			if err = tx.Omit("Opening").Create(&v).Error; err != nil {
				return result, translateDBError(err)
			}
		}
		result.Imported++
	}
	return result, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
