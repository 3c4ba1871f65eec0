package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	lichessAnalysisURL   = "https://lichess.org/analysis/pgn/"
	defaultVariationName = "Default"
)

type Variation struct {
	ID            uint64  `gorm:"primaryKey"`
	OpeningID     uint64  `gorm:"not null;index:uniq_opening_variation,unique,priority:1;index:uniq_opening_moves,unique,priority:1"`
	Opening       Opening // Must be joined before permission checks
	Name          string  `gorm:"type:varchar(100);not null;index:uniq_opening_variation,unique,priority:2"`
	Moves         string  `gorm:"type:varchar(500);not null;index:uniq_opening_moves,unique,priority:2"`
	LichessLink   string  `gorm:"type:varchar(2000);not null"` // Always LichessLink(Moves), see BeforeSave
	ImageFilename *string `gorm:"type:varchar(200);index"`
	Notes         *string `gorm:"type:text"`
	Position      int     `gorm:"not null;default:0"`
	UpdatedAt     int64
	Tutorials     []TutorialLink `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// VariationInput is the user supplied content of a variation
type VariationInput struct {
	Name          string
	Moves         string
	Notes         *string
	ImageFilename *string // an already stored image
	Tutorials     []string
}

// VariationUpdate replaces the content of a variation. Tutorials are replaced as a whole.
type VariationUpdate struct {
	Name        string // the current name is kept when empty
	Moves       string
	Notes       *string
	NewImage    *string // an already stored image replacing the current one
	DeleteImage bool    // ignored when NewImage is set
	Tutorials   []string
}

// LichessLink builds the Lichess analysis board URL for a move sequence
func LichessLink(moves string) string {
	return lichessAnalysisURL + percentEncode(moves)
}

// percentEncode escapes everything except RFC 3986 unreserved characters and '/'
func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' || c == '/' {

			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

// BeforeSave keeps the derived link in sync with the moves on every insert and update
func (v *Variation) BeforeSave(tx *gorm.DB) (err error) {
	v.LichessLink = LichessLink(v.Moves)
	return
}

func (v Variation) TutorialURLs() []string {
	result := []string{}
	for _, t := range v.Tutorials {
		result = append(result, t.URL)
	}
	return result
}

// LoadVariation loads a variation with its parent opening joined
func LoadVariation(tx *gorm.DB, id uint64) (v Variation, err error) {
	err = tx.Joins("Opening").First(&v, "variations.id = ?", id).Error
	return v, translateDBError(err)
}

// checkVariationUnique enforces unique name and unique moves within an opening, exceptID is the variation being edited
func checkVariationUnique(tx *gorm.DB, opening *Opening, name, moves string, exceptID uint64) error {
	var existing Variation
	err := tx.Where("opening_id = ? AND name = ? AND id != ?", opening.ID, name, exceptID).First(&existing).Error
	if err == nil {
		return newError(ErrVariationNameTaken, "Variation '%s' already exists.", name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	err = tx.Where("opening_id = ? AND moves = ? AND id != ?", opening.ID, moves, exceptID).First(&existing).Error
	if err == nil {
		return newError(ErrMovesExist, "This moves sequence already exists in '%s' (%s)", opening.Name, existing.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// CreateVariation appends a variation to an opening
func CreateVariation(tx *gorm.DB, opening *Opening, in VariationInput) (v Variation, err error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Moves = strings.TrimSpace(in.Moves)
	if in.Name == "" {
		in.Name = defaultVariationName
	}
	if in.Moves == "" {
		return v, newError(ErrValidation, "Moves are required")
	}
	if err = checkVariationUnique(tx, opening, in.Name, in.Moves, 0); err != nil {
		return v, err
	}
	position, err := nextVariationPosition(tx, opening.ID)
	if err != nil {
		return v, err
	}
	v = Variation{
		OpeningID:     opening.ID,
		Name:          in.Name,
		Moves:         in.Moves,
		ImageFilename: in.ImageFilename,
		Notes:         in.Notes,
		Position:      position,
		Tutorials:     newTutorialLinks(in.Tutorials),
	}
	return v, translateDBError(tx.Omit("Opening").Create(&v).Error)
}

// AddVariation adds a variation to the caller's opening (name, side), creating the opening when needed.
// Openings created by a guest in admin mode are public, otherwise they belong to the user.
func AddVariation(tx *gorm.DB, identity Identity, openingName string, side Side, in VariationInput) (Opening, error) {
	if err := checkCanEdit(identity, nil); err != nil {
		return Opening{}, newError(ErrPermissionDenied, "Permission denied. Login or enter admin password.")
	}
	openingName = strings.TrimSpace(openingName)
	if openingName == "" || !side.Valid() || strings.TrimSpace(in.Moves) == "" {
		return Opening{}, newError(ErrValidation, "Name, Side, and Moves are required")
	}
	owner := identity.Owner()
	opening, err := FindOpening(tx, owner, side, openingName)
	if err != nil {
		return Opening{}, err
	}
	if opening == nil {
		created, err := CreateOpening(tx, owner, openingName, side)
		if err != nil {
			return Opening{}, err
		}
		opening = &created
	}
	if _, err = CreateVariation(tx, opening, in); err != nil {
		return Opening{}, err
	}
	return LoadOpening(tx, opening.ID)
}

// UpdateVariation replaces a variation's content and returns its parent opening.
// The returned image files are no longer referenced by any variation.
func UpdateVariation(tx *gorm.DB, identity Identity, id uint64, in VariationUpdate) (Opening, []string, error) {
	v, err := LoadVariation(tx, id)
	if err != nil {
		return Opening{}, nil, err
	}
	if err = checkCanEdit(identity, &v.Opening); err != nil {
		return Opening{}, nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Moves = strings.TrimSpace(in.Moves)
	if in.Moves == "" {
		return Opening{}, nil, newError(ErrValidation, "Moves are required")
	}
	if in.Name == "" {
		in.Name = v.Name
	}
	if err = checkVariationUnique(tx, &v.Opening, in.Name, in.Moves, v.ID); err != nil {
		return Opening{}, nil, err
	}
	released := []string{}
	if in.NewImage != nil || in.DeleteImage {
		if v.ImageFilename != nil {
			released = append(released, *v.ImageFilename)
		}
		v.ImageFilename = in.NewImage
	}
	v.Name = in.Name
	v.Moves = in.Moves
	v.Notes = in.Notes
	if err = tx.Omit(clause.Associations).Save(&v).Error; err != nil {
		return Opening{}, nil, translateDBError(err)
	}
	if err = replaceTutorialLinks(tx, v.ID, in.Tutorials); err != nil {
		return Opening{}, nil, err
	}
	orphans, err := unreferencedImages(tx, released)
	if err != nil {
		return Opening{}, nil, err
	}
	opening, err := LoadOpening(tx, v.OpeningID)
	return opening, orphans, err
}

// DeleteVariation removes a variation; the returned image files are no longer referenced
func DeleteVariation(tx *gorm.DB, identity Identity, id uint64) ([]string, error) {
	v, err := LoadVariation(tx, id)
	if err != nil {
		return nil, err
	}
	if err = checkCanEdit(identity, &v.Opening); err != nil {
		return nil, err
	}
	images, err := deleteVariationRows(tx, []Variation{v})
	if err != nil {
		return nil, err
	}
	return unreferencedImages(tx, images)
}

// deleteVariationRows deletes variations with their tutorial links and returns their image files
func deleteVariationRows(tx *gorm.DB, variations []Variation) (images []string, err error) {
	if len(variations) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(variations))
	for _, v := range variations {
		ids = append(ids, v.ID)
		if v.ImageFilename != nil {
			images = append(images, *v.ImageFilename)
		}
	}
	if err = tx.Where("variation_id IN ?", ids).Delete(&TutorialLink{}).Error; err != nil {
		return nil, err
	}
	return images, tx.Where("id IN ?", ids).Delete(&Variation{}).Error
}
