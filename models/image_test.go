package models

import (
	"strings"
	"testing"

	"repertoire/storage"

	"github.com/stretchr/testify/require"
)

func TestNewImageFilename(t *testing.T) {
	require.Regexp(t, `^public_img_[0-9a-f]{32}\.png$`, NewImageFilename(Public, "png"))
	require.Regexp(t, `^u12_img_[0-9a-f]{32}\.jpg$`, NewImageFilename(UserOwner(12), "jpg"))
}

func TestSaveImageRejectsOtherTypes(t *testing.T) {
	setupTestDB(t)
	_, err := SaveImage(Public, "evil.svg", strings.NewReader("<svg/>"))
	require.ErrorIs(t, err, ErrValidation)

	name, err := SaveImage(Public, "Board.JPEG", strings.NewReader("data"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".jpeg"))
	require.True(t, storage.GetDefaultStorage().Exists(name))
}

func TestImageRemovedWithLastReference(t *testing.T) {
	tx := setupTestDB(t)
	admin := Guest(true)
	image := saveTestImage(t, Public)
	o, err := AddVariation(tx, admin, "Italian", SideWhite, VariationInput{Name: "A", Moves: "1.e4 e5", ImageFilename: &image})
	require.NoError(t, err)
	o, err = AddVariation(tx, admin, "Italian", SideWhite, VariationInput{Name: "B", Moves: "1.e4 e5 2.Nf3", ImageFilename: &image})
	require.NoError(t, err)

	orphans, err := DeleteVariation(tx, admin, variationNamed(t, o, "A").ID)
	require.NoError(t, err)
	require.Empty(t, orphans)

	orphans, err = DeleteVariation(tx, admin, variationNamed(t, o, "B").ID)
	require.NoError(t, err)
	require.Equal(t, []string{image}, orphans)

	RemoveImages(orphans)
	require.False(t, storage.GetDefaultStorage().Exists(image))
}

func TestUpdateVariationImage(t *testing.T) {
	tx := setupTestDB(t)
	admin := Guest(true)
	first := saveTestImage(t, Public)
	o, err := AddVariation(tx, admin, "Italian", SideWhite, VariationInput{Moves: "1.e4 e5", ImageFilename: &first})
	require.NoError(t, err)
	v := o.Variations[0]

	second := saveTestImage(t, Public)
	o, orphans, err := UpdateVariation(tx, admin, v.ID, VariationUpdate{Moves: v.Moves, NewImage: &second})
	require.NoError(t, err)
	require.Equal(t, []string{first}, orphans)
	require.Equal(t, second, *o.Variations[0].ImageFilename)

	// Keeping the image: neither a new one nor the delete flag
	o, orphans, err = UpdateVariation(tx, admin, v.ID, VariationUpdate{Moves: v.Moves})
	require.NoError(t, err)
	require.Empty(t, orphans)
	require.Equal(t, second, *o.Variations[0].ImageFilename)

	o, orphans, err = UpdateVariation(tx, admin, v.ID, VariationUpdate{Moves: v.Moves, DeleteImage: true})
	require.NoError(t, err)
	require.Equal(t, []string{second}, orphans)
	require.Nil(t, o.Variations[0].ImageFilename)
}
