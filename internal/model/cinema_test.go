package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-api/internal/validator"
)

func strPtr(s string) *string { return &s }

func TestValidateCinema(t *testing.T) {
	v := validator.New()
	ValidateCinema(v, &Cinema{Movie: "Dune", Description: "Sci-fi epic"})
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateCinema(v, &Cinema{Description: "Sci-fi epic"})
	assert.Equal(t, map[string]string{"movie": "must be provided"}, v.Errors)

	v = validator.New()
	ValidateCinema(v, &Cinema{Movie: " ", Description: ""})
	assert.Len(t, v.Errors, 2)
}

func TestValidatePatch(t *testing.T) {
	v := validator.New()
	ValidatePatch(v, CinemaPatch{Description: strPtr("New text"), Image: strPtr("")})
	assert.True(t, v.Valid(), "blank image is allowed")

	v = validator.New()
	ValidatePatch(v, CinemaPatch{Movie: strPtr("")})
	assert.Contains(t, v.Errors, "movie")
}

func TestPatchApply(t *testing.T) {
	c := Cinema{ID: "1", Movie: "Dune", Description: "Sci-fi epic", Image: "dune.png"}
	CinemaPatch{Description: strPtr("New text")}.Apply(&c)

	assert.Equal(t, Cinema{ID: "1", Movie: "Dune", Description: "New text", Image: "dune.png"}, c)
	assert.True(t, CinemaPatch{}.Empty())
	assert.False(t, CinemaPatch{Image: strPtr("")}.Empty())
}
