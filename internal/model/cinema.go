package model

import "github.com/iliyamo/cinema-api/internal/validator"

// Cinema is one record of the cinema collection.
//
// Fields:
//  ID          – assigned by the store on insert, never changed afterwards.
//  Movie       – title of the movie, required.
//  Description – free text, required.
//  Image       – optional image URL; omitted from JSON when empty.
type Cinema struct {
	ID          string `json:"id"`
	Movie       string `json:"movie"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// CinemaPatch carries the fields of a partial update.  A nil pointer means the
// field was absent from the request and keeps its stored value.
type CinemaPatch struct {
	Movie       *string `json:"movie" form:"movie"`
	Description *string `json:"description" form:"description"`
	Image       *string `json:"image" form:"image"`
}

// Empty reports whether the patch changes nothing.
func (p CinemaPatch) Empty() bool {
	return p.Movie == nil && p.Description == nil && p.Image == nil
}

// Apply merges the provided fields of p into c.
func (p CinemaPatch) Apply(c *Cinema) {
	if p.Movie != nil {
		c.Movie = *p.Movie
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
}

// ValidateCinema checks the required fields of a full record.
func ValidateCinema(v *validator.Validator, c *Cinema) {
	v.Check(validator.NotBlank(c.Movie), "movie", "must be provided")
	v.Check(validator.NotBlank(c.Description), "description", "must be provided")
}

// ValidatePatch checks a partial update.  Stored records already satisfy
// ValidateCinema, so the merged result can only become invalid through a
// field the patch sets to blank.
func ValidatePatch(v *validator.Validator, p CinemaPatch) {
	if p.Movie != nil {
		v.Check(validator.NotBlank(*p.Movie), "movie", "must not be empty")
	}
	if p.Description != nil {
		v.Check(validator.NotBlank(*p.Description), "description", "must not be empty")
	}
}
