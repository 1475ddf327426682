package model

import "time"

// Artifact is a catalog entry for an object associated with a Temple. The
// temple reference must point at an existing row; repositories surface a
// not-found error otherwise.
type Artifact struct {
	ID                 uint64    // artifacts.id
	TempleID           uint64    // artifacts.temple_id
	Title              string    // artifacts.title
	Description        string    // artifacts.description
	ImageURL           string    // artifacts.image_url
	DetailPeriod       string    // artifacts.detail_period
	DetailMaterial     string    // artifacts.detail_material
	DetailSize         string    // artifacts.detail_size
	DetailStyle        string    // artifacts.detail_style
	FunfactTitle       string    // artifacts.funfact_title
	FunfactDescription string    // artifacts.funfact_description
	LocationURL        string    // artifacts.location_url
	CreatedAt          time.Time // artifacts.created_at
	UpdatedAt          time.Time // artifacts.updated_at
}
