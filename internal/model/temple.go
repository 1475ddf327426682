package model

import "time"

// Temple is a catalog entry for a heritage site. The image URL always holds a
// value: a freshly created temple without an uploaded image gets the
// configured placeholder URL, never NULL.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Title              – display title.
//	Description        – long-form description.
//	ImageURL           – public URL of the stored image (or placeholder).
//	FunfactTitle       – optional fun-fact headline.
//	FunfactDescription – optional fun-fact body.
//	LocationURL        – optional maps link.
//	CreatedAt          – timestamp of creation.
//	UpdatedAt          – timestamp of last update.
type Temple struct {
	ID                 uint64    // temples.id
	Title              string    // temples.title
	Description        string    // temples.description
	ImageURL           string    // temples.image_url
	FunfactTitle       string    // temples.funfact_title
	FunfactDescription string    // temples.funfact_description
	LocationURL        string    // temples.location_url
	CreatedAt          time.Time // temples.created_at
	UpdatedAt          time.Time // temples.updated_at
}
