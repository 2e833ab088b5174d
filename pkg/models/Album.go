package models

import (
	"fmt"
	"strings"
)

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityUnlisted
}

type Album struct {
	ID               string     `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Slug             string     `db:"slug" json:"slug"`
	CoverImageURL    string     `db:"cover_image_url" json:"coverImageUrl"`
	ExternalAlbumURL string     `db:"external_album_url" json:"externalAlbumUrl"`
	Description      string     `db:"description" json:"description"`
	EventDate        Date       `db:"event_date" json:"eventDate"`
	CreatedAt        Date       `db:"created_at" json:"createdAt"`
	Location         string     `db:"location" json:"location"`
	Tags             Tags       `db:"tags" json:"tags"`
	Featured         bool       `db:"featured" json:"featured"`
	Visibility       Visibility `db:"visibility" json:"visibility"`
	ViewCount        int64      `db:"view_count" json:"viewCount"`
	ClickCount       int64      `db:"click_count" json:"clickCount"`
}

func (a Album) IsPublic() bool {
	return a.Visibility == VisibilityPublic
}

/*
AlbumInput is everything a caller may set when creating or editing an album.
Identity, creation date, and counters are owned by the store.
*/
type AlbumInput struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	CoverImageURL    string     `json:"coverImageUrl"`
	ExternalAlbumURL string     `json:"externalAlbumUrl"`
	Description      string     `json:"description"`
	EventDate        Date       `json:"eventDate"`
	Location         string     `json:"location"`
	Tags             Tags       `json:"tags"`
	Featured         bool       `json:"featured"`
	Visibility       Visibility `json:"visibility"`
}

func (in AlbumInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("title", "title is required")
	}

	if strings.TrimSpace(in.CoverImageURL) == "" {
		return NewValidationError("coverImageUrl", "a cover image is required")
	}

	if strings.TrimSpace(in.ExternalAlbumURL) == "" {
		return NewValidationError("externalAlbumUrl", "an external album link is required")
	}

	if in.EventDate.IsZero() {
		return NewValidationError("eventDate", "event date is required")
	}

	if in.Visibility != "" && !in.Visibility.IsValid() {
		return NewValidationError("visibility", fmt.Sprintf("visibility must be '%s' or '%s'", VisibilityPublic, VisibilityUnlisted))
	}

	return nil
}
