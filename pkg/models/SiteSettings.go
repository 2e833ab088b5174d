package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

/*
SiteSettingsID is the fixed key of the one settings record.
*/
const SiteSettingsID = "default"

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Website   string `json:"website,omitempty"`
}

func (s SocialLinks) Value() (driver.Value, error) {
	b, err := json.Marshal(s)

	if err != nil {
		return nil, fmt.Errorf("error encoding social links: %w", err)
	}

	return string(b), nil
}

func (s *SocialLinks) Scan(src any) error {
	var b []byte

	switch v := src.(type) {
	case nil:
		*s = SocialLinks{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into SocialLinks", src)
	}

	result := SocialLinks{}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &result); err != nil {
			return fmt.Errorf("error decoding social links: %w", err)
		}
	}

	*s = result
	return nil
}

type SiteSettings struct {
	PhotographerName string      `db:"photographer_name" json:"photographerName"`
	Tagline          string      `db:"tagline" json:"tagline"`
	LogoURL          string      `db:"logo_url" json:"logoUrl,omitempty"`
	Email            string      `db:"email" json:"email,omitempty"`
	Phone            string      `db:"phone" json:"phone,omitempty"`
	Location         string      `db:"location" json:"location,omitempty"`
	AboutMe          string      `db:"about_me" json:"aboutMe,omitempty"`
	AboutImageURL    string      `db:"about_image_url" json:"aboutImageUrl,omitempty"`
	SocialLinks      SocialLinks `db:"social_links" json:"socialLinks"`
	AccentColor      string      `db:"accent_color" json:"accentColor"`
	DarkModeDefault  bool        `db:"dark_mode_default" json:"darkModeDefault"`
}

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		PhotographerName: "Your Name",
		Tagline:          "Capturing moments that last forever",
		Email:            "hello@example.com",
		SocialLinks:      SocialLinks{},
		AccentColor:      "#c9a96e",
		DarkModeDefault:  false,
	}
}

func (s SiteSettings) Validate() error {
	if strings.TrimSpace(s.PhotographerName) == "" {
		return NewValidationError("photographerName", "photographer name is required")
	}

	if strings.TrimSpace(s.AccentColor) == "" {
		return NewValidationError("accentColor", "accent color is required")
	}

	return nil
}
