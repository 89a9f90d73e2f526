package telegram

import (
	"time"

	"tutorhub/internal/domain/profile"
)

func displayName(p *profile.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func location(p *profile.Profile) *time.Location {
	if loc, err := time.LoadLocation(p.Timezone); err == nil && p.Timezone != "" {
		return loc
	}
	return time.UTC
}
