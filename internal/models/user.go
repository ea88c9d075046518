package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is the alumni profile owned by the profile directory. This service only
// reads it to enrich connection and message results.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName   string `gorm:"size:80" json:"first_name"`
	LastName    string `gorm:"size:80" json:"last_name"`
	Company     string `gorm:"size:120" json:"company"`
	Batch       string `gorm:"size:20;index" json:"batch"`
	Designation string `gorm:"size:120" json:"designation"`
}

// DisplayName falls back to the email local part when no name is on file.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if local, _, ok := strings.Cut(strings.TrimSpace(u.Email), "@"); ok && local != "" {
		return local
	}
	return FallbackDisplayName(u.ID)
}

func FallbackDisplayName(id uint) string {
	return fmt.Sprintf("Alumnus #%d", id)
}

// ProfileSummary is the subset of a profile attached to connection and
// conversation results. It never carries the email address.
type ProfileSummary struct {
	ID          uint   `json:"id" msgpack:"id"`
	DisplayName string `json:"display_name" msgpack:"display_name"`
	Company     string `json:"company" msgpack:"company"`
	Batch       string `json:"batch" msgpack:"batch"`
	Designation string `json:"designation" msgpack:"designation"`
}

func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName(),
		Company:     u.Company,
		Batch:       u.Batch,
		Designation: u.Designation,
	}
}

// UnknownProfile is used when a counterpart no longer resolves in the directory.
func UnknownProfile(id uint) ProfileSummary {
	return ProfileSummary{ID: id, DisplayName: FallbackDisplayName(id)}
}
