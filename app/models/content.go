package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a blog entry.
type Post struct {
	Base
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Slug        string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt     string                      `gorm:"size:500" json:"excerpt"`
	Content     string                      `gorm:"type:text" json:"content"`
	CoverImage  string                      `gorm:"size:500" json:"coverImage"`
	Category    string                      `gorm:"size:100;index" json:"category"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Published   bool                        `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time                  `json:"publishedAt"`
}

type Testimonial struct {
	Base
	Name     string  `gorm:"size:255;not null" json:"name"`
	Role     string  `gorm:"size:255" json:"role"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	Rating   int     `gorm:"not null;default:5" json:"rating"`
	Avatar   *string `gorm:"size:500" json:"avatar"`
	Featured bool    `gorm:"not null;default:false" json:"featured"`
}
