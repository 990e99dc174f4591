// internal/models/cms.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Page struct {
	BaseModel
	Slug        string        `json:"slug" gorm:"size:150;not null;uniqueIndex"`
	Title       string        `json:"title" gorm:"size:255;not null"`
	Content     string        `json:"content" gorm:"type:text"`
	Status      ContentStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	AuthorID    uuid.UUID     `json:"author_id" gorm:"type:uuid;not null;index"`
	PublishedAt *time.Time    `json:"published_at"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

type BlogPost struct {
	BaseModel
	Slug        string         `json:"slug" gorm:"size:150;not null;uniqueIndex"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Excerpt     string         `json:"excerpt" gorm:"type:text"`
	Content     string         `json:"content" gorm:"type:text"`
	CoverImage  string         `json:"cover_image" gorm:"size:500"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status      ContentStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	AuthorID    uuid.UUID      `json:"author_id" gorm:"type:uuid;not null;index"`
	PublishedAt *time.Time     `json:"published_at"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

type HealthArticle struct {
	BaseModel
	Slug        string         `json:"slug" gorm:"size:150;not null;uniqueIndex"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Summary     string         `json:"summary" gorm:"type:text"`
	Content     string         `json:"content" gorm:"type:text"`
	CoverImage  string         `json:"cover_image" gorm:"size:500"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status      ContentStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	AuthorID    uuid.UUID      `json:"author_id" gorm:"type:uuid;not null;index"`
	PublishedAt *time.Time     `json:"published_at"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
