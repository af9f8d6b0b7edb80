// Package entities defines the persisted content types of the foundation site.
//
// GORM tags describe the relational schema (columns use GORM's snake_case
// naming), JSON tags are the camelCase keys used by the API and the CMS, and
// validate tags feed go-playground/validator for CMS and public writes.
package entities

import "time"

// Model is embedded by every persisted entity.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m Model) GetID() uint {
	return m.ID
}

// PublishState gates public visibility. Public list and detail queries only
// return rows with IsPublished set; CMS queries ignore it.
type PublishState struct {
	IsPublished bool       `gorm:"index;not null;default:false" json:"isPublished"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`
}

// Record is satisfied by every entity through its embedded Model.
type Record interface {
	GetID() uint
	TableName() string
}
