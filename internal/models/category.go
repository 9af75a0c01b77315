package models

import "gorm.io/gorm"

// Category is a node in the shallow category tree. ParentID is nil for roots.
type Category struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Slug       string  `json:"slug" gorm:"uniqueIndex;type:varchar(150)" validate:"required"`
	ParentID   *string `json:"parent_id,omitempty" gorm:"index;type:varchar(36)"`
	Order      int     `json:"order" gorm:"column:sort_order"`
	IsActive   bool    `json:"is_active" gorm:"default:true"`
	gorm.Model         // CreatedAt, UpdatedAt, DeletedAt
}
