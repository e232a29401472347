package models

import (
	"gorm.io/gorm"
)

type LookbookItem struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" gorm:"not null"`
	Category    string `json:"category"`
}

// LookbookLike records one user liking one lookbook item; the composite
// unique index makes the like idempotent.
type LookbookLike struct {
	gorm.Model
	UserID         uint         `json:"user_id" gorm:"not null;uniqueIndex:uniq_user_lookbook"`
	LookbookItemID uint         `json:"lookbook_item_id" gorm:"not null;uniqueIndex:uniq_user_lookbook"`
	LookbookItem   LookbookItem `json:"lookbook_item,omitempty" gorm:"foreignKey:LookbookItemID"`
}
