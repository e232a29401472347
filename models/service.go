package models

import (
	"gorm.io/gorm"
)

// Service is one entry of the shop's catalog. Appointments reference
// services by slug so the catalog can be reworded without touching
// historical bookings.
type Service struct {
	gorm.Model
	Slug        string  `json:"slug" gorm:"unique;not null"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min"`
	Cost        float64 `json:"cost"`
}

// ServiceDisplayName resolves a service slug to its display name, falling
// back to the slug itself for retired catalog entries.
func ServiceDisplayName(db *gorm.DB, slug string) string {
	var service Service
	if err := db.Where("slug = ?", slug).First(&service).Error; err != nil {
		return slug
	}
	return service.Name
}
