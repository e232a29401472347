package db

import (
	"fmt"
	"log"

	"github.com/randv/experience-api/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	err := DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Service{},
		&models.TimeSlot{},
		&models.Appointment{},
		&models.LookbookItem{},
		&models.LookbookLike{},
		&models.Conversation{},
		&models.Message{},
		&models.QuickReply{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRoles()
	seedServices()
	seedQuickReplies()

	fmt.Println("✅ Migrations applied successfully!")
}

func seedRoles() {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Shop owner with full access"},
		{Name: models.RoleClient, Description: "Client who can book appointments"},
	}
	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}

func seedServices() {
	services := []models.Service{
		{Slug: "signature-cut", Name: "The Signature Cut", Description: "Precision haircut tailored to your style", DurationMin: 45, Cost: 65},
		{Slug: "full-experience", Name: "The Full Experience", Description: "Cut, beard sculpt, and hot towel treatment", DurationMin: 75, Cost: 110},
		{Slug: "beard-sculpt", Name: "Beard Sculpt", Description: "Precision beard shaping and conditioning", DurationMin: 30, Cost: 40},
	}
	for _, service := range services {
		var existing models.Service
		if DB.Where("slug = ?", service.Slug).First(&existing).RowsAffected == 0 {
			DB.Create(&service)
		}
	}
}

func seedQuickReplies() {
	replies := []models.QuickReply{
		{TriggerKeyword: "hours", ResponseText: "We operate by appointment only, Tuesday through Saturday. Book a slot and the chair is yours."},
		{TriggerKeyword: "located", ResponseText: "The studio is at 1200 Crenshaw Blvd, Los Angeles. Parking in the rear."},
		{TriggerKeyword: "prices", ResponseText: "The Signature Cut is $65, The Full Experience is $110, Beard Sculpt is $40."},
		{TriggerKeyword: "availability", ResponseText: "Check the booking page for live availability — slots this week go fast."},
	}
	for _, reply := range replies {
		var existing models.QuickReply
		if DB.Where("trigger_keyword = ?", reply.TriggerKeyword).First(&existing).RowsAffected == 0 {
			DB.Create(&reply)
		}
	}
}
