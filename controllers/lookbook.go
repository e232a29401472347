package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/utils"
)

// GetLookbook lists the lookbook, optionally filtered by category.
func GetLookbook(c *fiber.Ctx) error {
	query := db.DB.Model(&models.LookbookItem{}).Order("created_at DESC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.LookbookItem
	if err := query.Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch lookbook",
			Error:   err.Error(),
		})
	}
	return c.JSON(items)
}

// CreateLookbookItem adds a style to the lookbook. Accepts either a
// multipart image upload (stored on Cloudinary) or a direct image_url
// field. Admin only.
func CreateLookbookItem(c *fiber.Ctx) error {
	item := models.LookbookItem{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		ImageURL:    c.FormValue("image_url"),
	}
	if item.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Title is required",
		})
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to read image",
				Error:   err.Error(),
			})
		}
		defer src.Close()

		url, err := utils.UploadToCloudinary(src, fmt.Sprintf("lookbook-%s", file.Filename), "lookbook")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to upload image",
				Error:   err.Error(),
			})
		}
		item.ImageURL = url
	}

	if item.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "An image or image_url is required",
		})
	}

	if err := db.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create lookbook item",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// DeleteLookbookItem removes a style and its likes. Admin only.
func DeleteLookbookItem(c *fiber.Ctx) error {
	id := c.Params("id")
	var item models.LookbookItem
	if err := db.DB.First(&item, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Lookbook item not found",
		})
	}

	db.DB.Where("lookbook_item_id = ?", item.ID).Delete(&models.LookbookLike{})
	if err := db.DB.Delete(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete lookbook item",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeStyle records a swipe-right. Liking twice is a no-op thanks to the
// unique index.
func LikeStyle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid lookbook item ID",
		})
	}

	var item models.LookbookItem
	if err := db.DB.First(&item, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Lookbook item not found",
		})
	}

	like := models.LookbookLike{UserID: userID, LookbookItemID: item.ID}
	if err := db.DB.Create(&like).Error; err != nil {
		// Already liked; return the existing state rather than an error.
		db.DB.Where("user_id = ? AND lookbook_item_id = ?", userID, item.ID).First(&like)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// UnlikeStyle removes a like.
func UnlikeStyle(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid lookbook item ID",
		})
	}

	if err := db.DB.Where("user_id = ? AND lookbook_item_id = ?", userID, id).
		Delete(&models.LookbookLike{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to remove like",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyLikes lists the styles the client has liked, for pre-filling the
// booking notes.
func GetMyLikes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	var likes []models.LookbookLike
	err := db.DB.Preload("LookbookItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch likes",
			Error:   err.Error(),
		})
	}
	return c.JSON(likes)
}
