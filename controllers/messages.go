package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/utils"
)

// GetMyConversation returns the client's DM thread with the admin, creating
// it on first use.
func GetMyConversation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	var conversation models.Conversation
	if db.DB.Where("user_id = ?", userID).First(&conversation).RowsAffected == 0 {
		conversation = models.Conversation{UserID: userID}
		if err := db.DB.Create(&conversation).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create conversation",
				Error:   err.Error(),
			})
		}
	}

	var messages []models.Message
	err := db.DB.Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch messages",
			Error:   err.Error(),
		})
	}
	for i := range messages {
		messages[i].Sender.Password = ""
	}

	return c.JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

// SendMessage posts a message into the caller's conversation. Client
// messages matching a quick-reply trigger get an instant canned answer so
// common questions are covered while the admin is with a client.
func SendMessage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	type MessageInput struct {
		Content       string `json:"content"`
		AttachmentURL string `json:"attachment_url"`
	}
	input := new(MessageInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.Content == "" && input.AttachmentURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Message content or attachment required",
		})
	}

	var conversation models.Conversation
	if db.DB.Where("user_id = ?", userID).First(&conversation).RowsAffected == 0 {
		conversation = models.Conversation{UserID: userID}
		if err := db.DB.Create(&conversation).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create conversation",
				Error:   err.Error(),
			})
		}
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Content:        input.Content,
		AttachmentURL:  input.AttachmentURL,
	}
	if err := db.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to send message",
			Error:   err.Error(),
		})
	}

	response := fiber.Map{"message": message}
	if auto := matchQuickReply(conversation.ID, input.Content); auto != nil {
		response["auto_reply"] = auto
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// matchQuickReply checks a client message against the canned triggers and
// posts the admin's stock answer when one matches.
func matchQuickReply(conversationID uint, content string) *models.Message {
	if content == "" {
		return nil
	}

	var replies []models.QuickReply
	if err := db.DB.Find(&replies).Error; err != nil {
		return nil
	}

	lowered := strings.ToLower(content)
	for _, reply := range replies {
		if !strings.Contains(lowered, strings.ToLower(reply.TriggerKeyword)) {
			continue
		}

		var admin models.User
		err := db.DB.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name = ?", models.RoleAdmin).
			First(&admin).Error
		if err != nil {
			return nil
		}

		auto := models.Message{
			ConversationID: conversationID,
			SenderID:       admin.ID,
			Content:        reply.ResponseText,
			IsQuickReply:   true,
		}
		if err := db.DB.Create(&auto).Error; err != nil {
			return nil
		}
		return &auto
	}
	return nil
}

// UploadMessageAttachment stores an attachment on Cloudinary and returns
// its URL for a follow-up SendMessage call.
func UploadMessageAttachment(c *fiber.Ctx) error {
	file, err := c.FormFile("attachment")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Attachment file required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to read attachment",
			Error:   err.Error(),
		})
	}
	defer src.Close()

	url, err := utils.UploadToCloudinary(src, fmt.Sprintf("dm-%s", file.Filename), "messages")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload attachment",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"attachment_url": url})
}

// GetQuickReplies lists the canned replies shown as chips above the
// composer.
func GetQuickReplies(c *fiber.Ctx) error {
	var replies []models.QuickReply
	if err := db.DB.Find(&replies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch quick replies",
			Error:   err.Error(),
		})
	}
	return c.JSON(replies)
}

// GetAllConversations lists every client thread for the admin inbox,
// newest activity first.
func GetAllConversations(c *fiber.Ctx) error {
	var conversations []models.Conversation
	err := db.DB.Preload("User").
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch conversations",
			Error:   err.Error(),
		})
	}
	for i := range conversations {
		conversations[i].User.Password = ""
	}
	return c.JSON(conversations)
}

// AdminReply posts an admin message into any conversation.
func AdminReply(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid conversation ID",
		})
	}

	var conversation models.Conversation
	if err := db.DB.First(&conversation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Conversation not found",
		})
	}

	type ReplyInput struct {
		Content       string `json:"content"`
		AttachmentURL string `json:"attachment_url"`
	}
	input := new(ReplyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.Content == "" && input.AttachmentURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Message content or attachment required",
		})
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Content:        input.Content,
		AttachmentURL:  input.AttachmentURL,
	}
	if err := db.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to send message",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
