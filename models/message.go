package models

import (
	"gorm.io/gorm"
)

// Conversation is the single DM thread between one client and the admin.
type Conversation struct {
	gorm.Model
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	User     User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint   `json:"sender_id" gorm:"not null"`
	Sender         User   `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url"`
	IsQuickReply   bool   `json:"is_quick_reply" gorm:"default:false"`
}

// QuickReply is a canned admin answer fired when a client message contains
// the trigger keyword.
type QuickReply struct {
	gorm.Model
	TriggerKeyword string `json:"trigger_keyword" gorm:"unique;not null"`
	ResponseText   string `json:"response_text" gorm:"not null"`
}
