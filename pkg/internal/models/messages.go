package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MessageKind = string

const (
	MessageKindText         = "text"
	MessageKindFile         = "file"
	MessageKindImage        = "image"
	MessageKindSystem       = "system"
	MessageKindAnnouncement = "announcement"
	MessageKindPoll         = "poll"
)

// SenderSystem is the identity auto-responses are emitted under.
const SenderSystem = "system"

// ReplyRef is a snapshot of the replied-to message captured at reply
// time. It is not updated when the parent is later edited or deleted.
type ReplyRef struct {
	MessageID      string `json:"message_id"`
	SenderDisplay  string `json:"sender_display"`
	ContentExcerpt string `json:"content_excerpt"`
}

type ChatMessage struct {
	ID            string      `json:"id" gorm:"primaryKey"`
	ChannelID     string      `json:"channel_id" gorm:"index"`
	SenderID      string      `json:"sender_id"`
	SenderDisplay string      `json:"sender_display"`
	Content       string      `json:"content"`
	Kind          MessageKind `json:"kind"`
	Category      string      `json:"category"`

	Timestamp time.Time  `json:"timestamp"`
	IsEdited  bool       `json:"is_edited"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	IsPinned  bool       `json:"is_pinned"`

	ReplyTo  *ReplyRef                   `json:"reply_to,omitempty" gorm:"embedded;embeddedPrefix:reply_"`
	Mentions datatypes.JSONSlice[string] `json:"mentions"`

	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
