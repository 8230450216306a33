package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChannelKind = string

const (
	ChannelKindPublic  = "public"
	ChannelKindPrivate = "private"
	ChannelKindDirect  = "direct"
)

type Channel struct {
	ID          string                      `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Kind        ChannelKind                 `json:"kind"`
	Members     datatypes.JSONSlice[string] `json:"members"`
	IsPinned    bool                        `json:"is_pinned"`
	IsMuted     bool                        `json:"is_muted"`

	LastMessagePreview string `json:"last_message_preview"`
	UnreadCount        int    `json:"unread_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (v Channel) DisplayText() string {
	if v.Kind == ChannelKindDirect {
		return "DM"
	}
	return v.Name
}

func (v Channel) HasMember(userId string) bool {
	for _, member := range v.Members {
		if member == userId {
			return true
		}
	}
	return false
}

// DirectChannelID derives the identity of a direct channel from its two
// participants. The pair is sorted so both orderings map to the same id,
// which keeps re-opening a DM from creating a duplicate.
func DirectChannelID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("dm:%s:%s", userA, userB)
}
