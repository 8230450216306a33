package database

import (
	"github.com/centrohq/centro/pkg/internal/models"
	"gorm.io/gorm"
)

// Persistence is the gorm-backed write side of the message store. It
// satisfies store.Persistence; the store never imports this package.
type Persistence struct {
	db *gorm.DB
}

func NewPersistence(db *gorm.DB) *Persistence {
	return &Persistence{db: db}
}

func (p *Persistence) InsertMessage(message models.ChatMessage) error {
	return p.db.Save(&message).Error
}

func (p *Persistence) UpdateMessage(message models.ChatMessage) error {
	return p.db.Save(&message).Error
}

func (p *Persistence) DeleteMessage(id string) error {
	return p.db.Delete(&models.ChatMessage{}, "id = ?", id).Error
}

func (p *Persistence) InsertVoiceMessage(message models.VoiceMessage) error {
	return p.db.Save(&message).Error
}

func (p *Persistence) InsertFileMessage(message models.FileMessage) error {
	return p.db.Save(&message).Error
}

func (p *Persistence) ListMessages(channelId string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := p.db.
		Where("channel_id = ?", channelId).
		Order("timestamp ASC").
		Find(&messages).Error; err != nil {
		return messages, err
	}
	return messages, nil
}

func (p *Persistence) ListChannels() ([]models.Channel, error) {
	var channels []models.Channel
	if err := p.db.Order("created_at ASC").Find(&channels).Error; err != nil {
		return channels, err
	}
	return channels, nil
}

func (p *Persistence) SaveChannel(channel models.Channel) error {
	return p.db.Save(&channel).Error
}
