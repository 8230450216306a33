package database

import (
	"github.com/centrohq/centro/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.User{},
	&models.Channel{},
	&models.ChatMessage{},
	&models.VoiceMessage{},
	&models.FileMessage{},
	&models.WorkflowRule{},
	&models.AutoResponse{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
