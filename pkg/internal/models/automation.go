package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkflowRule is a condition/action pair evaluated against every sent
// message. Conditions are either a plain substring or a quoted keyword
// list, see automation.MatchCondition.
type WorkflowRule struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
	Priority  int    `json:"priority"`
	Enabled   bool   `json:"enabled"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type AutoResponse struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Trigger  string `json:"trigger"`
	Response string `json:"response"`
	Enabled  bool   `json:"enabled"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// CategoryDefault is assigned when no configured category matches.
const CategoryDefault = "general"

type CategorizationConfig struct {
	Enabled bool `json:"enabled"`
	// Categories keeps the configured evaluation order; the keyword map
	// alone would lose it.
	Categories datatypes.JSONSlice[string] `json:"categories"`
	Keywords   map[string][]string         `json:"keywords" gorm:"serializer:json"`
}
