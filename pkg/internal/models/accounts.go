package models

import "gorm.io/gorm"

type User struct {
	ID     string  `json:"id" gorm:"primaryKey"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Avatar *string `json:"avatar"`

	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
