package model

import (
	"time"

	"gorm.io/datatypes"
)

type Note struct {
	Id        uint           `gorm:"primaryKey;autoIncrement"`
	Title     string         `gorm:"type:varchar(30);not null"`
	Content   string         `gorm:"type:text;not null"`
	Color     string         `gorm:"type:varchar(7);not null;default:'#FFE57F'"`
	ImageUrls datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
