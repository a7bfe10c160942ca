package entity

import "time"

type Note struct {
	Id        uint
	Title     string
	Content   string
	Color     string
	ImageUrls []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
