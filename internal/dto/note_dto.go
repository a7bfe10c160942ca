package dto

import (
	"mime/multipart"
	"time"
)

// DefaultColor is applied when the client omits the color field.
const DefaultColor = "#FFE57F"

type CreateNoteRequest struct {
	Title   string `form:"title" validate:"required,max=30"`
	Content string `form:"content" validate:"required,max=500"`
	Color   string `form:"color"`

	Files []*multipart.FileHeader `form:"-" validate:"-"`
}

type UpdateNoteRequest struct {
	Id      uint
	Title   string `form:"title" validate:"required,max=30"`
	Content string `form:"content" validate:"required,max=500"`
	Color   string `form:"color"`

	// URLs the client wants to keep, in display order, and URLs it wants
	// removed from storage.
	ExistingUrls []string `form:"existing_urls" validate:"-"`
	DeletedUrls  []string `form:"deleted_urls" validate:"-"`

	Files []*multipart.FileHeader `form:"-" validate:"-"`
}

type NoteResponse struct {
	Id        uint       `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Color     string     `json:"color"`
	ImageUrls []string   `json:"image_urls"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
