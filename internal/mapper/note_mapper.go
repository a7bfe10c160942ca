package mapper

import (
	"encoding/json"

	"stickynotes-be/internal/dto"
	"stickynotes-be/internal/entity"
	"stickynotes-be/internal/model"

	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	// The column is nullable; a missing or malformed value reads back as
	// an empty list rather than an error.
	urls := make([]string, 0)
	if len(n.ImageUrls) > 0 {
		_ = json.Unmarshal(n.ImageUrls, &urls)
		if urls == nil {
			urls = make([]string, 0)
		}
	}

	return &entity.Note{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		ImageUrls: urls,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	urls := n.ImageUrls
	if urls == nil {
		urls = make([]string, 0)
	}
	raw, _ := json.Marshal(urls)

	return &model.Note{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		ImageUrls: datatypes.JSON(raw),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToResponse(n *entity.Note) *dto.NoteResponse {
	if n == nil {
		return nil
	}

	urls := n.ImageUrls
	if urls == nil {
		urls = make([]string, 0)
	}

	res := &dto.NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		ImageUrls: urls,
	}
	if !n.CreatedAt.IsZero() {
		t := n.CreatedAt
		res.CreatedAt = &t
	}
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		res.UpdatedAt = &t
	}
	return res
}

func (m *NoteMapper) ToResponses(notes []*entity.Note) []*dto.NoteResponse {
	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = m.ToResponse(n)
	}
	return responses
}
