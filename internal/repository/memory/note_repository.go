package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"stickynotes-be/internal/entity"
	"stickynotes-be/internal/repository/contract"
	"stickynotes-be/internal/repository/specification"
)

// NoteRepository is an in-memory contract.NoteRepository used by tests and
// local experiments. It interprets the query specifications the note
// service actually issues (ByID, OrderBy created_at).
type NoteRepository struct {
	mu     sync.RWMutex
	nextId uint
	notes  map[uint]entity.Note
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		nextId: 1,
		notes:  make(map[uint]entity.Note),
	}
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note.Id = r.nextId
	r.nextId++

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Color == "" {
		note.Color = "#FFE57F"
	}

	r.notes[note.Id] = cloneNote(*note)
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note.UpdatedAt = time.Now()
	r.notes[note.Id] = cloneNote(*note)
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notes, id)
	return nil
}

func (r *NoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *NoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Note, 0, len(r.notes))
	for _, n := range r.notes {
		c := cloneNote(n)
		result = append(result, &c)
	}

	// Stable base order so ties keep a deterministic sequence
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })

	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			filtered := result[:0]
			for _, n := range result {
				if n.Id == s.ID {
					filtered = append(filtered, n)
				}
			}
			result = filtered
		case specification.OrderBy:
			if s.Field == "created_at" {
				sort.SliceStable(result, func(i, j int) bool {
					if s.Desc {
						return result[i].CreatedAt.After(result[j].CreatedAt)
					}
					return result[i].CreatedAt.Before(result[j].CreatedAt)
				})
			}
		}
	}
	return result, nil
}

func (r *NoteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

func cloneNote(n entity.Note) entity.Note {
	urls := make([]string, len(n.ImageUrls))
	copy(urls, n.ImageUrls)
	n.ImageUrls = urls
	return n
}
