package service

import (
	"context"
	"io"
	"mime/multipart"

	"stickynotes-be/internal/dto"
	"stickynotes-be/internal/entity"
	"stickynotes-be/internal/mapper"
	"stickynotes-be/internal/pkg/logger"
	"stickynotes-be/internal/pkg/serverutils"
	"stickynotes-be/internal/repository/specification"
	"stickynotes-be/internal/repository/unitofwork"
	"stickynotes-be/pkg/blob"

	"github.com/gofiber/fiber/v2"
)

type INoteService interface {
	List(ctx context.Context) ([]*dto.NoteResponse, error)
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id uint) error
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
	storage    blob.Storage // nil when BLOB_READ_WRITE_TOKEN is absent
	mapper     *mapper.NoteMapper
	log        logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	storage blob.Storage,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory: uowFactory,
		storage:    storage,
		mapper:     mapper.NewNoteMapper(),
		log:        log,
	}
}

func (c *noteService) List(ctx context.Context) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	return c.mapper.ToResponses(notes), nil
}

func (c *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	// Upload before touching the database: a storage failure must leave no
	// partial note behind.
	newUrls, err := c.uploadFiles(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Title:     req.Title,
		Content:   req.Content,
		Color:     req.Color,
		ImageUrls: newUrls,
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	return c.mapper.ToResponse(&note), nil
}

func (c *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewNotFoundError("Note not found")
	}

	newUrls, err := c.uploadFiles(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	// Surviving previously-existing URLs keep their order; fresh uploads
	// go to the back.
	finalUrls := make([]string, 0, len(req.ExistingUrls)+len(newUrls))
	deleted := make(map[string]bool, len(req.DeletedUrls))
	for _, u := range req.DeletedUrls {
		deleted[u] = true
	}
	for _, u := range req.ExistingUrls {
		if !deleted[u] {
			finalUrls = append(finalUrls, u)
		}
	}
	finalUrls = append(finalUrls, newUrls...)

	// The database update proceeds whether or not the physical blobs went
	// away; a URL dropped from the list never resurfaces.
	c.bestEffortDelete(ctx, req.DeletedUrls)

	note.Title = req.Title
	note.Content = req.Content
	note.Color = req.Color
	note.ImageUrls = finalUrls

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return c.mapper.ToResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, id uint) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if note == nil {
		return serverutils.NewNotFoundError("Note not found")
	}

	c.bestEffortDelete(ctx, note.ImageUrls)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// uploadFiles reads and uploads the request's attachments, returning their
// public URLs in input order. A missing storage credential only matters
// when there is actually something to upload.
func (c *noteService) uploadFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if c.storage == nil {
		return nil, serverutils.NewAppError(fiber.StatusInternalServerError, "image storage is not configured")
	}

	payload := make([]blob.File, 0, len(files))
	for _, fh := range files {
		content, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		name := fh.Filename
		if name == "" {
			name = "image"
		}
		payload = append(payload, blob.File{Name: name, Content: content})
	}

	return c.storage.Upload(ctx, payload)
}

func (c *noteService) bestEffortDelete(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	if c.storage == nil {
		c.log.Warn("note", "skipping blob deletion, storage is not configured", map[string]interface{}{
			"urls": urls,
		})
		return
	}
	c.storage.Delete(ctx, urls)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
