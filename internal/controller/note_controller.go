package controller

import (
	"mime/multipart"
	"strconv"
	"strings"

	"stickynotes-be/internal/dto"
	"stickynotes-be/internal/pkg/serverutils"
	"stickynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	maxImages    = 3
	maxImageSize = 5 * 1024 * 1024 // 5 MiB per file
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	res, err := c.noteService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	req := dto.CreateNoteRequest{
		Title:   strings.TrimSpace(ctx.FormValue("title")),
		Content: strings.TrimSpace(ctx.FormValue("content")),
		Color:   formColor(ctx),
		Files:   formFiles(ctx),
	}

	// File shape first, then text fields, then anything with side effects.
	if err := validateFiles(req.Files); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	id, err := parseId(ctx)
	if err != nil {
		return err
	}

	req := dto.UpdateNoteRequest{
		Id:      id,
		Title:   strings.TrimSpace(ctx.FormValue("title")),
		Content: strings.TrimSpace(ctx.FormValue("content")),
		Color:   formColor(ctx),
		Files:   formFiles(ctx),
	}
	if form, ferr := ctx.MultipartForm(); ferr == nil && form != nil {
		req.ExistingUrls = form.Value["existing_urls"]
		req.DeletedUrls = form.Value["deleted_urls"]
	}

	if err := validateFiles(req.Files); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	id, err := parseId(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse())
}

func parseId(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, serverutils.NewNotFoundError("Note not found")
	}
	return uint(id), nil
}

func formColor(ctx *fiber.Ctx) string {
	color := strings.TrimSpace(ctx.FormValue("color"))
	if color == "" {
		color = dto.DefaultColor
	}
	return color
}

func formFiles(ctx *fiber.Ctx) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

func validateFiles(files []*multipart.FileHeader) error {
	if len(files) > maxImages {
		return serverutils.NewValidationError("A note can have at most 3 images")
	}
	for _, f := range files {
		if f.Size > maxImageSize {
			return serverutils.NewValidationError("Each image must be 5MB or smaller")
		}
	}
	return nil
}
