package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"stickynotes-be/internal/dto"
	"stickynotes-be/internal/pkg/serverutils"
	"stickynotes-be/internal/repository/memory"
	"stickynotes-be/internal/repository/unitofwork"
	"stickynotes-be/internal/service"
	"stickynotes-be/pkg/blob"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeStorage struct {
	uploadBatches [][]blob.File
	deleteBatches [][]string
	uploadErr     error
	uploadCount   int
}

func (f *fakeStorage) Upload(ctx context.Context, files []blob.File) ([]string, error) {
	f.uploadBatches = append(f.uploadBatches, files)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	urls := make([]string, 0, len(files))
	for range files {
		f.uploadCount++
		urls = append(urls, fmt.Sprintf("https://store.test/blob-%d", f.uploadCount))
	}
	return urls, nil
}

func (f *fakeStorage) Delete(ctx context.Context, urls []string) {
	f.deleteBatches = append(f.deleteBatches, urls)
}

func newTestApp(storage blob.Storage) (*fiber.App, *memory.NoteRepository) {
	repo := memory.NewNoteRepository()
	svc := service.NewNoteService(memory.NewRepositoryFactory(repo), storage, nopLogger{})

	app := fiber.New(fiber.Config{BodyLimit: 25 * 1024 * 1024})
	app.Use(serverutils.ErrorHandlerMiddleware(nopLogger{}))
	api := app.Group("/api")
	NewNoteController(svc).RegisterRoutes(api)
	return app, repo
}

type filePart struct {
	name    string
	content []byte
}

// multipartRequest builds the kind of request the bundled frontend sends.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, repeated map[string][]string, files []filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for k, vs := range repeated {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeNote(t *testing.T, res *http.Response) dto.NoteResponse {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var note dto.NoteResponse
	require.NoError(t, json.Unmarshal(body, &note))
	return note
}

func decodeError(t *testing.T, res *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Contains(t, parsed, "error")
	return parsed["error"]
}

func TestListEmpty(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
}

func TestCreateThenUpdateScenario(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	// Create without images
	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"title":   "Groceries",
		"content": "Milk, eggs",
		"color":   "#FFE57F",
	}, nil, nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	created := decodeNote(t, res)
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, "#FFE57F", created.Color)
	assert.Equal(t, []string{}, created.ImageUrls)
	require.NotNil(t, created.CreatedAt)
	require.NotNil(t, created.UpdatedAt)

	// Update with one fresh image, nothing kept, nothing deleted
	req = multipartRequest(t, http.MethodPut, fmt.Sprintf("/api/notes/%d", created.Id), map[string]string{
		"title":   "Groceries",
		"content": "Milk, eggs, bread",
		"color":   "#FFE57F",
	}, nil, []filePart{{name: "receipt.png", content: []byte("png bytes")}})
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	updated := decodeNote(t, res)
	assert.Equal(t, created.Id, updated.Id)
	require.Len(t, updated.ImageUrls, 1)
	assert.Equal(t, "Milk, eggs, bread", updated.Content)
	assert.False(t, updated.UpdatedAt.Before(*created.UpdatedAt))
}

func TestCreateSerializesEmptyImageList(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"title":   "T",
		"content": "C",
		"color":   "#FFFFFF",
	}, nil, nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"image_urls":[]`)
	assert.Contains(t, string(body), `"color":"#FFFFFF"`)
}

func TestCreateDefaultsColor(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"title":   "T",
		"content": "C",
	}, nil, nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	assert.Equal(t, dto.DefaultColor, decodeNote(t, res).Color)
}

func TestCreateValidation(t *testing.T) {
	longTitle := bytes.Repeat([]byte("a"), 31)
	longContent := bytes.Repeat([]byte("b"), 501)

	tests := []struct {
		name   string
		fields map[string]string
		files  []filePart
	}{
		{
			name:   "missing title",
			fields: map[string]string{"content": "C"},
		},
		{
			name:   "blank title",
			fields: map[string]string{"title": "   ", "content": "C"},
		},
		{
			name:   "title too long",
			fields: map[string]string{"title": string(longTitle), "content": "C"},
		},
		{
			name:   "missing content",
			fields: map[string]string{"title": "T"},
		},
		{
			name:   "content too long",
			fields: map[string]string{"title": "T", "content": string(longContent)},
		},
		{
			name:   "too many images",
			fields: map[string]string{"title": "T", "content": "C"},
			files: []filePart{
				{"a.png", []byte("x")}, {"b.png", []byte("x")},
				{"c.png", []byte("x")}, {"d.png", []byte("x")},
			},
		},
		{
			name:   "oversized image",
			fields: map[string]string{"title": "T", "content": "C"},
			files:  []filePart{{"big.png", bytes.Repeat([]byte("x"), 5*1024*1024+1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &fakeStorage{}
			app, repo := newTestApp(storage)

			req := multipartRequest(t, http.MethodPost, "/api/notes", tt.fields, nil, tt.files)
			res, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.NotEmpty(t, decodeError(t, res))

			// Rejected before any side effect
			assert.Empty(t, storage.uploadBatches)
			count, cerr := repo.Count(context.Background())
			require.NoError(t, cerr)
			assert.EqualValues(t, 0, count)
		})
	}
}

func TestFileShapeCheckedBeforeTextFields(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	// Both the image count and the title are invalid; the file-shape error
	// must win.
	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"content": "C",
	}, nil, []filePart{
		{"a.png", []byte("x")}, {"b.png", []byte("x")},
		{"c.png", []byte("x")}, {"d.png", []byte("x")},
	})
	res, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, decodeError(t, res), "images")
}

func TestCreateUploadFailureIsServerError(t *testing.T) {
	storage := &fakeStorage{uploadErr: blob.ErrUpload}
	app, repo := newTestApp(storage)

	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"title":   "T",
		"content": "C",
	}, nil, []filePart{{"a.png", []byte("x")}})
	res, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	count, cerr := repo.Count(context.Background())
	require.NoError(t, cerr)
	assert.EqualValues(t, 0, count, "no partial note on upload failure")
}

func TestUpdateKeepsAndDeletesUrls(t *testing.T) {
	storage := &fakeStorage{}
	app, _ := newTestApp(storage)

	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"title":   "T",
		"content": "C",
	}, nil, []filePart{{"a.png", []byte("x")}, {"b.png", []byte("y")}})
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	created := decodeNote(t, res)
	require.Len(t, created.ImageUrls, 2)

	req = multipartRequest(t, http.MethodPut, fmt.Sprintf("/api/notes/%d", created.Id), map[string]string{
		"title":   "T",
		"content": "C",
	}, map[string][]string{
		"existing_urls": {created.ImageUrls[0], created.ImageUrls[1]},
		"deleted_urls":  {created.ImageUrls[0]},
	}, nil)
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	updated := decodeNote(t, res)
	assert.Equal(t, []string{created.ImageUrls[1]}, updated.ImageUrls)
	require.Len(t, storage.deleteBatches, 1)
	assert.Equal(t, []string{created.ImageUrls[0]}, storage.deleteBatches[0])
}

func TestUpdateUnknownIdReturns404(t *testing.T) {
	storage := &fakeStorage{}
	app, _ := newTestApp(storage)

	req := multipartRequest(t, http.MethodPut, "/api/notes/9999", map[string]string{
		"title":   "T",
		"content": "C",
	}, nil, nil)
	res, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.NotEmpty(t, decodeError(t, res))
	assert.Empty(t, storage.uploadBatches)
	assert.Empty(t, storage.deleteBatches)
}

func TestDeleteFlow(t *testing.T) {
	storage := &fakeStorage{}
	app, repo := newTestApp(storage)

	req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
		"title":   "T",
		"content": "C",
	}, nil, []filePart{{"a.png", []byte("x")}})
	res, err := app.Test(req)
	require.NoError(t, err)
	created := decodeNote(t, res)

	res, err = app.Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/notes/%d", created.Id), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, berr := io.ReadAll(res.Body)
	require.NoError(t, berr)
	assert.JSONEq(t, `{"success": true}`, string(body))

	require.Len(t, storage.deleteBatches, 1)
	assert.Equal(t, created.ImageUrls, storage.deleteBatches[0])

	count, cerr := repo.Count(context.Background())
	require.NoError(t, cerr)
	assert.EqualValues(t, 0, count)
}

func TestDeleteUnknownIdReturns404(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	res, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notes/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.NotEmpty(t, decodeError(t, res))
}

func TestNonNumericIdReturns404(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	res, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notes/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestListWithoutDatabaseReturns503(t *testing.T) {
	svc := service.NewNoteService(unitofwork.NewRepositoryFactory(nil), &fakeStorage{}, nopLogger{})
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(nopLogger{}))
	NewNoteController(svc).RegisterRoutes(app.Group("/api"))

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.NotEmpty(t, decodeError(t, res))
}

func TestListReturnsCreatedNotes(t *testing.T) {
	app, _ := newTestApp(&fakeStorage{})

	for _, title := range []string{"first", "second"} {
		req := multipartRequest(t, http.MethodPost, "/api/notes", map[string]string{
			"title":   title,
			"content": "body",
		}, nil, nil)
		res, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var notes []dto.NoteResponse
	require.NoError(t, json.Unmarshal(body, &notes))
	assert.Len(t, notes, 2)
}
