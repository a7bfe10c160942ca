package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"stickynotes-be/internal/pkg/logger"
)

const (
	defaultUploadURL  = "https://api.vercel.com/v2/blob/upload"
	defaultDeleteBase = "https://api.vercel.com/v2/blob"
)

// ErrMissingToken means the client was constructed without a read-write
// token. No network call is ever attempted in that state.
var ErrMissingToken = errors.New("blob: BLOB_READ_WRITE_TOKEN is not set")

// ErrUpload wraps any remote upload failure: non-2xx status or a response
// body without a usable URL.
var ErrUpload = errors.New("blob: upload failed")

// File is a single attachment to upload: the client-supplied filename plus
// its raw content.
type File struct {
	Name    string
	Content []byte
}

// Storage moves binary attachments to and from the external blob store.
type Storage interface {
	Upload(ctx context.Context, files []File) ([]string, error)
	Delete(ctx context.Context, urls []string)
}

type Client struct {
	Token      string
	UploadURL  string
	DeleteBase string

	httpClient *http.Client
	log        logger.ILogger
}

func NewClient(token string, log logger.ILogger) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	// No timeout on purpose: outbound storage calls block the request for
	// as long as the provider takes.
	return &Client{
		Token:      token,
		UploadURL:  defaultUploadURL,
		DeleteBase: defaultDeleteBase,
		httpClient: &http.Client{},
		log:        log,
	}, nil
}

type uploadResponse struct {
	Url         string `json:"url"`
	DownloadUrl string `json:"downloadUrl"`
}

// Upload pushes files one by one and returns their public URLs in input
// order. The first failure aborts the whole batch; already-uploaded blobs
// are not rolled back.
func (c *Client) Upload(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := c.uploadOne(ctx, f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (c *Client) uploadOne(ctx context.Context, f File) (string, error) {
	// Timestamped key so identically named files do not collide.
	key := fmt.Sprintf("notes/%d_%s", time.Now().UnixMilli(), f.Name)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", key)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if res.StatusCode >= 300 {
		c.log.Error("blob", "upload rejected by storage provider", map[string]interface{}{
			"status": res.StatusCode,
			"key":    key,
			"body":   string(resBody),
		})
		return "", fmt.Errorf("%w: status %d", ErrUpload, res.StatusCode)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	url := parsed.Url
	if url == "" {
		url = parsed.DownloadUrl
	}
	if url == "" {
		return "", fmt.Errorf("%w: response contained no url", ErrUpload)
	}
	return url, nil
}

// Delete removes blobs by URL, best effort. Each URL's trailing path
// segment is the blob id. Failures are logged and skipped; callers must
// not assume every blob was removed.
func (c *Client) Delete(ctx context.Context, urls []string) {
	for _, url := range urls {
		blobId := trailingSegment(url)

		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.DeleteBase+"/"+blobId, nil)
		if err != nil {
			c.log.Warn("blob", "delete request build failed", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			continue
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)

		res, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn("blob", "delete failed", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			continue
		}
		resBody, _ := io.ReadAll(res.Body)
		res.Body.Close()

		if res.StatusCode >= 300 {
			c.log.Warn("blob", "delete rejected by storage provider", map[string]interface{}{
				"url":    url,
				"status": res.StatusCode,
				"body":   string(resBody),
			})
		}
	}
}

func trailingSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
