package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// UploadResult POST /files/upload/audio 的响应
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// UploadAudio 以 multipart 字段 file 上传音频，返回的相对地址补全为后端绝对地址
func (c *Client) UploadAudio(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	const path = "/files/upload/audio"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var res UploadResult
	if err := c.send(ctx, req, path, &res, true); err != nil {
		return nil, err
	}
	res.URL = c.Absolute(res.URL)
	return &res, nil
}

// Absolute /api/files/audio/x.mp3 -> http://host:8080/api/files/audio/x.mp3
func (c *Client) Absolute(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return c.Origin() + u
}
