package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nodepilot/internal/schema"
)

// GeneratePath 生成接口路径
const GeneratePath = "/workflows/generate"

const maxErrorBody = 4 << 10

// ErrFailed 生成服务调用失败
var ErrFailed = errors.New("generator failed")

// StatusError 生成服务返回非 2xx 状态
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generator returned status %d", e.Status)
	}
	return fmt.Sprintf("generator returned status %d: %s", e.Status, e.Body)
}

// Unwrap 使 errors.Is(err, ErrFailed) 成立
func (e *StatusError) Unwrap() error { return ErrFailed }

// Archive 生成结果，调用方负责关闭 Body
type Archive struct {
	FileName      string
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// Client 生成服务客户端，提交编译后的 Schema 并取回压缩包
type Client struct {
	baseURL string
	http    *http.Client
}

// New 创建客户端，timeout 为 0 表示不限时
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Generate 提交项目 schema，返回压缩包流
func (c *Client) Generate(ctx context.Context, ps schema.ProjectSchema) (*Archive, error) {
	body, err := json.Marshal(ps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/zip, application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/zip"
	}
	return &Archive{
		FileName:      ArchiveName(ps.Name),
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

// ArchiveName 压缩包文件名 <project>.zip
func ArchiveName(projectName string) string {
	name := strings.TrimSpace(projectName)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "project"
	}
	return name + ".zip"
}
