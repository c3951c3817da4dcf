package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/luacheia/storefront/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrRequestFailed   = errors.New("storefront api request failed")
	ErrResponseInvalid = errors.New("storefront api response invalid")
)

const (
	defaultTimeout   = 10 * time.Second
	requestIDHeader  = "X-Request-Id"
	contentTypeJSON  = "application/json"
	acceptHeaderJSON = "application/json"
)

// Options 客户端构建参数
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client 远端商城 API 客户端。所有调用单次尝试、固定超时，
// 失败由调用方记录并向用户提示，不做自动重试
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New 创建 API 客户端
func New(options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/") + "/"
	return &Client{
		baseURL:   base,
		userAgent: strings.TrimSpace(options.UserAgent),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FormFile 多部分表单中的文件字段
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// GetJSON 发起 GET 请求并解析 JSON 响应
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// Delete 发起 DELETE 请求
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// PostJSON 发起 JSON POST 请求
func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}
	return c.do(ctx, http.MethodPost, path, contentTypeJSON, bytes.NewReader(body), out)
}

// PatchJSON 发起 JSON PATCH 请求
func (c *Client) PatchJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}
	return c.do(ctx, http.MethodPatch, path, contentTypeJSON, bytes.NewReader(body), out)
}

// PostForm 发起 multipart 表单 POST 请求
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, out interface{}) error {
	body, contentType, err := encodeMultipart(fields, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, contentType, body, out)
}

// PatchForm 发起 multipart 表单 PATCH 请求，file 可为 nil
func (c *Client) PatchForm(ctx context.Context, path string, fields map[string]string, file *FormFile, out interface{}) error {
	body, contentType, err := encodeMultipart(fields, file)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, contentType, body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", acceptHeaderJSON)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warnw("api_request_failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return fmt.Errorf("%w: %s %s", ErrRequestFailed, method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractAPIMessage(respBody)
		logger.Warnw("api_response_error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", message,
		)
		if message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrResponseInvalid, resp.StatusCode, message)
		}
		return fmt.Errorf("%w: status %d", ErrResponseInvalid, resp.StatusCode)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return nil
}

func encodeMultipart(fields map[string]string, file *FormFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("%w: encode form field %s failed", ErrRequestFailed, key)
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
		if file.ContentType != "" {
			header.Set("Content-Type", file.ContentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("%w: encode form file failed", ErrRequestFailed)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("%w: write form file failed", ErrRequestFailed)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: close form failed", ErrRequestFailed)
	}
	return &buf, writer.FormDataContentType(), nil
}

// extractAPIMessage 从错误响应中提取提示文案（detail 或 error 字段）
func extractAPIMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if value, ok := parsed[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
