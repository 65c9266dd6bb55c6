package wweb

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"whatsweb/internal/constants"
	apperrors "whatsweb/internal/errors"
)

// MessageMedia is an attachment carried as base64 data.
type MessageMedia struct {
	Mimetype string `json:"mimetype"`
	Data     string `json:"data"`
	Filename string `json:"filename,omitempty"`
	Filesize int64  `json:"filesize,omitempty"`
}

// NewMessageMedia wraps already encoded data.
func NewMessageMedia(mimetype, data, filename string, filesize int64) *MessageMedia {
	return &MessageMedia{Mimetype: mimetype, Data: data, Filename: filename, Filesize: filesize}
}

// Bytes decodes the base64 payload.
func (m *MessageMedia) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(m.Data)
}

// NewMessageMediaFromFilePath reads a local file. The MIME type is inferred
// from the extension and is empty when unknown.
func NewMessageMediaFromFilePath(filePath string) (*MessageMedia, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, apperrors.NewMediaError("read_file", constants.MimeTypeFromPath(filePath), err).
			WithContext("path", filePath)
	}
	return &MessageMedia{
		Mimetype: constants.MimeTypeFromPath(filePath),
		Data:     base64.StdEncoding.EncodeToString(data),
		Filename: filepath.Base(filePath),
	}, nil
}

// MediaFromURLOptions tunes NewMessageMediaFromURL.
type MediaFromURLOptions struct {
	// UnsafeMime allows downloads whose URL carries no known extension; the
	// response Content-Type is used instead.
	UnsafeMime bool
	Filename   string
	// Client fetches through the browser runtime instead of over HTTP.
	Client     *Client
	HTTPClient *http.Client
	Headers    map[string]string
}

type fetchedMedia struct {
	Data string `json:"data"`
	Mime string `json:"mime"`
	Name string `json:"name"`
	// Size is a number or a numeric string depending on the source.
	Size any `json:"size"`
}

// NewMessageMediaFromURL downloads rawURL. opts may be nil.
func NewMessageMediaFromURL(ctx context.Context, rawURL string, opts *MediaFromURLOptions) (*MessageMedia, error) {
	if opts == nil {
		opts = &MediaFromURLOptions{}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, apperrors.NewValidationError("url", rawURL, "invalid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, apperrors.NewValidationError("url", rawURL, "unsupported URL scheme: "+parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, apperrors.NewValidationError("url", rawURL, "URL has no host")
	}

	mimetype := constants.MimeTypeFromPath(parsed.Path)
	if mimetype == "" && !opts.UnsafeMime {
		return nil, apperrors.NewValidationError("url", rawURL,
			"unable to determine MIME type using URL; set UnsafeMime to download it anyway")
	}

	headers := map[string]string{"accept": constants.MediaAcceptHeader}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	var res *fetchedMedia
	if opts.Client != nil {
		res = &fetchedMedia{}
		found, err := opts.Client.callInto(ctx, res, fnFetchMediaFromURL, rawURL, map[string]any{"headers": headers})
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, apperrors.NewMediaError("download", mimetype, fmt.Errorf("no data returned for %s", parsed.Host))
		}
	} else {
		res, err = fetchOverHTTP(ctx, httpClientOr(opts.HTTPClient), rawURL, headers, mimetype)
		if err != nil {
			return nil, err
		}
	}

	filename := opts.Filename
	if filename == "" {
		filename = res.Name
	}
	if filename == "" {
		filename = path.Base(parsed.Path)
		if filename == "/" || filename == "." {
			filename = ""
		}
	}
	if filename == "" {
		filename = "file"
	}
	if mimetype == "" {
		mimetype = res.Mime
	}
	size, _ := strconv.ParseInt(Raw{"size": res.Size}.Text("size"), 10, 64)

	return &MessageMedia{Mimetype: mimetype, Data: res.Data, Filename: filename, Filesize: size}, nil
}

func httpClientOr(hc *http.Client) *http.Client {
	if hc != nil {
		return hc
	}
	return defaultMediaHTTPClient
}

var defaultMediaHTTPClient = &http.Client{Timeout: constants.DefaultMediaDownloadTimeoutSec * time.Second}

// fetchOverHTTP downloads rawURL, capped by the size limit of mimetype or,
// when that is unknown, of the response Content-Type.
func fetchOverHTTP(ctx context.Context, hc *http.Client, rawURL string, headers map[string]string, mimetype string) (*fetchedMedia, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewMediaError("download", "", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, apperrors.NewMediaError("download", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apperrors.NewMediaError("download", "", fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithContext("status_code", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = contentType
	}
	limit := constants.MaxDownloadBytes(mimetype)
	if resp.ContentLength > limit {
		return nil, tooLarge(mimetype, limit)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, apperrors.NewMediaError("download", mimetype, err)
	}
	if int64(len(body)) > limit {
		return nil, tooLarge(mimetype, limit)
	}

	size := int64(len(body))
	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && n >= 0 {
		size = n
	}

	return &fetchedMedia{
		Data: base64.StdEncoding.EncodeToString(body),
		Mime: contentType,
		Name: dispositionFilename(resp.Header.Get("Content-Disposition")),
		Size: strconv.FormatInt(size, 10),
	}, nil
}

func tooLarge(mimetype string, limit int64) error {
	return apperrors.NewMediaError("download", mimetype, fmt.Errorf("media exceeds %d bytes", limit)).
		WithContext("limit_bytes", limit)
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// MediaFromURL downloads rawURL over the client's HTTP client. Use
// NewMessageMediaFromURL with the Client option to fetch through the
// browser session instead.
func (c *Client) MediaFromURL(ctx context.Context, rawURL string, unsafeMime bool) (*MessageMedia, error) {
	return NewMessageMediaFromURL(ctx, rawURL, &MediaFromURLOptions{
		UnsafeMime: unsafeMime,
		HTTPClient: c.httpClient,
	})
}
