package wweb

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMedia_Bytes(t *testing.T) {
	m := NewMessageMedia("text/plain", base64.StdEncoding.EncodeToString([]byte("hello")), "a.txt", 5)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = NewMessageMedia("text/plain", "%%%", "", 0).Bytes()
	assert.Error(t, err)
}

func TestNewMessageMediaFromFilePath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Report.PDF")
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o600))

	m, err := NewMessageMediaFromFilePath(p)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", m.Mimetype)
	assert.Equal(t, "Report.PDF", m.Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")), m.Data)

	unknown := filepath.Join(dir, "blob.zzz")
	require.NoError(t, os.WriteFile(unknown, []byte{1}, 0o600))
	m, err = NewMessageMediaFromFilePath(unknown)
	require.NoError(t, err)
	assert.Empty(t, m.Mimetype)

	_, err = NewMessageMediaFromFilePath(filepath.Join(dir, "missing.png"))
	assert.Equal(t, ErrCodeMediaDownload, CodeOf(err))
}

func newMediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/img/cat.png", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "image/* video/* text/* audio/*", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		w.Header().Set("Content-Type", "audio/ogg")
		w.Header().Set("Content-Disposition", `attachment; filename="voice.ogg"`)
		_, _ = w.Write([]byte("ogg"))
	})
	mux.HandleFunc("/gone.png", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewMessageMediaFromURL_HTTP(t *testing.T) {
	ctx := context.Background()
	srv := newMediaServer(t)

	m, err := NewMessageMediaFromURL(ctx, srv.URL+"/img/cat.png", &MediaFromURLOptions{HTTPClient: srv.Client()})
	require.NoError(t, err)
	assert.Equal(t, "image/png", m.Mimetype)
	assert.Equal(t, "cat.png", m.Filename)
	assert.Equal(t, int64(len("png-bytes")), m.Filesize)
	raw, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(raw))

	named, err := NewMessageMediaFromURL(ctx, srv.URL+"/img/cat.png", &MediaFromURLOptions{HTTPClient: srv.Client(), Filename: "kitty.png"})
	require.NoError(t, err)
	assert.Equal(t, "kitty.png", named.Filename)
}

func TestNewMessageMediaFromURL_UnsafeMime(t *testing.T) {
	ctx := context.Background()
	srv := newMediaServer(t)

	_, err := NewMessageMediaFromURL(ctx, srv.URL+"/download", &MediaFromURLOptions{HTTPClient: srv.Client()})
	assert.Equal(t, ErrCodeValidationFailed, CodeOf(err))

	m, err := NewMessageMediaFromURL(ctx, srv.URL+"/download", &MediaFromURLOptions{
		HTTPClient: srv.Client(),
		UnsafeMime: true,
		Headers:    map[string]string{"X-Token": "secret"},
	})
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", m.Mimetype)
	assert.Equal(t, "voice.ogg", m.Filename)
}

func TestNewMessageMediaFromURL_HTTPError(t *testing.T) {
	srv := newMediaServer(t)
	_, err := NewMessageMediaFromURL(context.Background(), srv.URL+"/gone.png", &MediaFromURLOptions{HTTPClient: srv.Client()})
	assert.Equal(t, ErrCodeMediaDownload, CodeOf(err))
}

func TestNewMessageMediaFromURL_ThroughRuntime(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Handle(fnFetchMediaFromURL, func(args []json.RawMessage) (any, error) {
		var opts struct {
			Headers map[string]string `json:"headers"`
		}
		if err := json.Unmarshal(args[1], &opts); err != nil {
			return nil, err
		}
		return Raw{"data": "AAEC", "mime": "image/jpeg", "name": "", "size": opts.Headers["x-size"]}, nil
	})

	m, err := NewMessageMediaFromURL(ctx, "https://cdn.example/photos/beach.jpg", &MediaFromURLOptions{
		Client:  client,
		Headers: map[string]string{"x-size": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, &MessageMedia{Mimetype: "image/jpeg", Data: "AAEC", Filename: "beach.jpg", Filesize: 3}, m)

	fake.Respond(fnFetchMediaFromURL, nil)
	_, err = NewMessageMediaFromURL(ctx, "https://cdn.example/photos/beach.jpg", &MediaFromURLOptions{Client: client})
	assert.Equal(t, ErrCodeMediaDownload, CodeOf(err))
}

func TestClient_MediaFromURL(t *testing.T) {
	srv := newMediaServer(t)
	client, _ := newTestClient(t, WithHTTPClient(srv.Client()))

	m, err := client.MediaFromURL(context.Background(), srv.URL+"/img/cat.png", false)
	require.NoError(t, err)
	assert.Equal(t, "image/png", m.Mimetype)
}

func TestNewMessageMediaFromURL_RejectsUnsupportedURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "file scheme", url: "file:///etc/passwd.png"},
		{name: "ftp scheme", url: "ftp://files.example/cat.png"},
		{name: "no host", url: "https:///cat.png"},
		{name: "unparseable", url: "http://[::1/cat.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessageMediaFromURL(context.Background(), tt.url, nil)
			assert.Equal(t, ErrCodeValidationFailed, CodeOf(err))
		})
	}
}

func TestNewMessageMediaFromURL_SizeWithoutContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("abc"))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte("def"))
	}))
	defer srv.Close()

	m, err := NewMessageMediaFromURL(context.Background(), srv.URL+"/chunked.png", &MediaFromURLOptions{HTTPClient: srv.Client()})
	require.NoError(t, err)
	assert.Equal(t, int64(6), m.Filesize)
}

func TestNewMessageMediaFromURL_RejectsOversizedBodies(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		chunked bool
	}{
		{"declared length", "/big.png", false},
		{"chunked body", "/big.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := bytes.Repeat([]byte("x"), 5*1024*1024+1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				if tt.chunked {
					w.(http.Flusher).Flush()
				} else {
					w.Header().Set("Content-Length", strconv.Itoa(len(body)))
				}
				_, _ = w.Write(body)
			}))
			defer srv.Close()

			_, err := NewMessageMediaFromURL(context.Background(), srv.URL+tt.path, &MediaFromURLOptions{HTTPClient: srv.Client()})
			assert.Equal(t, ErrCodeMediaDownload, CodeOf(err))
		})
	}
}

func TestHTTPClientOr_DefaultHasTimeout(t *testing.T) {
	assert.NotZero(t, httpClientOr(nil).Timeout)
	custom := &http.Client{}
	assert.Same(t, custom, httpClientOr(custom))
}
