package adapters

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yt-blog-web/internal/config"
)

type fakeObjectWriter struct {
	gotURI         string
	gotContentType string
	gotBytes       []byte
	err            error
}

func (w *fakeObjectWriter) Write(_ context.Context, uri string, r io.Reader, contentType string) error {
	w.gotURI = uri
	w.gotContentType = contentType
	w.gotBytes, _ = io.ReadAll(r)
	return w.err
}

func testStoreConfig() *config.Config {
	return &config.Config{GCSBucket: "blog-images"}
}

func TestUpload(t *testing.T) {
	writer := &fakeObjectWriter{}
	store := NewGCSImageStore(writer, testStoreConfig(), http.DefaultClient)
	data := bytes.Repeat([]byte("x"), 2048)

	url, err := store.Upload(context.Background(), "u1", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(writer.gotURI, "gs://blog-images/users/u1/") || !strings.HasSuffix(writer.gotURI, ".png") {
		t.Errorf("gcs uri = %q", writer.gotURI)
	}
	if writer.gotContentType != "image/png" {
		t.Errorf("content type = %q", writer.gotContentType)
	}
	if len(writer.gotBytes) != len(data) {
		t.Errorf("written bytes = %d, want %d", len(writer.gotBytes), len(data))
	}
	if !strings.HasPrefix(url, "https://storage.googleapis.com/blog-images/users/u1/") {
		t.Errorf("public url = %q", url)
	}
}

func TestUploadRejectsTinyBuffer(t *testing.T) {
	writer := &fakeObjectWriter{}
	store := NewGCSImageStore(writer, testStoreConfig(), http.DefaultClient)

	if _, err := store.Upload(context.Background(), "u1", []byte("tiny")); err == nil {
		t.Fatal("expected error for undersized buffer")
	}
	if writer.gotURI != "" {
		t.Error("writer must not be called for undersized buffer")
	}
}

func TestUploadPropagatesWriterError(t *testing.T) {
	writer := &fakeObjectWriter{err: errors.New("bucket unavailable")}
	store := NewGCSImageStore(writer, testStoreConfig(), http.DefaultClient)

	if _, err := store.Upload(context.Background(), "u1", bytes.Repeat([]byte("x"), 2048)); err == nil {
		t.Fatal("expected error when writer fails")
	}
}

func TestVerify(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewGCSImageStore(&fakeObjectWriter{}, testStoreConfig(), &http.Client{Timeout: 5 * time.Second})
	if err := store.Verify(context.Background(), srv.URL+"/img.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodHead {
		t.Errorf("method = %q, want HEAD", gotMethod)
	}
}

func TestVerifyRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewGCSImageStore(&fakeObjectWriter{}, testStoreConfig(), &http.Client{Timeout: 5 * time.Second})
	if err := store.Verify(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
