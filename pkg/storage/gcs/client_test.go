package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		return token, time.Now().Add(time.Hour), nil
	}}
}

func TestUploadObjectSuccess(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "u17-photos",
		tokenSource:   staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodPost {
				t.Fatalf("expected POST, got %s", req.Method)
			}
			if req.Header.Get("Authorization") != "Bearer token" {
				t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
			}
			if req.Header.Get("Content-Type") != "image/jpeg" {
				t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
			}
			if !strings.Contains(req.URL.RawQuery, "uploadType=media") {
				t.Fatalf("expected media upload, got %s", req.URL.RawQuery)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"name":"missions/abc/receipt.jpg"}`)),
				Header:     http.Header{},
			}
		})},
	}

	url, err := client.UploadObject(context.Background(), "", "missions/abc/receipt.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	want := "https://storage.googleapis.com/u17-photos/missions/abc/receipt.jpg"
	if url != want {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestUploadObjectFailure(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "u17-photos",
		tokenSource:   staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusForbidden,
				Body:       io.NopCloser(strings.NewReader(`{"error":"denied"}`)),
				Header:     http.Header{},
			}
		})},
	}

	if _, err := client.UploadObject(context.Background(), "", "x.jpg", "image/jpeg", strings.NewReader("x")); err == nil {
		t.Fatal("expected upload failure")
	}
}

func TestUploadObjectValidation(t *testing.T) {
	t.Parallel()

	client := &Client{tokenSource: staticTokenSource("token"), httpClient: &http.Client{}}
	if _, err := client.UploadObject(context.Background(), "", "obj", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error without bucket")
	}

	client.defaultBucket = "bucket"
	if _, err := client.UploadObject(context.Background(), "", "   ", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error without object name")
	}
}

func TestDeleteObjectTreatsNotFoundAsSuccess(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "u17-photos",
		tokenSource:   staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodDelete {
				t.Fatalf("expected DELETE, got %s", req.Method)
			}
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("")),
				Header:     http.Header{},
			}
		})},
	}

	if err := client.DeleteObject(context.Background(), "", "missions/abc/item.jpg"); err != nil {
		t.Fatalf("DeleteObject not found should succeed: %v", err)
	}
}

func TestPublicURLEscapesSegments(t *testing.T) {
	t.Parallel()

	got := PublicURL("u17-photos", "missions/flood relief/photo 1.jpg")
	want := "https://storage.googleapis.com/u17-photos/missions/flood%20relief/photo%201.jpg"
	if got != want {
		t.Fatalf("unexpected url %s", got)
	}
}
