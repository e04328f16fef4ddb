package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

func testImage(t *testing.T, encode func(io.Writer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, nil) }

func imageResponse(img []byte, mime string) string {
	return `{"candidates":[{"content":{"parts":[` +
		`{"text":"here you go"},` +
		`{"inlineData":{"mimeType":"` + mime + `","data":"` + base64.StdEncoding.EncodeToString(img) + `"}}` +
		`]}}]}`
}

type recorder struct {
	calls atomic.Int32

	mu       sync.Mutex
	requests []generateContentRequest
	raw      []string
}

func (r *recorder) record(raw string, req generateContentRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = append(r.raw, raw)
	r.requests = append(r.requests, req)
}

func (r *recorder) request(i int) (generateContentRequest, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[i], r.raw[i]
}

func newTestClient(t *testing.T, rec *recorder, handler func(n int) (int, string)) (*client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(rec.calls.Add(1))
		if r.Header.Get("x-goog-api-key") != "key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		body, _ := io.ReadAll(r.Body)
		var req generateContentRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		rec.record(string(body), req)

		status, resp := handler(n)
		w.WriteHeader(status)
		io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	var sleeps []time.Duration
	policy := DefaultRetryPolicy()
	policy.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	c, err := NewClient("key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetryPolicy(policy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, &sleeps
}

func TestGenerateTextToImage(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec, func(int) (int, string) {
		return http.StatusOK, imageResponse(testImage(t, encodeJPEG), "image/jpeg")
	})

	img, err := c.Generate(context.Background(), domain.GenerationRequest{
		Mode:        domain.ModeTextToImage,
		Prompt:      "a red cube",
		AspectRatio: "1:1",
		Quality:     domain.QualityLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := rec.calls.Load(); n != 1 {
		t.Errorf("expected 1 call, got %d", n)
	}
	if _, err := png.Decode(bytes.NewReader(img)); err != nil {
		t.Errorf("expected png output: %v", err)
	}

	req, _ := rec.request(0)
	if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text != "a red cube" {
		t.Errorf("expected a single text part, got %+v", req.Contents)
	}
	cfg := req.GenerationConfig.ImageConfig
	if cfg.NumberOfImages != 1 || cfg.AspectRatio != "1:1" || cfg.ImageSize != "1K" {
		t.Errorf("unexpected image config %+v", cfg)
	}
	if len(req.Tools) != 0 {
		t.Errorf("expected no tools, got %+v", req.Tools)
	}
}

func TestGenerateImageEditRequestShape(t *testing.T) {
	rec := &recorder{}
	photo := testImage(t, png.Encode)
	c, _ := newTestClient(t, rec, func(int) (int, string) {
		return http.StatusOK, imageResponse(photo, "image/png")
	})

	_, err := c.Generate(context.Background(), domain.GenerationRequest{
		Mode:        domain.ModeImageToImage,
		Prompt:      "add a hat",
		References:  [][]byte{photo},
		AspectRatio: "4:5",
		Quality:     domain.QualityHigh,
		Search:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, raw := rec.request(0)
	parts := req.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.MimeType != "image/png" {
		t.Fatalf("expected image part first, got %+v", parts)
	}
	if !strings.Contains(parts[1].Text, "Make a precise edit: add a hat.") || !strings.Contains(parts[1].Text, "ONE single cohesive picture") {
		t.Errorf("unexpected edit instruction %q", parts[1].Text)
	}
	if !strings.Contains(raw, `"tools":[{"google_search":{}}]`) {
		t.Errorf("expected search tool in %s", raw)
	}
	if req.GenerationConfig.ImageConfig.ImageSize != "4K" {
		t.Errorf("expected 4K image size")
	}
}

func TestGenerateMultiImageRequestShape(t *testing.T) {
	rec := &recorder{}
	photo := testImage(t, png.Encode)
	c, _ := newTestClient(t, rec, func(int) (int, string) {
		return http.StatusOK, imageResponse(photo, "image/png")
	})

	_, err := c.Generate(context.Background(), domain.GenerationRequest{
		Mode:       domain.ModeMultiImage,
		Prompt:     "blend them",
		References: [][]byte{photo, testImage(t, encodeJPEG)},
		Quality:    domain.QualityMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, _ := rec.request(0)
	parts := req.Contents[0].Parts
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].Text != "I'm giving you 2 reference images. blend them" {
		t.Errorf("unexpected text part %q", parts[0].Text)
	}
	if parts[1].InlineData.MimeType != "image/png" || parts[2].InlineData.MimeType != "image/jpeg" {
		t.Errorf("unexpected mime types %s, %s", parts[1].InlineData.MimeType, parts[2].InlineData.MimeType)
	}
}

func TestGenerateExhaustsRetriesOnEmptyResponses(t *testing.T) {
	rec := &recorder{}
	c, sleeps := newTestClient(t, rec, func(int) (int, string) {
		return http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"I cannot draw that"}]}}]}`
	})

	img, err := c.Generate(context.Background(), domain.GenerationRequest{Mode: domain.ModeTextToImage, Prompt: "x", Quality: domain.QualityLow})
	if !errors.Is(err, domain.ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
	if img != nil {
		t.Errorf("expected no image")
	}
	if n := rec.calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
	if len(*sleeps) != 2 || (*sleeps)[0] != 2*time.Second || (*sleeps)[1] != 4*time.Second {
		t.Errorf("expected linear backoff of 2s and 4s, got %v", *sleeps)
	}
}

func TestGenerateRetriesAfterServerError(t *testing.T) {
	rec := &recorder{}
	photo := testImage(t, png.Encode)
	c, _ := newTestClient(t, rec, func(n int) (int, string) {
		if n == 1 {
			return http.StatusInternalServerError, `{"error":{"code":500,"message":"Internal error encountered."}}`
		}
		return http.StatusOK, imageResponse(photo, "image/png")
	})

	img, err := c.Generate(context.Background(), domain.GenerationRequest{Mode: domain.ModeTextToImage, Prompt: "x", Quality: domain.QualityLow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(img, photo) {
		t.Errorf("expected png to pass through unchanged")
	}
	if n := rec.calls.Load(); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestEnhance(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"rewrites", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  \"A glowing red cube at dusk.\"\n"}]}}]}`, "A glowing red cube at dusk."},
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`, "a red cube"},
		{"empty answer", http.StatusOK, `{"candidates":[]}`, "a red cube"},
		{"garbage", http.StatusOK, `not json`, "a red cube"},
	}

	for _, test := range tests {
		rec := &recorder{}
		c, _ := newTestClient(t, rec, func(int) (int, string) { return test.status, test.body })

		if got := c.Enhance(context.Background(), "a red cube"); got != test.expected {
			t.Errorf("%s: expected %q, got %q", test.name, test.expected, got)
		}
		if n := rec.calls.Load(); n != 1 {
			t.Errorf("%s: expected a single call, got %d", test.name, n)
		}
		req, _ := rec.request(0)
		if text := req.Contents[0].Parts[0].Text; !strings.HasSuffix(text, "Original: a red cube") {
			t.Errorf("%s: unexpected enhance request %q", test.name, text)
		}
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("expected error for empty key")
	}
}
