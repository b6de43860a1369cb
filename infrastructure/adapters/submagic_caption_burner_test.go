package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
)

func newCaptionBurner(url, key string) outbound.CaptionBurnerPort {
	logger := NewZerologWrapper()
	return NewSubmagicCaptionBurner(NewContentFetcher(&http.Client{}, logger), &config.SubmagicConfig{
		ApiUrl:         url,
		ApiKey:         key,
		TemplateName:   "Sara",
		PollInterval:   time.Millisecond,
		PollAttempts:   5,
		RequestTimeout: 5 * time.Second,
	}, logger)
}

func captionParams() outbound.CaptionParams {
	return outbound.CaptionParams{
		VideoURL: "https://cdn.example.com/raw.mp4",
		JobID:    "job-1",
	}
}

func TestAddCaptions_NoKeySkips(t *testing.T) {
	url, ok := newCaptionBurner("http://unused", "").AddCaptions(context.Background(), captionParams())
	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestAddCaptions_FullFlow(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects":
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			var body captionProjectRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Video job job-1", body.Title)
			assert.Equal(t, "en", body.Language)
			assert.Equal(t, "Sara", body.TemplateName)
			assert.Equal(t, "https://cdn.example.com/raw.mp4", body.VideoURL)
			fmt.Fprint(w, `{"id": "proj-1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects/proj-1/export":
			fmt.Fprint(w, `{"status": "exporting"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/projects/proj-1":
			if polls.Add(1) < 3 {
				fmt.Fprint(w, `{"id": "proj-1", "status": "processing"}`)
				return
			}
			fmt.Fprint(w, `{"id": "proj-1", "status": "completed", "downloadUrl": "https://cdn.example.com/captioned.mp4"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	var progress []float64
	params := captionParams()
	params.OnProgress = func(p float64) { progress = append(progress, p) }

	url, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), params)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/captioned.mp4", url)

	require.NotEmpty(t, progress)
	for _, p := range progress {
		assert.GreaterOrEqual(t, p, 0.75)
		assert.Less(t, p, 0.95)
	}
}

func TestAddCaptions_ProjectIDUnderAlternateField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects":
			fmt.Fprint(w, `{"projectId": "proj-alt"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects/proj-alt/export":
			fmt.Fprint(w, `{}`)
		default:
			fmt.Fprint(w, `{"status": "completed", "directUrl": "https://cdn.example.com/direct.mp4"}`)
		}
	}))
	defer server.Close()

	url, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), captionParams())
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/direct.mp4", url)
}

func TestAddCaptions_CreateFailureIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer server.Close()

	_, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), captionParams())
	assert.False(t, ok)
}

func TestAddCaptions_MissingProjectIDIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	_, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), captionParams())
	assert.False(t, ok)
}

func TestAddCaptions_ExportFailureIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/projects" {
			fmt.Fprint(w, `{"id": "proj-2"}`)
			return
		}
		http.Error(w, "export broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), captionParams())
	assert.False(t, ok)
}

func TestAddCaptions_FailedStatusIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects":
			fmt.Fprint(w, `{"id": "proj-3"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects/proj-3/export":
			fmt.Fprint(w, `{}`)
		default:
			fmt.Fprint(w, `{"status": "failed"}`)
		}
	}))
	defer server.Close()

	_, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), captionParams())
	assert.False(t, ok)
}

// A project endpoint that stops responding costs one bounded call per
// attempt; the whole poll still resolves to absent promptly.
func TestAddCaptions_StalledPollCallIsBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects":
			fmt.Fprint(w, `{"id": "proj-5"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects/proj-5/export":
			fmt.Fprint(w, `{}`)
		default:
			time.Sleep(2 * time.Second)
			fmt.Fprint(w, `{"id": "proj-5", "status": "processing"}`)
		}
	}))
	defer server.Close()

	logger := NewZerologWrapper()
	burner := NewSubmagicCaptionBurner(NewContentFetcher(&http.Client{}, logger), &config.SubmagicConfig{
		ApiUrl:         server.URL,
		ApiKey:         "test-key",
		TemplateName:   "Sara",
		PollInterval:   time.Millisecond,
		PollAttempts:   2,
		RequestTimeout: 50 * time.Millisecond,
	}, logger)

	start := time.Now()
	_, ok := burner.AddCaptions(context.Background(), captionParams())
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Less(t, elapsed, time.Second)
}

// Poll errors are swallowed per attempt; exhaustion resolves to absent, not
// an error.
func TestAddCaptions_PollExhaustionIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects":
			fmt.Fprint(w, `{"id": "proj-4"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/projects/proj-4/export":
			fmt.Fprint(w, `{}`)
		default:
			http.Error(w, "flaky", http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	_, ok := newCaptionBurner(server.URL, "test-key").AddCaptions(context.Background(), captionParams())
	assert.False(t, ok)
}
