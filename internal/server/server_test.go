package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

type fakeRunner struct {
	processed  []string
	processErr error
	discover   pipeline.DiscoverOptions
	newGames   []*game.Game
	archived   []*game.Game
}

func (f *fakeRunner) ProcessArchived(ctx context.Context, key string) ([]string, error) {
	f.processed = append(f.processed, key)
	if f.processErr != nil {
		return nil, f.processErr
	}
	return []string{"processed " + key}, nil
}

func (f *fakeRunner) Discover(ctx context.Context, opts pipeline.DiscoverOptions) (*pipeline.DiscoverResult, error) {
	f.discover = opts
	return &pipeline.DiscoverResult{StartDay: 10, Year: 2031, DaysConsidered: 3, NewGames: f.newGames, Stopped: "reached day 1"}, nil
}

func (f *fakeRunner) ArchiveGames(ctx context.Context, games []*game.Game) ([]pipeline.ArchiveResult, error) {
	f.archived = append(f.archived, games...)
	results := make([]pipeline.ArchiveResult, len(games))
	for i, g := range games {
		results[i] = pipeline.ArchiveResult{Game: g, BoxScoreStored: true, ReplayStored: true}
	}
	return results, nil
}

func newTestServer(t *testing.T, runner Runner) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(runner, 1<<16)))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestAnalyze(t *testing.T) {
	html, err := os.ReadFile("testdata/nohitter.html")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsgs   []string
	}{
		{
			name:       "no-hitter",
			body:       string(html),
			wantStatus: http.StatusOK,
			wantMsgs:   []string{"TeamX: P. Ace threw a no-hitter against the TeamY!"},
		},
		{
			name:       "not a box score",
			body:       "<html><body><p>maintenance</p></body></html>",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "too large",
			body:       strings.Repeat("x", 1<<16+100),
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/analyze", "text/html", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got AnalyzeResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Messages, tt.wantMsgs) {
				t.Errorf("messages = %q, want %q", got.Messages, tt.wantMsgs)
			}
		})
	}
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/analyze")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestProcessArchived(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{name: "missing", err: fmt.Errorf("loading: %w", archive.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "failure", err: errors.New("chat down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{processErr: tt.err}
			srv := newTestServer(t, runner)

			resp, err := http.Post(srv.URL+"/boxscores/9001/process", "", nil)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !reflect.DeepEqual(runner.processed, []string{"9001"}) {
				t.Errorf("processed = %v, want [9001]", runner.processed)
			}
		})
	}
}

func TestProcessArchived_NoRunner(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/boxscores/9001/process", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestDiscover(t *testing.T) {
	newGames := []*game.Game{game.New("500", 2031, 5, "1", "2", 3, 4)}

	tests := []struct {
		name         string
		body         string
		wantOpts     pipeline.DiscoverOptions
		wantArchived int
		wantStatus   int
	}{
		{
			name:       "empty body",
			wantStatus: http.StatusOK,
		},
		{
			name:         "archive new games",
			body:         `{"day": 10, "keep_going": true, "archive": true}`,
			wantOpts:     pipeline.DiscoverOptions{Day: 10, KeepGoing: true},
			wantArchived: 1,
			wantStatus:   http.StatusOK,
		},
		{
			name:       "dry run never archives",
			body:       `{"dry_run": true, "archive": true}`,
			wantOpts:   pipeline.DiscoverOptions{DryRun: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown field",
			body:       `{"days": 3}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{newGames: newGames}
			srv := newTestServer(t, runner)

			resp, err := http.Post(srv.URL+"/discover", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if runner.discover != tt.wantOpts {
				t.Errorf("options = %+v, want %+v", runner.discover, tt.wantOpts)
			}
			if len(runner.archived) != tt.wantArchived {
				t.Errorf("archived %d games, want %d", len(runner.archived), tt.wantArchived)
			}

			var got map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got["year"] != float64(2031) {
				t.Errorf("year = %v, want 2031", got["year"])
			}
		})
	}
}
