package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/chatwrapped/internal/analytics"
	"github.com/janekbaraniewski/chatwrapped/internal/appupdate"
	"github.com/janekbaraniewski/chatwrapped/internal/client"
	"github.com/janekbaraniewski/chatwrapped/internal/core"
	"github.com/janekbaraniewski/chatwrapped/internal/tui"
	"github.com/janekbaraniewski/chatwrapped/internal/upload"
)

const envelope = `{"success": true, "data": {
	"total_messages": 120, "total_users": 3,
	"messages_per_user": {"Carol": 70, "Alice": 50},
	"media_stats": {"Alice": 4},
	"mentions": {"mentions_received": {}, "mentions_given": {"Carol": 2}},
	"social_media_links": {"Carol": {"instagram": 3, "tiktok": 1}}
}}`

func fakeService(t *testing.T, healthStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(client.HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(healthStatus)
	})
	mux.HandleFunc(client.UploadPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(envelope))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func chatExport(t *testing.T) core.Transcript {
	t.Helper()
	path := filepath.Join(t.TempDir(), "WhatsApp Chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("1/1/24, 10:00 - Alice: hi\n"), 0o644))
	tr, err := core.OpenTranscript(path)
	require.NoError(t, err)
	return tr
}

func testController(baseURL string) *upload.Controller {
	c := client.New(client.Options{BaseURL: baseURL, ProbeTimeout: time.Second, Logger: zerolog.Nop()})
	return upload.NewController(c, zerolog.Nop())
}

func TestRunAnalyzePrintsAllViews(t *testing.T) {
	srv := fakeService(t, http.StatusOK)
	var out, errOut bytes.Buffer

	err := runAnalyze(context.Background(), testController(srv.URL), chatExport(t), analytics.Selections, &out, &errOut)
	require.NoError(t, err)

	text := out.String()
	for _, want := range []string{
		"Total Messages", "120",
		"Messages Per User", "1. Carol  70 messages", "2. Alice  50 messages",
		"Media Messages Per User", "1. Alice  4 media",
		"Mentions Received", analytics.EmptyMentions,
		"Social Media Links Shared", "instagram",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "Most Active Mention Makers", "given ranking is hidden without received mentions")
	assert.Less(t, strings.Index(text, "Carol  70"), strings.Index(text, "Alice  50"))
	assert.Less(t, strings.Index(text, "instagram"), strings.Index(text, "tiktok"))
	assert.Contains(t, errOut.String(), "Processing WhatsApp Chat.txt")
}

func TestRunAnalyzeSingleView(t *testing.T) {
	srv := fakeService(t, http.StatusOK)
	views, err := parseViews("links")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runAnalyze(context.Background(), testController(srv.URL), chatExport(t), views, &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "Social Media Links Shared")
	assert.NotContains(t, out.String(), "Messages Per User")
}

func TestRunAnalyzeProbeFailure(t *testing.T) {
	srv := fakeService(t, http.StatusBadGateway)
	var out, errOut bytes.Buffer

	err := runAnalyze(context.Background(), testController(srv.URL), chatExport(t), analytics.Selections, &out, &errOut)
	require.ErrorIs(t, err, errUploadFailed)
	assert.Contains(t, errOut.String(), "Backend unreachable at "+srv.URL)
	assert.Empty(t, out.String())
}

func TestParseViews(t *testing.T) {
	all, err := parseViews("ALL")
	require.NoError(t, err)
	assert.Equal(t, analytics.Selections, all)

	one, err := parseViews("mentions")
	require.NoError(t, err)
	assert.Equal(t, []analytics.Selection{analytics.SelectMentions}, one)

	_, err = parseViews("charts")
	assert.Error(t, err)
}

func TestAnalyzeCommandRejectsNonText(t *testing.T) {
	img := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(img, []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), 0o644))

	root := newRootCommand()
	root.SetArgs([]string{"analyze", img, "--config", filepath.Join(t.TempDir(), "none.json")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	assert.ErrorIs(t, err, core.ErrNotPlainText)
}

func TestAnalyzeCommandEndToEnd(t *testing.T) {
	srv := fakeService(t, http.StatusOK)
	tr := chatExport(t)

	var out bytes.Buffer
	root := newRootCommand()
	root.SetArgs([]string{"analyze", tr.Path, "--view", "messages", "--api-url", srv.URL, "--config", filepath.Join(t.TempDir(), "none.json")})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Messages Per User")
	assert.NotContains(t, out.String(), "Media Messages Per User")
}

func TestRunStartupUpdateCheckSendsMessageOnUpdate(t *testing.T) {
	var got *tui.AppUpdateMsg
	runStartupUpdateCheck(
		context.Background(),
		" v1.2.0 ",
		1200*time.Millisecond,
		zerolog.Nop(),
		func(_ context.Context, opts appupdate.CheckOptions) (appupdate.Result, error) {
			assert.Equal(t, "v1.2.0", opts.CurrentVersion)
			assert.Equal(t, 1200*time.Millisecond, opts.Timeout)
			return appupdate.Result{
				UpdateAvailable: true,
				CurrentVersion:  "v1.2.0",
				LatestVersion:   "v1.3.0",
				UpgradeHint:     "brew upgrade chatwrapped",
			}, nil
		},
		func(msg tui.AppUpdateMsg) { got = &msg },
	)

	require.NotNil(t, got)
	assert.Equal(t, "v1.3.0", got.LatestVersion)
	assert.Equal(t, "brew upgrade chatwrapped", got.UpgradeHint)
}

func TestRunStartupUpdateCheckQuietOnErrorOrNoUpdate(t *testing.T) {
	sent := false
	send := func(tui.AppUpdateMsg) { sent = true }

	runStartupUpdateCheck(context.Background(), "v1.2.0", time.Second, zerolog.Nop(),
		func(context.Context, appupdate.CheckOptions) (appupdate.Result, error) {
			return appupdate.Result{}, errors.New("rate limited")
		}, send)
	runStartupUpdateCheck(context.Background(), "v1.2.0", time.Second, zerolog.Nop(),
		func(context.Context, appupdate.CheckOptions) (appupdate.Result, error) {
			return appupdate.Result{CurrentVersion: "v1.2.0"}, nil
		}, send)

	assert.False(t, sent)
}

func TestPrintUpdateStatus(t *testing.T) {
	tests := []struct {
		name   string
		result appupdate.Result
		want   string
	}{
		{name: "dev build", result: appupdate.Result{}, want: "Development build"},
		{name: "up to date", result: appupdate.Result{CurrentVersion: "v1.2.0"}, want: "Up to date (v1.2.0)"},
		{
			name:   "update",
			result: appupdate.Result{UpdateAvailable: true, CurrentVersion: "v1.2.0", LatestVersion: "v1.3.0", UpgradeHint: "brew upgrade chatwrapped"},
			want:   "Update available: v1.2.0 → v1.3.0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)
			err := printUpdateStatus(context.Background(), cmd, func(context.Context, appupdate.CheckOptions) (appupdate.Result, error) {
				return tt.result, nil
			})
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestLoadSessionResolvesFlags(t *testing.T) {
	t.Setenv("CHATWRAPPED_API_BASE", "http://injected:9000")
	t.Setenv("CHATWRAPPED_DEBUG", "")

	root := newRootCommand()

	rt, err := loadSession(root, &globalFlags{configPath: filepath.Join(t.TempDir(), "none.json")})
	require.NoError(t, err)
	assert.Equal(t, "http://injected:9000", rt.baseURL)

	rt, err = loadSession(root, &globalFlags{apiURL: "example.test:8080/", configPath: filepath.Join(t.TempDir(), "none.json")})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:8080", rt.baseURL)
	assert.Equal(t, "http://example.test:8080", rt.client.BaseURL())
}
