/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/toothbrush/notion-import/notion"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// authToken runs --auth-token-cmd, falling back to $NOTION_TOKEN.
func authToken() (string, error) {
	if len(AuthTokenCmd) > 0 {
		tokenCmdOutput, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
		if err != nil {
			return "", fmt.Errorf("notion-import: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
		}
		return strings.TrimSpace(strings.Split(string(tokenCmdOutput), "\n")[0]), nil
	}

	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("notion-import: please provide --auth-token-cmd or set NOTION_TOKEN")
}

// notionAPI builds the API client.  The returned stop function must be called when done, to flush
// any VCR recording.
func notionAPI(withVCR bool) (*notion.API, func() error, error) {
	token, err := authToken()
	if err != nil {
		return nil, nil, err
	}

	api, err := notion.NewAPI(NotionURL, token, RequestsPerSecond)
	if err != nil {
		return nil, nil, fmt.Errorf("notion-import: couldn't instantiate Notion API: %w", err)
	}

	stop := func() error { return nil }
	if withVCR {
		// set up VCR recordings.
		opts := &recorder.Options{
			CassetteName:       "fixtures/notion-import",
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      http.DefaultTransport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("notion-import: couldn't set up go-vcr recording: %w", err)
		}

		// Add a hook which removes Authorization headers from all requests
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)
		r.SetReplayableInteractions(true)

		api.Client = r.GetDefaultClient()
		stop = r.Stop
	}

	return api, stop, nil
}
