package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Error is the body Notion sends with any non-2xx response:
// https://developers.notion.com/reference/status-codes
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

func (api *API) get(ctx context.Context, ep *url.URL, out any) error {
	return api.do(ctx, http.MethodGet, ep, nil, out)
}

func (api *API) post(ctx context.Context, ep *url.URL, in any, out any) error {
	return api.do(ctx, http.MethodPost, ep, in, out)
}

func (api *API) patch(ctx context.Context, ep *url.URL, in any, out any) error {
	return api.do(ctx, http.MethodPatch, ep, in, out)
}

func (api *API) do(ctx context.Context, method string, ep *url.URL, in any, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("notion: couldn't encode request body: %w", err)
		}
	}

	body, err := api.request(ctx, method, ep, payload)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("notion: couldn't parse json response: %w", err)
	}
	return nil
}

// request performs one round trip and returns the raw response body of a successful call.
func (api *API) request(ctx context.Context, method string, ep *url.URL, payload []byte) ([]byte, error) {
	if api.Limiter != nil {
		if err := api.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("notion: rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, ep.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Authorization", "Bearer "+api.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("notion: couldn't close response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return body, nil
	}

	apiErr := &Error{Status: response.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Code = "unknown"
		apiErr.Message = fmt.Sprintf("%s %s: %s", method, ep.Path, response.Status)
	}
	apiErr.Status = response.StatusCode

	return nil, apiErr
}
