package notion

import (
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// DefaultBaseURI is where the public Notion REST API lives.
const DefaultBaseURI = "https://api.notion.com"

// APIVersion is sent as the Notion-Version header on every request.
const APIVersion = "2022-06-28"

func NewAPI(baseURI string, token string, requestsPerSecond float64) (*API, error) {
	if token == "" {
		return nil, fmt.Errorf("notion: auth token is empty, please check auth-token-cmd or NOTION_TOKEN")
	}
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}

	u, err := url.ParseRequestURI(baseURI)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI: u,
		token:   token,
	}
	a.Client = &http.Client{}

	if requestsPerSecond > 0 {
		a.Limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return a, nil
}

type API struct {
	// Root of the REST API, e.g. https://api.notion.com
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Notion allows an average of three requests per second per integration.  Nil means no
	// client-side limiting.
	Limiter *rate.Limiter

	token string
}
