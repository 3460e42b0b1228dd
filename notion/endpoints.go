package notion

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// searchEndpoint returns the endpoint to search pages and databases shared with the integration:
// https://developers.notion.com/reference/post-search
func (a *API) searchEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/v1/search")
}

// createPageEndpoint returns the endpoint to create a page, either under a page or as a row of a
// database:
// https://developers.notion.com/reference/post-page
func (a *API) createPageEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/v1/pages")
}

// createDatabaseEndpoint returns the endpoint to create an inline database under a page:
// https://developers.notion.com/reference/create-a-database
func (a *API) createDatabaseEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/v1/databases")
}

// appendChildrenEndpoint returns the endpoint to append blocks to an existing block or page:
// https://developers.notion.com/reference/patch-block-children
func (a *API) appendChildrenEndpoint(blockID string) (*url.URL, error) {
	if blockID == "" {
		return nil, fmt.Errorf("notion: please provide block ID to append children to")
	}

	return a.resolveEndpoint(fmt.Sprintf("/v1/blocks/%s/children", url.PathEscape(blockID)))
}

// listUsersEndpoint returns the endpoint to list workspace users:
// https://developers.notion.com/reference/get-users
func (a *API) listUsersEndpoint(opts ListUsersQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("/v1/users")
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("notion: failed to parse endpoint ref: %w", err)
	}

	return a.BaseURI.ResolveReference(ref), nil
}
