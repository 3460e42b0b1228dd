package notion

import (
	"context"
	"fmt"
)

// Beyond this we stop paging: a search term that broad isn't going to help anyone pick a page.
const maxSearchPages = 10

// SearchPages returns every non-archived page whose title matches query.  Pages without a title
// property are labelled "invalid page" so they can still be listed.
func (api *API) SearchPages(ctx context.Context, query string) ([]PageSummary, error) {
	ep, err := api.searchEndpoint()
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get search endpoint: %w", err)
	}

	q := SearchQuery{
		Query: query,
		Filter: &SearchFilter{
			Property: "object",
			Value:    "page",
		},
		PageSize: 100,
	}

	pages := []PageSummary{}
	for i := 0; i < maxSearchPages; i++ {
		var res SearchResponse
		if err := api.post(ctx, ep, q, &res); err != nil {
			return nil, fmt.Errorf("notion: couldn't search pages: %w", err)
		}

		for _, p := range res.Results {
			if p.Archived {
				continue
			}
			title, ok := p.Title()
			if !ok {
				title = "invalid page"
			}
			pages = append(pages, PageSummary{ID: p.ID, Title: title})
		}

		if !res.HasMore || res.NextCursor == nil {
			break
		}
		q.StartCursor = *res.NextCursor
		if q.StartCursor == "" {
			return nil, fmt.Errorf("notion: expected next_cursor was empty")
		}
	}

	return pages, nil
}

// ListAllUsers pages through every user of the workspace.
func (api *API) ListAllUsers(ctx context.Context) ([]User, error) {
	query := ListUsersQuery{
		PageSize: 100,
	}

	users := []User{}
	for {
		ep, err := api.listUsersEndpoint(query)
		if err != nil {
			return nil, fmt.Errorf("notion: couldn't get users endpoint: %w", err)
		}

		var res UserList
		if err := api.get(ctx, ep, &res); err != nil {
			return nil, fmt.Errorf("notion: couldn't list users: %w", err)
		}
		users = append(users, res.Results...)

		if !res.HasMore || res.NextCursor == nil {
			break
		}
		query.StartCursor = *res.NextCursor
		if query.StartCursor == "" {
			return nil, fmt.Errorf("notion: expected next_cursor was empty")
		}
	}

	return users, nil
}
