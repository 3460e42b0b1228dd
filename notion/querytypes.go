package notion

// ListUsersQuery defines the query parameters for:
// https://developers.notion.com/reference/get-users
type ListUsersQuery struct {
	// 'StartCursor' is used for pagination; it is the opaque next_cursor value of the previous
	// response.
	StartCursor string `url:"start_cursor,omitempty"`
	PageSize    int    `url:"page_size,omitempty"` // page limit; default 100, max 100
}

// SearchQuery is the JSON body for:
// https://developers.notion.com/reference/post-search
type SearchQuery struct {
	Query       string        `json:"query,omitempty"`
	Filter      *SearchFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

// SearchFilter limits search results to one object type: "page" or "database".
type SearchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}
