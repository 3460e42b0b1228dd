package notion

// SearchResponse is the paginated list returned by POST /v1/search.
type SearchResponse struct {
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// UserList is the paginated list returned by GET /v1/users.
type UserList struct {
	Results    []User  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type blockList struct {
	Results []Block `json:"results"`
}
