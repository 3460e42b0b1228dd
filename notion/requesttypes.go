package notion

// ColumnKind is the property type of a database column.  Only the two kinds an imported table
// needs are modelled.
type ColumnKind int

const (
	TitleColumn ColumnKind = iota
	TextColumn
)

func (k ColumnKind) String() string {
	switch k {
	case TitleColumn:
		return "title"
	default:
		return "rich_text"
	}
}

type Column struct {
	Name string
	Kind ColumnKind
}

// NewPage describes a page to create under another page.
type NewPage struct {
	ParentID string
	Icon     string // an emoji, optional
	Title    string
	Children []Block
}

// NewDatabase describes an inline database to create under a page.
type NewDatabase struct {
	ParentID string
	Title    string
	Columns  []Column
}

// Cell is one value of a database record.
type Cell struct {
	Column Column
	Value  string
}

// NewRecord describes one row of a database.
type NewRecord struct {
	DatabaseID string
	Cells      []Cell
}

// wire formats

type parent struct {
	Type       string `json:"type"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type createPageRequest struct {
	Parent     parent         `json:"parent"`
	Icon       *icon          `json:"icon,omitempty"`
	Properties map[string]any `json:"properties"`
	Children   []Block        `json:"children,omitempty"`
}

type createDatabaseRequest struct {
	Parent     parent         `json:"parent"`
	Title      []RichText     `json:"title"`
	IsInline   bool           `json:"is_inline"`
	Properties map[string]any `json:"properties"`
}

type appendChildrenRequest struct {
	Children []Block `json:"children"`
}

func titleProperty(content string) map[string]any {
	return map[string]any{
		"title": NewTexts(content),
	}
}

func textProperty(content string) map[string]any {
	return map[string]any{
		"rich_text": NewTexts(content),
	}
}
