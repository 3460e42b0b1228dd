package notion

import "fmt"

// ObjectBlock is the "object" value of every block the API understands.  ObjectUnsupported marks
// blocks the converter produced but the API can't accept; they must be handled (or dropped) before
// upload.
const (
	ObjectBlock       = "block"
	ObjectUnsupported = "unsupported"
)

type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockQuote            BlockType = "quote"
	BlockCode             BlockType = "code"
	BlockImage            BlockType = "image"
	BlockDivider          BlockType = "divider"
	BlockTable            BlockType = "table"
	BlockTableRow         BlockType = "table_row"
	BlockHTML             BlockType = "html"
)

// Block is one node of a page's content, see https://developers.notion.com/reference/block.
//
// Exactly one of the payload fields is set, matching Type.
type Block struct {
	Object string    `json:"object"`
	Type   BlockType `json:"type"`

	Paragraph        *TextBlock  `json:"paragraph,omitempty"`
	Heading1         *TextBlock  `json:"heading_1,omitempty"`
	Heading2         *TextBlock  `json:"heading_2,omitempty"`
	Heading3         *TextBlock  `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock  `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock  `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock  `json:"to_do,omitempty"`
	Quote            *TextBlock  `json:"quote,omitempty"`
	Code             *CodeBlock  `json:"code,omitempty"`
	Image            *ImageBlock `json:"image,omitempty"`
	Divider          *struct{}   `json:"divider,omitempty"`
	Table            *TableBlock `json:"table,omitempty"`
	TableRow         *TableRow   `json:"table_row,omitempty"`

	// HTML holds raw markup for unsupported html blocks.  Never sent.
	HTML string `json:"-"`
}

func (b Block) Unsupported() bool {
	return b.Object == ObjectUnsupported
}

func (b Block) String() string {
	return fmt.Sprintf("%s/%s", b.Object, b.Type)
}

type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color,omitempty"`
	Children []Block    `json:"children,omitempty"`
}

type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Children []Block    `json:"children,omitempty"`
}

type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

type ImageBlock struct {
	Type     string        `json:"type"` // always "external" for us
	External *ExternalFile `json:"external,omitempty"`
}

type ExternalFile struct {
	URL string `json:"url"`
}

// TableBlock mirrors the Notion table block.  Rows are kept in Children, the first one being the
// header row when HasColumnHeader is set.
type TableBlock struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Children        []Block `json:"children,omitempty"`
}

type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

// RichText is a text run, see https://developers.notion.com/reference/rich-text.
type RichText struct {
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
}

type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// Plain returns the concatenated text of a rich text sequence.
func Plain(runs []RichText) string {
	s := ""
	for _, r := range runs {
		switch {
		case r.Text != nil:
			s += r.Text.Content
		default:
			s += r.PlainText
		}
	}
	return s
}

// NewText builds a single unstyled text run.
func NewText(content string) RichText {
	return RichText{
		Type: "text",
		Text: &Text{Content: content},
	}
}

// See https://developers.notion.com/reference/page.  Only what we read back is decoded.
type Page struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Archived   bool                `json:"archived,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// Title digs out the text of whichever property is of type "title".
func (p Page) Title() (string, bool) {
	for _, prop := range p.Properties {
		if prop.Type == "title" && len(prop.Title) > 0 {
			return Plain(prop.Title), true
		}
	}
	return "", false
}

type Property struct {
	ID    string     `json:"id,omitempty"`
	Type  string     `json:"type,omitempty"`
	Title []RichText `json:"title,omitempty"`
}

type Database struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	URL    string `json:"url,omitempty"`
}

// See https://developers.notion.com/reference/user
type User struct {
	Object    string `json:"object"`
	ID        string `json:"id"`
	Type      string `json:"type"` // person or bot
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Person    *struct {
		Email string `json:"email"`
	} `json:"person,omitempty"`
}

// PageSummary is what a search yields: enough to let somebody pick an import target.
type PageSummary struct {
	ID    string
	Title string
}
