//nolint:revive // types is a standard Go package name pattern
package types

// Theme selects the section-to-visual-style mapping used by the document
// builder. The canonical model and the layout engine are shared between
// themes; only styling differs.
type Theme string

const (
	ThemeModern  Theme = "modern"
	ThemeClassic Theme = "classic"
	ThemeCompact Theme = "compact"
)

// BlockKind identifies the type of a document content block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockStyledBox BlockKind = "styled_box"
)

// Block is a single typed content node in the document tree.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Items    []string  `json:"items,omitempty"`
	Level    int       `json:"level,omitempty"` // heading level, 1-based
	StyleRef string    `json:"style_ref,omitempty"`
}

// Section is a named group of blocks rendered together.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// PageSetup holds the page-size and margin configuration handed to the
// layout engine. Dimensions are in inches.
type PageSetup struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
	MarginRight  float64 `json:"margin_right"`
}

// Document is the declarative document description consumed by the layout
// engine: an ordered section tree plus page configuration and theme.
type Document struct {
	Title    string    `json:"title"`
	Theme    Theme     `json:"theme"`
	Page     PageSetup `json:"page"`
	Sections []Section `json:"sections"`
	Locale   string    `json:"locale"`
}

// SectionByID returns the section with the given ID, or nil.
func (d *Document) SectionByID(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// Artifact is the rendered binary output of the layout engine.
type Artifact struct {
	Bytes    []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	Filename string `json:"filename,omitempty"`
}

// Size returns the artifact byte length; safe on nil.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Bytes)
}
