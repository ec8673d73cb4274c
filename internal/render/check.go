package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// requiredSections must be present in the intermediate HTML before it is
// worth spending a browser round-trip on printing. Only the header is
// unconditional: content sections are omitted when their collection is
// empty, and an empty collection is an advisory condition, not a render
// blocker.
var requiredSections = []string{"header"}

// CheckHTML parses the intermediate HTML and verifies the document
// structure the layout step depends on: a body, the required sections,
// and a non-empty name heading.
func CheckHTML(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &StructureError{Message: fmt.Sprintf("unparseable HTML: %v", err)}
	}

	for _, id := range requiredSections {
		if doc.Find("section#" + id).Length() == 0 {
			return &StructureError{Message: fmt.Sprintf("missing required section %q", id)}
		}
	}

	name := strings.TrimSpace(doc.Find("section#header h1").First().Text())
	if name == "" {
		return &StructureError{Message: "header carries no name heading"}
	}

	return nil
}
