// Package render drives the document layout engine: it turns a document
// description into a paginated PDF artifact.
package render

import (
	"context"

	"github.com/jonathan/cv-generator/internal/types"
)

// PDFMIMEType is the content type of rendered artifacts.
const PDFMIMEType = "application/pdf"

// Renderer is the layout engine contract. Implementations must honor
// context cancellation: a cancelled render releases its resources rather
// than running to completion unobserved.
type Renderer interface {
	Render(ctx context.Context, doc *types.Document) (*types.Artifact, error)
}
