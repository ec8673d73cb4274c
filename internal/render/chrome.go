package render

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/cv-generator/internal/types"
)

// ChromeRenderer renders documents with headless Chrome's print pipeline.
// Requires Chrome/Chromium to be installed on the system. Cancelling the
// context tears the browser down, so a timed-out render does not keep
// running in the background.
type ChromeRenderer struct{}

// NewChromeRenderer creates a Chrome-backed layout engine client.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{}
}

// Render builds the intermediate HTML, sanity-checks its structure, and
// prints it to PDF.
func (r *ChromeRenderer) Render(ctx context.Context, doc *types.Document) (*types.Artifact, error) {
	html, err := BuildHTML(doc)
	if err != nil {
		return nil, err
	}
	if err := CheckHTML(html); err != nil {
		return nil, err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(doc.Page.Width).
				WithPaperHeight(doc.Page.Height).
				WithMarginTop(doc.Page.MarginTop).
				WithMarginBottom(doc.Page.MarginBottom).
				WithMarginLeft(doc.Page.MarginLeft).
				WithMarginRight(doc.Page.MarginRight).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		// Cancellation surfaces as the context error so the caller can
		// distinguish a timeout from an engine failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &RenderError{Message: "browser print failed", Cause: err}
	}

	return &types.Artifact{Bytes: pdf, MIMEType: PDFMIMEType}, nil
}
