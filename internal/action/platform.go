package action

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// Platform performs the host-side effects of a dispatch.
type Platform interface {
	Open(ctx context.Context, uri string) error
	WriteClipboard(ctx context.Context, text string) error
}

// DesktopPlatform opens links with the OS handler (tel:, https:) and uses
// the system clipboard.
type DesktopPlatform struct{}

func (DesktopPlatform) Open(ctx context.Context, uri string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return browser.OpenURL(uri)
}

func (DesktopPlatform) WriteClipboard(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// LinkPlatform is used server side: links are handed back to the client to
// follow, and there is no clipboard.
type LinkPlatform struct{}

func (LinkPlatform) Open(context.Context, string) error { return nil }

func (LinkPlatform) WriteClipboard(context.Context, string) error { return ErrClipboardUnavailable }
