// Package browser drives a Chromium page through go-rod. Elements are found the
// way a user would describe them: by placeholder, role and accessible name,
// label or visible text.
package browser

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("element not found")
	ErrUnknownKey = errors.New("unknown key")
)

// API is everything a workflow needs from a browser page.
//
// note: fault injection point
type API interface {
	// Navigate opens url and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// Frame waits for the iframe matching the css selector and returns an API scoped to it.
	Frame(ctx context.Context, css string) (API, error)

	Click(ctx context.Context, l Locator) error
	// Fill replaces the value of an input.
	Fill(ctx context.Context, l Locator, value string) error
	// Press sends a named key (ex. "Enter") to an element.
	Press(ctx context.Context, l Locator, key string) error
	// Select picks the option of a <select> by value, falling back to its text.
	Select(ctx context.Context, l Locator, value string) error
	// Text waits for an element and returns its text content.
	Text(ctx context.Context, l Locator) (string, error)
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)

	// Settle gives the page time to finish re-rendering after an action.
	Settle(ctx context.Context) error
	// Screenshot captures the top level page and returns the path it was written to.
	Screenshot(ctx context.Context, step string) (string, error)

	Close() error
}
