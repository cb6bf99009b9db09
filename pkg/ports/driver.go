package ports

import "context"

// Location strategies, following the W3C WebDriver vocabulary.
const (
	StrategyCSS   = "css selector"
	StrategyXPath = "xpath"
)

// Selector identifies elements on the current page.
type Selector struct {
	Strategy string `json:"using"`
	Value    string `json:"value"`
}

// CSS builds a CSS selector.
func CSS(value string) Selector {
	return Selector{Strategy: StrategyCSS, Value: value}
}

// XPath builds an XPath selector.
func XPath(value string) Selector {
	return Selector{Strategy: StrategyXPath, Value: value}
}

func (s Selector) String() string {
	return s.Strategy + " " + s.Value
}

// BrowserDriver is the element locator layer's view of a browser session.
// The graph engine never sees this interface; callbacks that need it assert
// it from the opaque driver handle.
type BrowserDriver interface {
	// NavigateTo loads the given URL in the current browsing context.
	NavigateTo(ctx context.Context, url string) error

	// CurrentURL returns the URL of the current page.
	CurrentURL(ctx context.Context) (string, error)

	// Refresh reloads the current page.
	Refresh(ctx context.Context) error

	// FindElements returns all elements matching the selector, possibly
	// none. Not finding anything is not an error.
	FindElements(ctx context.Context, sel Selector) ([]ElementHandle, error)
}

// ElementHandle is a reference to a single element on the page.
type ElementHandle interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	Displayed(ctx context.Context) (bool, error)
}
