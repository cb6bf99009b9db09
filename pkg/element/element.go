package element

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/ports"
)

// DefaultTimeout is how long Retrieve polls for an element before giving up.
const DefaultTimeout = 10 * time.Second

const pollInterval = 250 * time.Millisecond

// Element is a structured locator for a single HTML element.
//
// Either an XPath or attribute criteria can be provided, not both; the tag
// may accompany an XPath but is ignored by it. At least one criterion is
// required.
type Element struct {
	tag        string
	id         string
	name       string
	classNames []string
	attrs      map[string]string
	index      int // -1 when unset
	xpath      string
	timeout    time.Duration
}

// Option configures an Element during construction.
type Option func(*Element)

// WithTag sets the HTML tag to match (e.g. "input", "div").
func WithTag(tag string) Option {
	return func(e *Element) { e.tag = tag }
}

// WithID matches the element's id attribute.
func WithID(id string) Option {
	return func(e *Element) { e.id = id }
}

// WithName matches the element's name attribute.
func WithName(name string) Option {
	return func(e *Element) { e.name = name }
}

// WithClassNames matches elements carrying all the given class names.
func WithClassNames(classNames ...string) Option {
	return func(e *Element) { e.classNames = append(e.classNames, classNames...) }
}

// WithAttr matches an arbitrary HTML attribute value.
func WithAttr(key, value string) Option {
	return func(e *Element) {
		if e.attrs == nil {
			e.attrs = make(map[string]string)
		}
		e.attrs[key] = value
	}
}

// WithIndex selects the zero-based nth match when the selector is expected
// to match several elements.
func WithIndex(i int) Option {
	return func(e *Element) { e.index = i }
}

// WithXPath locates the element by a raw XPath instead of attribute criteria.
func WithXPath(xpath string) Option {
	return func(e *Element) { e.xpath = xpath }
}

// WithTimeout overrides DefaultTimeout for this locator.
func WithTimeout(d time.Duration) Option {
	return func(e *Element) { e.timeout = d }
}

// New creates an element locator.
func New(opts ...Option) (*Element, error) {
	e := &Element{index: -1, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}

	hasCriteria := e.id != "" || e.name != "" || len(e.classNames) > 0 || len(e.attrs) > 0 || e.index >= 0
	if e.xpath != "" && hasCriteria {
		return nil, fmt.Errorf("element: attribute criteria and an XPath are mutually exclusive")
	}
	if e.xpath == "" && e.tag == "" && !hasCriteria {
		return nil, fmt.Errorf("element: at least one of tag, XPath or an attribute criterion is required")
	}
	if e.timeout <= 0 {
		return nil, fmt.Errorf("element: timeout must be positive")
	}

	return e, nil
}

// Selector returns the wire selector for this locator: the raw XPath if one
// was given, a CSS selector built from the criteria otherwise.
func (e *Element) Selector() ports.Selector {
	if e.xpath != "" {
		return ports.XPath(e.xpath)
	}
	return ports.CSS(e.cssSelector())
}

func (e *Element) cssSelector() string {
	var sb strings.Builder
	sb.WriteString(e.tag)
	if e.id != "" {
		fmt.Fprintf(&sb, "[id=%q]", e.id)
	}
	if e.name != "" {
		fmt.Fprintf(&sb, "[name=%q]", e.name)
	}
	for _, class := range e.classNames {
		sb.WriteString("." + class)
	}
	for _, key := range sortedKeys(e.attrs) {
		fmt.Fprintf(&sb, "[%s=%q]", key, e.attrs[key])
	}
	return sb.String()
}

// Retrieve polls the driver until the locator resolves to exactly one
// element or the timeout elapses.
//
// Without an index, a single match is returned directly and multiple matches
// raise a *NotUniqueError. With an index, Retrieve waits until enough
// matches are present and returns the nth one. Nothing found in time raises
// a *NotFoundError.
func (e *Element) Retrieve(ctx context.Context, drv ports.BrowserDriver) (ports.ElementHandle, error) {
	sel := e.Selector()
	deadline := time.Now().Add(e.timeout)

	for {
		handles, err := drv.FindElements(ctx, sel)
		if err != nil {
			return nil, err
		}

		if e.index < 0 && len(handles) > 0 {
			if len(handles) > 1 {
				return nil, &NotUniqueError{Selector: sel, Count: len(handles)}
			}
			return handles[0], nil
		}
		if e.index >= 0 && len(handles) > e.index {
			return handles[e.index], nil
		}

		if time.Now().After(deadline) {
			return nil, &NotFoundError{Selector: sel}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Click returns an action that retrieves the element and clicks it.
func (e *Element) Click() domain.Action {
	return func(ctx context.Context, rc *domain.RunContext) error {
		drv, err := driverFrom(rc)
		if err != nil {
			return err
		}
		handle, err := e.Retrieve(ctx, drv)
		if err != nil {
			return err
		}
		return handle.Click(ctx)
	}
}

// SendKeys returns an action that retrieves the element and types the given
// text into it.
func (e *Element) SendKeys(text string) domain.Action {
	return func(ctx context.Context, rc *domain.RunContext) error {
		drv, err := driverFrom(rc)
		if err != nil {
			return err
		}
		handle, err := e.Retrieve(ctx, drv)
		if err != nil {
			return err
		}
		return handle.SendKeys(ctx, text)
	}
}

// Clear returns an action that retrieves the element and clears its value.
func (e *Element) Clear() domain.Action {
	return func(ctx context.Context, rc *domain.RunContext) error {
		drv, err := driverFrom(rc)
		if err != nil {
			return err
		}
		handle, err := e.Retrieve(ctx, drv)
		if err != nil {
			return err
		}
		return handle.Clear(ctx)
	}
}

// Visible returns a condition that reports whether the element is present
// and displayed. An element that never appears within the locator's timeout
// evaluates to false rather than failing the run.
func (e *Element) Visible() domain.Condition {
	return func(ctx context.Context, rc *domain.RunContext) (bool, error) {
		drv, err := driverFrom(rc)
		if err != nil {
			return false, err
		}
		handle, err := e.Retrieve(ctx, drv)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return false, nil
			}
			return false, err
		}
		return handle.Displayed(ctx)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// driverFrom resolves the graph's opaque driver handle to the browser driver
// interface the element layer requires.
func driverFrom(rc *domain.RunContext) (ports.BrowserDriver, error) {
	drv, ok := rc.Driver.(ports.BrowserDriver)
	if !ok {
		return nil, fmt.Errorf("element: driver %T does not implement ports.BrowserDriver", rc.Driver)
	}
	return drv, nil
}
