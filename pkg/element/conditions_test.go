package element

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikBellini/web-graph/pkg/ports"
)

// multiDriver routes FindElements by selector value, one result set per
// locator.
type multiDriver struct {
	url     string
	results map[string][]ports.ElementHandle
}

func (d *multiDriver) NavigateTo(ctx context.Context, url string) error {
	d.url = url
	return nil
}
func (d *multiDriver) CurrentURL(ctx context.Context) (string, error) { return d.url, nil }
func (d *multiDriver) Refresh(ctx context.Context) error              { return nil }
func (d *multiDriver) FindElements(ctx context.Context, sel ports.Selector) ([]ports.ElementHandle, error) {
	return d.results[sel.Value], nil
}

func mustElement(t *testing.T, opts ...Option) *Element {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestAnyVisible(t *testing.T) {
	shown := &fakeHandle{displayed: true}
	drv := &multiDriver{results: map[string][]ports.ElementHandle{
		`[id="b"]`: {shown},
	}}

	a := mustElement(t, WithID("a"))
	b := mustElement(t, WithID("b"))

	ok, err := AnyVisible(100*time.Millisecond, a, b)(context.Background(), rcWith(drv))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAnyVisibleNoneShown(t *testing.T) {
	drv := &multiDriver{results: map[string][]ports.ElementHandle{}}

	a := mustElement(t, WithID("a"))

	ok, err := AnyVisible(time.Millisecond, a)(context.Background(), rcWith(drv))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllVisible(t *testing.T) {
	drv := &multiDriver{results: map[string][]ports.ElementHandle{
		`[id="a"]`: {&fakeHandle{displayed: true}},
		`[id="b"]`: {&fakeHandle{displayed: true}},
	}}

	a := mustElement(t, WithID("a"))
	b := mustElement(t, WithID("b"))

	ok, err := AllVisible(100*time.Millisecond, a, b)(context.Background(), rcWith(drv))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllVisibleOneMissing(t *testing.T) {
	drv := &multiDriver{results: map[string][]ports.ElementHandle{
		`[id="a"]`: {&fakeHandle{displayed: true}},
	}}

	a := mustElement(t, WithID("a"))
	b := mustElement(t, WithID("b"))

	ok, err := AllVisible(time.Millisecond, a, b)(context.Background(), rcWith(drv))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllVisibleHiddenElement(t *testing.T) {
	drv := &multiDriver{results: map[string][]ports.ElementHandle{
		`[id="a"]`: {&fakeHandle{displayed: false}},
	}}

	a := mustElement(t, WithID("a"))

	ok, err := AllVisible(time.Millisecond, a)(context.Background(), rcWith(drv))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGoToAndURLContains(t *testing.T) {
	drv := &multiDriver{}
	rc := rcWith(drv)

	require.NoError(t, GoTo("https://example.com/login")(context.Background(), rc))
	assert.Equal(t, "https://example.com/login", drv.url)

	ok, err := URLContains("/login")(context.Background(), rc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = URLContains("/secure")(context.Background(), rc)
	require.NoError(t, err)
	assert.False(t, ok)
}
