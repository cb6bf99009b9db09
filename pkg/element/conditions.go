package element

import (
	"context"
	"errors"
	"time"

	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/ports"
)

// DefaultCheckTimeout bounds the multi-element visibility checks.
const DefaultCheckTimeout = 5 * time.Second

// AnyVisible returns a condition that is true when at least one of the
// elements is present and displayed within the timeout. A timeout below or
// equal to zero falls back to DefaultCheckTimeout.
func AnyVisible(timeout time.Duration, elems ...*Element) domain.Condition {
	return visibilityCheck(timeout, elems, false)
}

// AllVisible returns a condition that is true when every element is present
// and displayed within the timeout. A timeout below or equal to zero falls
// back to DefaultCheckTimeout.
func AllVisible(timeout time.Duration, elems ...*Element) domain.Condition {
	return visibilityCheck(timeout, elems, true)
}

func visibilityCheck(timeout time.Duration, elems []*Element, needAll bool) domain.Condition {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return func(ctx context.Context, rc *domain.RunContext) (bool, error) {
		drv, err := driverFrom(rc)
		if err != nil {
			return false, err
		}

		deadline := time.Now().Add(timeout)
		for {
			ok, err := checkVisibility(ctx, drv, elems, needAll)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
			if time.Now().After(deadline) {
				return false, nil
			}
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(pollInterval):
			}
		}
	}
}

// checkVisibility performs a single pass over the elements without waiting
// on individual locators.
func checkVisibility(ctx context.Context, drv ports.BrowserDriver, elems []*Element, needAll bool) (bool, error) {
	for _, e := range elems {
		visible, err := probeVisible(ctx, drv, e)
		if err != nil {
			return false, err
		}
		if visible && !needAll {
			return true, nil
		}
		if !visible && needAll {
			return false, nil
		}
	}
	return needAll, nil
}

func probeVisible(ctx context.Context, drv ports.BrowserDriver, e *Element) (bool, error) {
	handles, err := drv.FindElements(ctx, e.Selector())
	if err != nil {
		return false, err
	}

	var handle ports.ElementHandle
	switch {
	case len(handles) == 0:
		return false, nil
	case e.index >= 0:
		if e.index >= len(handles) {
			return false, nil
		}
		handle = handles[e.index]
	case len(handles) > 1:
		return false, &NotUniqueError{Selector: e.Selector(), Count: len(handles)}
	default:
		handle = handles[0]
	}

	visible, err := handle.Displayed(ctx)
	if err != nil {
		// Elements can disappear between the find and the probe.
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return visible, nil
}
