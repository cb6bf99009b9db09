package element

import (
	"context"
	"strings"

	"github.com/NikBellini/web-graph/pkg/domain"
)

// GoTo returns an action that navigates the browser to the given URL.
func GoTo(url string) domain.Action {
	return func(ctx context.Context, rc *domain.RunContext) error {
		drv, err := driverFrom(rc)
		if err != nil {
			return err
		}
		return drv.NavigateTo(ctx, url)
	}
}

// Refresh returns an action that reloads the current page.
func Refresh() domain.Action {
	return func(ctx context.Context, rc *domain.RunContext) error {
		drv, err := driverFrom(rc)
		if err != nil {
			return err
		}
		return drv.Refresh(ctx)
	}
}

// URLContains returns a condition that is true when the current page URL
// contains the given substring.
func URLContains(substr string) domain.Condition {
	return func(ctx context.Context, rc *domain.RunContext) (bool, error) {
		drv, err := driverFrom(rc)
		if err != nil {
			return false, err
		}
		url, err := drv.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return strings.Contains(url, substr), nil
	}
}
