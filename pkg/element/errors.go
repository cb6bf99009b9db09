package element

import (
	"fmt"

	"github.com/NikBellini/web-graph/pkg/ports"
)

// NotFoundError is returned when no element matching the selector appears
// within the locator's timeout.
type NotFoundError struct {
	Selector ports.Selector
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Selector)
}

// NotUniqueError is returned when a selector matches more than one element
// and no index was configured to disambiguate.
type NotUniqueError struct {
	Selector ports.Selector
	Count    int
}

func (e *NotUniqueError) Error() string {
	return fmt.Sprintf("element not unique: %s matched %d elements", e.Selector, e.Count)
}
