package element

// Button is an Element locator with the tag fixed to "button".
type Button struct {
	*Element
}

// NewButton creates a button locator. The options are the same as for New
// except the tag, which is fixed; an XPath, if given, must point to a button
// element itself.
func NewButton(opts ...Option) (*Button, error) {
	e, err := New(append([]Option{WithTag("button")}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Button{Element: e}, nil
}
