package element

// Input is an Element locator with the tag fixed to "input".
type Input struct {
	*Element
}

// NewInput creates an input locator. The options are the same as for New
// except the tag, which is fixed; an XPath, if given, must point to an input
// element itself.
func NewInput(opts ...Option) (*Input, error) {
	e, err := New(append([]Option{WithTag("input")}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Input{Element: e}, nil
}
