// Package prebuilt registers the built-in action and condition factories
// used by declarative workflow definitions: navigation, element
// interaction, visibility checks and small state utilities.
package prebuilt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/element"
	"github.com/NikBellini/web-graph/pkg/registry"
)

// Register adds every built-in factory to the registry.
//
// Actions: navigate, refresh, click, send_keys, clear, set_state, sleep, log.
// Conditions: element_visible, any_visible, all_visible, url_contains,
// state_equals.
func Register(r *registry.Registry) {
	r.RegisterAction("navigate", navigateAction)
	r.RegisterAction("refresh", refreshAction)
	r.RegisterAction("click", clickAction)
	r.RegisterAction("send_keys", sendKeysAction)
	r.RegisterAction("clear", clearAction)
	r.RegisterAction("set_state", setStateAction)
	r.RegisterAction("sleep", sleepAction)
	r.RegisterAction("log", logAction)

	r.RegisterCondition("element_visible", elementVisibleCondition)
	r.RegisterCondition("any_visible", anyVisibleCondition)
	r.RegisterCondition("all_visible", allVisibleCondition)
	r.RegisterCondition("url_contains", urlContainsCondition)
	r.RegisterCondition("state_equals", stateEqualsCondition)
}

// decode maps the free-form "with" arguments of a workflow definition onto a
// typed parameter struct, rejecting unknown keys.
func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

// selectorParams is the shared locator configuration for element factories.
type selectorParams struct {
	Tag        string            `mapstructure:"tag"`
	ID         string            `mapstructure:"id"`
	Name       string            `mapstructure:"name"`
	ClassNames []string          `mapstructure:"class_names"`
	Attrs      map[string]string `mapstructure:"attrs"`
	Index      *int              `mapstructure:"index"`
	XPath      string            `mapstructure:"xpath"`
	Timeout    string            `mapstructure:"timeout"`
}

func (p selectorParams) element() (*element.Element, error) {
	var opts []element.Option
	if p.Tag != "" {
		opts = append(opts, element.WithTag(p.Tag))
	}
	if p.ID != "" {
		opts = append(opts, element.WithID(p.ID))
	}
	if p.Name != "" {
		opts = append(opts, element.WithName(p.Name))
	}
	if len(p.ClassNames) > 0 {
		opts = append(opts, element.WithClassNames(p.ClassNames...))
	}
	for k, v := range p.Attrs {
		opts = append(opts, element.WithAttr(k, v))
	}
	if p.Index != nil {
		opts = append(opts, element.WithIndex(*p.Index))
	}
	if p.XPath != "" {
		opts = append(opts, element.WithXPath(p.XPath))
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		opts = append(opts, element.WithTimeout(d))
	}
	return element.New(opts...)
}

func navigateAction(args map[string]any) (domain.Action, error) {
	var p struct {
		URL string `mapstructure:"url"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if p.URL == "" {
		return nil, fmt.Errorf("navigate: url is required")
	}
	return element.GoTo(p.URL), nil
}

func refreshAction(args map[string]any) (domain.Action, error) {
	if err := decode(args, &struct{}{}); err != nil {
		return nil, err
	}
	return element.Refresh(), nil
}

func clickAction(args map[string]any) (domain.Action, error) {
	var p selectorParams
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	e, err := p.element()
	if err != nil {
		return nil, err
	}
	return e.Click(), nil
}

func sendKeysAction(args map[string]any) (domain.Action, error) {
	var p struct {
		selectorParams `mapstructure:",squash"`
		Text           string `mapstructure:"text"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	e, err := p.element()
	if err != nil {
		return nil, err
	}
	return e.SendKeys(p.Text), nil
}

func clearAction(args map[string]any) (domain.Action, error) {
	var p selectorParams
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	e, err := p.element()
	if err != nil {
		return nil, err
	}
	return e.Clear(), nil
}

func setStateAction(args map[string]any) (domain.Action, error) {
	var p struct {
		Key   string `mapstructure:"key"`
		Value any    `mapstructure:"value"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if p.Key == "" {
		return nil, fmt.Errorf("set_state: key is required")
	}
	value := p.Value
	return domain.StateAction(func(ctx context.Context, state *domain.State) error {
		state.Set(p.Key, value)
		return nil
	}), nil
}

func sleepAction(args map[string]any) (domain.Action, error) {
	var p struct {
		Duration string `mapstructure:"duration"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(p.Duration)
	if err != nil {
		return nil, fmt.Errorf("sleep: invalid duration: %w", err)
	}
	return domain.BareAction(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}), nil
}

func logAction(args map[string]any) (domain.Action, error) {
	var p struct {
		Message string `mapstructure:"message"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	return domain.BareAction(func(ctx context.Context) error {
		slog.Info(p.Message)
		return nil
	}), nil
}

func elementVisibleCondition(args map[string]any) (domain.Condition, error) {
	var p selectorParams
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	e, err := p.element()
	if err != nil {
		return nil, err
	}
	return e.Visible(), nil
}

// decodeMultiVisible parses the shared arguments of the multi-element
// visibility conditions: a list of locators plus an overall timeout.
func decodeMultiVisible(name string, args map[string]any) (time.Duration, []*element.Element, error) {
	var p struct {
		Timeout  string           `mapstructure:"timeout"`
		Elements []selectorParams `mapstructure:"elements"`
	}
	if err := decode(args, &p); err != nil {
		return 0, nil, err
	}
	if len(p.Elements) == 0 {
		return 0, nil, fmt.Errorf("%s: elements is required", name)
	}
	var timeout time.Duration
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: invalid timeout: %w", name, err)
		}
		timeout = d
	}
	elems := make([]*element.Element, 0, len(p.Elements))
	for _, sp := range p.Elements {
		e, err := sp.element()
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", name, err)
		}
		elems = append(elems, e)
	}
	return timeout, elems, nil
}

func anyVisibleCondition(args map[string]any) (domain.Condition, error) {
	timeout, elems, err := decodeMultiVisible("any_visible", args)
	if err != nil {
		return nil, err
	}
	return element.AnyVisible(timeout, elems...), nil
}

func allVisibleCondition(args map[string]any) (domain.Condition, error) {
	timeout, elems, err := decodeMultiVisible("all_visible", args)
	if err != nil {
		return nil, err
	}
	return element.AllVisible(timeout, elems...), nil
}

func urlContainsCondition(args map[string]any) (domain.Condition, error) {
	var p struct {
		Value string `mapstructure:"value"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if p.Value == "" {
		return nil, fmt.Errorf("url_contains: value is required")
	}
	return element.URLContains(p.Value), nil
}

func stateEqualsCondition(args map[string]any) (domain.Condition, error) {
	var p struct {
		Key   string `mapstructure:"key"`
		Value any    `mapstructure:"value"`
	}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if p.Key == "" {
		return nil, fmt.Errorf("state_equals: key is required")
	}
	want := p.Value
	return domain.StateCondition(func(ctx context.Context, state *domain.State) (bool, error) {
		return state.Get(p.Key) == want, nil
	}), nil
}
