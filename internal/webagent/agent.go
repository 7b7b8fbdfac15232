package webagent

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrElementNotFound means a selector matched nothing within the element wait.
	ErrElementNotFound = errors.New("element not found")

	// ErrTimeout means a page load or element wait exceeded its bound.
	ErrTimeout = errors.New("timed out")
)

// Agent drives one browser session.
// Implementations are not safe for concurrent use; a run is sequential.
type Agent interface {
	// Navigate loads url and waits for the page to finish loading.
	Navigate(ctx context.Context, url string) error

	// Find returns the first element matching sel, waiting up to the element timeout.
	Find(ctx context.Context, sel Selector) (Element, error)

	// FindAll returns every element matching sel. It does not wait and may
	// return an empty slice.
	FindAll(ctx context.Context, sel Selector) ([]Element, error)
}

// Session is an Agent that owns a browser and must be closed exactly once
// the run is over, whether it succeeded or not.
type Session interface {
	Agent
	Close() error
}

// Element is one node of the current page.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error

	// SelectByVisibleText picks the <option> whose visible text equals text.
	SelectByVisibleText(ctx context.Context, text string) error

	// Find and FindAll search the element's descendants.
	Find(ctx context.Context, sel Selector) (Element, error)
	FindAll(ctx context.Context, sel Selector) ([]Element, error)
}

// Timeouts bounds every blocking interaction.
type Timeouts struct {
	Element  time.Duration // implicit wait for a single element
	PageLoad time.Duration // wait for navigation to complete
}

// DefaultTimeouts are used when a Timeouts field is zero.
var DefaultTimeouts = Timeouts{
	Element:  10 * time.Second,
	PageLoad: 10 * time.Second,
}

// withDefaults fills zero fields from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	if t.Element <= 0 {
		t.Element = DefaultTimeouts.Element
	}
	if t.PageLoad <= 0 {
		t.PageLoad = DefaultTimeouts.PageLoad
	}
	return t
}

// By names a selector strategy.
type By int

const (
	ByIDStrategy By = iota
	ByNameStrategy
	ByClassStrategy
	ByTagStrategy
	ByCSSStrategy
	ByXPathStrategy
)

// Selector locates elements on a page.
type Selector struct {
	By    By
	Value string
}

func ByID(id string) Selector       { return Selector{By: ByIDStrategy, Value: id} }
func ByName(name string) Selector   { return Selector{By: ByNameStrategy, Value: name} }
func ByClass(class string) Selector { return Selector{By: ByClassStrategy, Value: class} }
func ByTag(tag string) Selector     { return Selector{By: ByTagStrategy, Value: tag} }
func ByCSS(css string) Selector     { return Selector{By: ByCSSStrategy, Value: css} }
func ByXPath(xpath string) Selector { return Selector{By: ByXPathStrategy, Value: xpath} }

// CSS renders the selector as a CSS selector. XPath selectors have no CSS form.
func (s Selector) CSS() (string, error) {
	switch s.By {
	case ByIDStrategy:
		return fmt.Sprintf("[id=%q]", s.Value), nil
	case ByNameStrategy:
		return fmt.Sprintf("[name=%q]", s.Value), nil
	case ByClassStrategy:
		return "." + s.Value, nil
	case ByTagStrategy, ByCSSStrategy:
		return s.Value, nil
	default:
		return "", fmt.Errorf("selector %s has no CSS form", s)
	}
}

func (s Selector) String() string {
	switch s.By {
	case ByIDStrategy:
		return "#" + s.Value
	case ByNameStrategy:
		return fmt.Sprintf("[name=%s]", s.Value)
	case ByClassStrategy:
		return "." + s.Value
	case ByXPathStrategy:
		return "xpath:" + s.Value
	default:
		return s.Value
	}
}

// NotFound builds the error returned when sel matched nothing.
func NotFound(sel Selector) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, sel)
}
