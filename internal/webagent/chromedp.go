package webagent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the Chrome session started by Launch.
type ChromeOptions struct {
	Headless bool
	ExecPath string // empty lets chromedp locate Chrome
	Timeouts Timeouts
}

// ChromeAgent is an Agent backed by a single Chrome tab driven over the
// DevTools protocol.
type ChromeAgent struct {
	tab      context.Context
	cancel   context.CancelFunc
	timeouts Timeouts
}

// Launch starts Chrome and opens one tab. The caller must Close the agent,
// on success and on error paths alike, to release the browser process.
func Launch(ctx context.Context, opts ChromeOptions) (*ChromeAgent, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("Launch: start browser: %w", err)
	}

	return &ChromeAgent{
		tab: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
		timeouts: opts.Timeouts.withDefaults(),
	}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (a *ChromeAgent) Close() error {
	err := chromedp.Cancel(a.tab)
	a.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("Close: %w", err)
	}
	return nil
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (a *ChromeAgent) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(a.tab, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
	}
	return err
}

// Navigate implements Agent.
func (a *ChromeAgent) Navigate(ctx context.Context, url string) error {
	if err := a.run(ctx, a.timeouts.PageLoad, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("Navigate %s: %w", url, err)
	}
	return nil
}

// Find implements Agent.
func (a *ChromeAgent) Find(ctx context.Context, sel Selector) (Element, error) {
	return a.find(ctx, sel, nil)
}

// FindAll implements Agent.
func (a *ChromeAgent) FindAll(ctx context.Context, sel Selector) ([]Element, error) {
	return a.findAll(ctx, sel, nil)
}

func (a *ChromeAgent) queryOptions(sel Selector, parent *cdp.Node, all bool) (string, []chromedp.QueryOption, error) {
	if sel.By == ByXPathStrategy {
		if parent != nil {
			return "", nil, fmt.Errorf("xpath selector %s is only supported from the document root", sel)
		}
		return sel.Value, []chromedp.QueryOption{chromedp.BySearch}, nil
	}

	css, err := sel.CSS()
	if err != nil {
		return "", nil, err
	}
	opts := []chromedp.QueryOption{chromedp.ByQuery}
	if all {
		opts = []chromedp.QueryOption{chromedp.ByQueryAll}
	}
	if parent != nil {
		opts = append(opts, chromedp.FromNode(parent))
	}
	return css, opts, nil
}

func (a *ChromeAgent) find(ctx context.Context, sel Selector, parent *cdp.Node) (Element, error) {
	query, opts, err := a.queryOptions(sel, parent, false)
	if err != nil {
		return nil, err
	}

	var nodes []*cdp.Node
	if err := a.run(ctx, a.timeouts.Element, chromedp.Nodes(query, &nodes, opts...)); err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, fmt.Errorf("%w: %w", NotFound(sel), err)
		}
		return nil, fmt.Errorf("find %s: %w", sel, err)
	}
	if len(nodes) == 0 {
		return nil, NotFound(sel)
	}
	return &chromeElement{agent: a, node: nodes[0], sel: sel}, nil
}

func (a *ChromeAgent) findAll(ctx context.Context, sel Selector, parent *cdp.Node) ([]Element, error) {
	query, opts, err := a.queryOptions(sel, parent, true)
	if err != nil {
		return nil, err
	}
	opts = append(opts, chromedp.AtLeast(0))

	var nodes []*cdp.Node
	if err := a.run(ctx, a.timeouts.Element, chromedp.Nodes(query, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("find all %s: %w", sel, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{agent: a, node: n, sel: sel})
	}
	return elements, nil
}

// chromeElement is a node handle obtained from a ChromeAgent query.
type chromeElement struct {
	agent *ChromeAgent
	node  *cdp.Node
	sel   Selector
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromeElement) do(ctx context.Context, what string, action chromedp.Action) error {
	if err := e.agent.run(ctx, e.agent.timeouts.Element, action); err != nil {
		return fmt.Errorf("%s %s: %w", what, e.sel, err)
	}
	return nil
}

// callOn runs a JavaScript function with the element bound to this and
// decodes its JSON result into out.
func (e *chromeElement) callOn(ctx context.Context, what, fn string, out interface{}) error {
	return e.do(ctx, what, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("javascript exception: %s", exc.Text)
		}
		if out == nil || res == nil || len(res.Value) == 0 {
			return nil
		}
		return json.Unmarshal([]byte(res.Value), out)
	}))
}

const textJS = `function() {
	const t = this.innerText;
	if (t === undefined || t === null || t === '') {
		return (this.textContent || '').trim();
	}
	return t;
}`

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.callOn(ctx, "text", textJS, &text); err != nil {
		return "", err
	}
	return text, nil
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	if err := e.do(ctx, "attribute", chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return value, nil
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.do(ctx, "click", chromedp.Click(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Clear(ctx context.Context) error {
	return e.do(ctx, "clear", chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Type(ctx context.Context, text string) error {
	return e.do(ctx, "type into", chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

const selectJS = `function() {
	const want = %s;
	for (const o of this.options) {
		if (o.text.trim() === want) {
			this.value = o.value;
			o.selected = true;
			this.dispatchEvent(new Event('input', {bubbles: true}));
			this.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		}
	}
	return false;
}`

func (e *chromeElement) SelectByVisibleText(ctx context.Context, text string) error {
	literal, err := json.Marshal(text)
	if err != nil {
		return fmt.Errorf("select %s: %w", e.sel, err)
	}

	var selected bool
	if err := e.callOn(ctx, "select", fmt.Sprintf(selectJS, literal), &selected); err != nil {
		return err
	}
	if !selected {
		return fmt.Errorf("%w: option %q in %s", ErrElementNotFound, text, e.sel)
	}
	return nil
}

func (e *chromeElement) Find(ctx context.Context, sel Selector) (Element, error) {
	return e.agent.find(ctx, sel, e.node)
}

func (e *chromeElement) FindAll(ctx context.Context, sel Selector) ([]Element, error) {
	return e.agent.findAll(ctx, sel, e.node)
}

var (
	_ Session = (*ChromeAgent)(nil)
	_ Element = (*chromeElement)(nil)
)
