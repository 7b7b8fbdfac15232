package inmemory

import (
	"context"
	"fmt"

	"github.com/dvloznov/points-sync/internal/webagent"
)

type element struct {
	agent *Agent
	node  *Node
	sel   webagent.Selector
}

func (e *element) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.node.Fail
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := e.check(ctx); err != nil {
		return "", err
	}
	e.agent.record("text %s", e.sel)
	return e.node.Text(), nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.check(ctx); err != nil {
		return "", err
	}
	return e.node.Attribute(name), nil
}

func (e *element) Click(ctx context.Context) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	e.node.Clicks++
	e.agent.record("click %s", e.sel)
	if e.node.OnClick != nil {
		return e.node.OnClick()
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	e.node.Value = ""
	e.agent.record("clear %s", e.sel)
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	e.node.Value += text
	e.agent.record("type %s %q", e.sel, text)
	return nil
}

func (e *element) SelectByVisibleText(ctx context.Context, text string) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	for _, n := range e.node.descendants() {
		if n.Tag == "option" && n.Text() == text {
			e.node.Value = n.Attribute("value")
			if e.node.Value == "" {
				e.node.Value = text
			}
			e.agent.record("select %s %q", e.sel, text)
			return nil
		}
	}
	return fmt.Errorf("%w: option %q in %s", webagent.ErrElementNotFound, text, e.sel)
}

func (e *element) Find(ctx context.Context, sel webagent.Selector) (webagent.Element, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	return e.agent.find(ctx, e.node, sel)
}

func (e *element) FindAll(ctx context.Context, sel webagent.Selector) ([]webagent.Element, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	return e.agent.findAll(ctx, e.node, sel)
}

var _ webagent.Element = (*element)(nil)
