package providers

import (
	"fmt"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/elements"
)

// Renderers consume diff components and gatherer-shaped full components;
// these accessors assert the element shapes a provider declared in Empty().

func setDiffOf(c *components.Component, name string) (elements.SetDiff, error) {
	e, ok := c.Elements[name].(elements.SetDiff)
	if !ok {
		return elements.SetDiff{}, shapeError(c, name, "set diff", c.Elements[name])
	}
	return e, nil
}

func mapDiffOf(c *components.Component, name string) (elements.MapDiff, error) {
	e, ok := c.Elements[name].(elements.MapDiff)
	if !ok {
		return elements.MapDiff{}, shapeError(c, name, "map diff", c.Elements[name])
	}
	return e, nil
}

func listDiffOf(c *components.Component, name string) (elements.ListDiff, error) {
	e, ok := c.Elements[name].(elements.ListDiff)
	if !ok {
		return elements.ListDiff{}, shapeError(c, name, "list diff", c.Elements[name])
	}
	return e, nil
}

func atomDiffOf(c *components.Component, name string) (string, error) {
	e, ok := c.Elements[name].(elements.AtomDiff)
	if !ok {
		return "", shapeError(c, name, "atom diff", c.Elements[name])
	}
	return e.Value(), nil
}

func shapeError(c *components.Component, name, want string, got elements.Element) error {
	if got == nil {
		return fmt.Errorf("%w: component %s has no element %q", elements.ErrTypeMismatch, c.Key(), name)
	}
	return fmt.Errorf("%w: component %s element %q is not a %s", elements.ErrTypeMismatch, c.Key(), name, want)
}
