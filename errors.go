package tabular

import (
	"github.com/rotisserie/eris"

	"github.com/tabular-ecs/tabular/filter"
)

var (
	// ErrEntityDoesNotExist is returned when an operation is given an
	// entity id that is not valid: either never issued or already
	// destroyed.
	ErrEntityDoesNotExist = eris.New("entity does not exist")

	// ErrComponentAlreadyOnEntity is returned by Assign when the entity
	// already holds the component; assigning over a live value is never
	// allowed.
	ErrComponentAlreadyOnEntity = eris.New("component already on entity")

	// ErrComponentNotOnEntity is returned by Get and Remove for a
	// component the entity does not currently hold.
	ErrComponentNotOnEntity = eris.New("component not on entity")

	// ErrComponentNotRegistered is returned when a component id names no
	// column managed by the World.
	ErrComponentNotRegistered = eris.New("must register component")

	// ErrDuplicateComponents is returned when a multi-component operation
	// lists the same component type twice.
	ErrDuplicateComponents = filter.ErrDuplicateComponents

	// ErrNoComponents is returned when an operation that needs at least
	// one component type is given none.
	ErrNoComponents = eris.New("at least one component type is required")

	// ErrComponentNotInView is returned when a view accessor requests a
	// component type outside the view's bound set.
	ErrComponentNotInView = eris.New("component not part of view")

	// ErrNoMatch is returned by View.First when the view is empty.
	ErrNoMatch = eris.New("no entity matches the view")
)
