package world

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
)

// ContactEvent describes a shape pair that started or stopped touching.
// Contacts is empty for sensors, end events and pairs without collision
// response. Contacts is reused between events and is only valid inside the
// callback.
type ContactEvent struct {
	BodyA, BodyB   *body.Body
	ShapeA, ShapeB shape.Shape
	Contacts       []*equation.Contact
}

// ImpactEvent fires once per new touching shape pair that has equations.
// The contact is only valid inside the callback.
type ImpactEvent struct {
	BodyA, BodyB   *body.Body
	ShapeA, ShapeB shape.Shape
	Contact        *equation.Contact
}

// listeners holds the registered callbacks. They are called synchronously
// in registration order.
type listeners struct {
	bodyAdded         []func(*body.Body)
	bodyRemoved       []func(*body.Body)
	constraintAdded   []func(constraint.Constraint)
	constraintRemoved []func(constraint.Constraint)
	springAdded       []func(spring.Spring)
	springRemoved     []func(spring.Spring)
	beginContact      []func(ContactEvent)
	endContact        []func(ContactEvent)
	impact            []func(ImpactEvent)
	sleep             []func(*body.Body)
	wake              []func(*body.Body)
	postStep          []func(*World)
}

func (w *World) OnBodyAdded(fn func(*body.Body))   { w.on.bodyAdded = append(w.on.bodyAdded, fn) }
func (w *World) OnBodyRemoved(fn func(*body.Body)) { w.on.bodyRemoved = append(w.on.bodyRemoved, fn) }

func (w *World) OnConstraintAdded(fn func(constraint.Constraint)) {
	w.on.constraintAdded = append(w.on.constraintAdded, fn)
}

func (w *World) OnConstraintRemoved(fn func(constraint.Constraint)) {
	w.on.constraintRemoved = append(w.on.constraintRemoved, fn)
}

func (w *World) OnSpringAdded(fn func(spring.Spring))   { w.on.springAdded = append(w.on.springAdded, fn) }
func (w *World) OnSpringRemoved(fn func(spring.Spring)) { w.on.springRemoved = append(w.on.springRemoved, fn) }

func (w *World) OnBeginContact(fn func(ContactEvent)) { w.on.beginContact = append(w.on.beginContact, fn) }
func (w *World) OnEndContact(fn func(ContactEvent))   { w.on.endContact = append(w.on.endContact, fn) }
func (w *World) OnImpact(fn func(ImpactEvent))        { w.on.impact = append(w.on.impact, fn) }

// OnSleep fires when a body falls asleep, OnWake when it wakes up.
func (w *World) OnSleep(fn func(*body.Body)) { w.on.sleep = append(w.on.sleep, fn) }
func (w *World) OnWake(fn func(*body.Body))  { w.on.wake = append(w.on.wake, fn) }

// OnPostStep fires after every internal step, before deferred removals.
func (w *World) OnPostStep(fn func(*World)) { w.on.postStep = append(w.on.postStep, fn) }

func emit[T any](fns []func(T), v T) {
	for _, fn := range fns {
		fn(v)
	}
}
