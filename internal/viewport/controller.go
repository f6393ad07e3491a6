// Package viewport owns the pan and zoom of the seating map surface.
package viewport

import (
	"fmt"
	"math"
	"strconv"
)

// Zoom bounds and defaults.
const (
	MinZoom     = 0.5
	MaxZoom     = 4.0
	DefaultZoom = 0.8
	ZoomStep    = 1.2
)

// Point is a position in surface pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// State is an immutable snapshot of the viewport.
type State struct {
	Zoom    float64 `json:"zoom"`
	Pan     Point   `json:"pan"`
	Panning bool    `json:"panning"`
}

// Transform renders the SVG/CSS transform: translate first, then scale,
// with the origin at the top-left corner.
func (s State) Transform() string {
	return fmt.Sprintf("translate(%s, %s) scale(%s)", num(s.Pan.X), num(s.Pan.Y), num(s.Zoom))
}

// Animated reports whether transform changes should transition smoothly.
// Dragging is never animated.
func (s State) Animated() bool { return !s.Panning }

// ToMap converts a surface point into map coordinates by undoing the
// transform.
func (s State) ToMap(p Point) Point {
	return Point{X: (p.X - s.Pan.X) / s.Zoom, Y: (p.Y - s.Pan.Y) / s.Zoom}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Controller translates pointer, wheel and button input into viewport
// state.  Like the selection store it assumes a single thread of control.
type Controller struct {
	zoom float64
	pan  Point

	panning bool
	anchor  Point
	cancel  func()

	bus  *PointerBus
	subs map[int]func(State)
	next int
}

// New returns a controller at the default zoom.  Pan gestures register
// their move/up listeners on bus.
func New(bus *PointerBus) *Controller {
	if bus == nil {
		bus = NewPointerBus()
	}
	return &Controller{
		zoom: DefaultZoom,
		bus:  bus,
		subs: make(map[int]func(State)),
	}
}

// Bus returns the pointer bus gestures listen on.
func (c *Controller) Bus() *PointerBus { return c.bus }

// State returns the current snapshot.
func (c *Controller) State() State {
	return State{Zoom: c.zoom, Pan: c.pan, Panning: c.panning}
}

// Subscribe registers fn to receive the state after every change.
func (c *Controller) Subscribe(fn func(State)) func() {
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Controller) notify() {
	st := c.State()
	for _, fn := range c.subs {
		fn(st)
	}
}

func clampZoom(z float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

func (c *Controller) setZoom(z float64) {
	z = clampZoom(z)
	if z == c.zoom {
		return
	}
	c.zoom = z
	c.notify()
}

// ZoomIn multiplies the zoom by ZoomStep.
func (c *Controller) ZoomIn() { c.setZoom(c.zoom * ZoomStep) }

// ZoomOut divides the zoom by ZoomStep.
func (c *Controller) ZoomOut() { c.setZoom(c.zoom / ZoomStep) }

// Wheel zooms only while the zoom modifier is held so ordinary scrolling
// never zooms.  Scrolling up (negative deltaY) zooms in.
func (c *Controller) Wheel(deltaY float64, modifierHeld bool) {
	if !modifierHeld || deltaY == 0 {
		return
	}
	if deltaY < 0 {
		c.ZoomIn()
	} else {
		c.ZoomOut()
	}
}

// BeginPan starts a drag unless the pointer went down on a seat; seats take
// precedence over panning.  It reports whether a gesture started.
func (c *Controller) BeginPan(start Point, onSeat bool) bool {
	if onSeat {
		return false
	}
	if c.panning {
		c.EndPan()
	}
	c.panning = true
	c.anchor = start.Sub(c.pan)
	c.cancel = c.bus.Listen(c.ContinuePan, c.EndPan)
	c.notify()
	return true
}

// ContinuePan moves the map so the point grabbed at BeginPan stays under
// the pointer.  Outside a gesture it does nothing.
func (c *Controller) ContinuePan(current Point) {
	if !c.panning {
		return
	}
	c.pan = current.Sub(c.anchor)
	c.notify()
}

// EndPan terminates the gesture and drops its pointer listeners.
func (c *Controller) EndPan() {
	if !c.panning {
		return
	}
	c.panning = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.notify()
}

// Reset restores the default zoom and a zero pan.  An active drag is
// ended first.
func (c *Controller) Reset() {
	c.EndPan()
	c.zoom = DefaultZoom
	c.pan = Point{}
	c.notify()
}
