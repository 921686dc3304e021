// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package dom

import (
	"sort"
	"strings"
	"sync"
)

// EventType names a class of user interaction.
type EventType string

const (
	Click  EventType = "click"
	Submit EventType = "submit"
	Change EventType = "change"
	Input  EventType = "input"
)

// Event carries a dispatched interaction. Target is the node the
// event originated on, regardless of which handler observes it.
type Event struct {
	Type   EventType
	Target *Node
}

// Handler reacts to an event. Handlers run outside the document lock.
type Handler func(*Event)

// Document owns a node tree rooted at Body.
type Document struct {
	mu        sync.Mutex
	body      *Node
	handlers  map[EventType][]Handler
	observers []func()

	// OnScrollIntoView, when non-nil, is invoked whenever a node
	// requests to be scrolled into view. The terminal front-end uses
	// it to move the viewport; tests use it to assert scroll intent.
	OnScrollIntoView func(*Node)
}

// NewDocument returns a document with an empty body element.
func NewDocument() *Document {
	doc := &Document{handlers: make(map[EventType][]Handler)}
	doc.body = &Node{doc: doc, tag: "body"}
	return doc
}

// Body returns the document's root element.
func (doc *Document) Body() *Node {
	return doc.body
}

// CreateElement returns a detached element owned by this document.
func (doc *Document) CreateElement(tag string) *Node {
	return &Node{doc: doc, tag: strings.ToLower(tag)}
}

// ElementByID returns the first node in the document with the given
// id, or nil.
func (doc *Document) ElementByID(id string) *Node {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.body.find(func(n *Node) bool { return n.id == id })
}

// Query returns the first node in the document matching the selector,
// or nil.
func (doc *Document) Query(selector string) *Node {
	return doc.body.Query(selector)
}

// QueryAll returns every node in the document matching the selector,
// in tree order.
func (doc *Document) QueryAll(selector string) []*Node {
	return doc.body.QueryAll(selector)
}

// On registers a document-level handler: it observes every event of
// the given type dispatched anywhere in the tree, after any node and
// ancestor handlers have run.
func (doc *Document) On(typ EventType, h Handler) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.handlers[typ] = append(doc.handlers[typ], h)
}

// Observe registers a callback fired after any structural mutation
// (child list change) anywhere in the document.
func (doc *Document) Observe(fn func()) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.observers = append(doc.observers, fn)
}

func (doc *Document) notifyMutation() {
	doc.mu.Lock()
	obs := make([]func(), len(doc.observers))
	copy(obs, doc.observers)
	doc.mu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

// Dispatch delivers an event to its target's handlers, then to each
// ancestor's handlers up to the body, then to document-level
// handlers. Handlers registered for other event types do not run.
// Click events targeting a disabled control, or any node inside one,
// are dropped without running any handler.
func (doc *Document) Dispatch(ev *Event) {
	if ev == nil || ev.Target == nil {
		return
	}
	doc.mu.Lock()
	// Clicks on a disabled control (or anything inside one) are
	// suppressed entirely, matching browser form-control semantics.
	if ev.Type == Click {
		for n := ev.Target; n != nil; n = n.parent {
			if n.disabled {
				doc.mu.Unlock()
				return
			}
		}
	}
	var chain []Handler
	for n := ev.Target; n != nil; n = n.parent {
		chain = append(chain, n.handlers[ev.Type]...)
	}
	chain = append(chain, doc.handlers[ev.Type]...)
	doc.mu.Unlock()
	for _, h := range chain {
		h(ev)
	}
}

// Click dispatches a click event targeting the node.
func (doc *Document) Click(target *Node) {
	doc.Dispatch(&Event{Type: Click, Target: target})
}

// Node is a single element in a document tree.
type Node struct {
	doc      *Document
	tag      string
	id       string
	classes  map[string]struct{}
	attrs    map[string]string
	text     string
	value    string
	disabled bool
	parent   *Node
	children []*Node
	handlers map[EventType][]Handler
}

// Document returns the owning document.
func (n *Node) Document() *Document {
	return n.doc
}

// Tag returns the element's tag name, lowercased.
func (n *Node) Tag() string {
	return n.tag
}

// SetID sets the element's id.
func (n *Node) SetID(id string) *Node {
	n.doc.mu.Lock()
	n.id = id
	n.doc.mu.Unlock()
	return n
}

// ID returns the element's id.
func (n *Node) ID() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.id
}

// SetText replaces the element's content with text, detaching any
// children (textContent semantics). Detaching children fires the
// document's mutation observers.
func (n *Node) SetText(text string) {
	n.doc.mu.Lock()
	n.text = text
	cleared := len(n.children) > 0
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.doc.mu.Unlock()
	if cleared {
		n.doc.notifyMutation()
	}
}

// Text returns the element's own text content. It does not descend
// into children.
func (n *Node) Text() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.text
}

// SetValue sets the element's input value.
func (n *Node) SetValue(value string) {
	n.doc.mu.Lock()
	n.value = value
	n.doc.mu.Unlock()
}

// Value returns the element's input value.
func (n *Node) Value() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.value
}

// SetDisabled sets the element's disabled state.
func (n *Node) SetDisabled(disabled bool) {
	n.doc.mu.Lock()
	n.disabled = disabled
	n.doc.mu.Unlock()
}

// Disabled reports whether the element is disabled.
func (n *Node) Disabled() bool {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.disabled
}

// AddClass adds a class to the element's class list.
func (n *Node) AddClass(class string) {
	n.doc.mu.Lock()
	if n.classes == nil {
		n.classes = make(map[string]struct{})
	}
	n.classes[class] = struct{}{}
	n.doc.mu.Unlock()
}

// RemoveClass removes a class from the element's class list.
func (n *Node) RemoveClass(class string) {
	n.doc.mu.Lock()
	delete(n.classes, class)
	n.doc.mu.Unlock()
}

// HasClass reports whether the element carries the class.
func (n *Node) HasClass(class string) bool {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	_, ok := n.classes[class]
	return ok
}

// Classes returns the element's classes in sorted order.
func (n *Node) Classes() []string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	out := make([]string, 0, len(n.classes))
	for c := range n.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SetAttr sets an attribute on the element.
func (n *Node) SetAttr(name, value string) {
	n.doc.mu.Lock()
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	n.doc.mu.Unlock()
}

// Attr returns an attribute's value and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	v, ok := n.attrs[name]
	return v, ok
}

// RemoveAttr removes an attribute from the element.
func (n *Node) RemoveAttr(name string) {
	n.doc.mu.Lock()
	delete(n.attrs, name)
	n.doc.mu.Unlock()
}

// AppendChild attaches a child, detaching it from any previous parent
// first. Appending fires the document's mutation observers.
func (n *Node) AppendChild(child *Node) {
	n.doc.mu.Lock()
	if child.parent != nil {
		child.parent.removeChildLocked(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	n.doc.mu.Unlock()
	n.doc.notifyMutation()
}

// Remove detaches the element from its parent. Removing fires the
// document's mutation observers.
func (n *Node) Remove() {
	n.doc.mu.Lock()
	detached := n.parent != nil
	if detached {
		n.parent.removeChildLocked(n)
		n.parent = nil
	}
	n.doc.mu.Unlock()
	if detached {
		n.doc.notifyMutation()
	}
}

// RemoveChildren detaches every child of the element. Clearing fires
// the document's mutation observers once.
func (n *Node) RemoveChildren() {
	n.doc.mu.Lock()
	cleared := len(n.children) > 0
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.doc.mu.Unlock()
	if cleared {
		n.doc.notifyMutation()
	}
}

func (n *Node) removeChildLocked(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Parent returns the element's parent, or nil.
func (n *Node) Parent() *Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.parent
}

// Children returns a copy of the element's child list.
func (n *Node) Children() []*Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// On registers a handler on this element for the given event type.
func (n *Node) On(typ EventType, h Handler) {
	n.doc.mu.Lock()
	if n.handlers == nil {
		n.handlers = make(map[EventType][]Handler)
	}
	n.handlers[typ] = append(n.handlers[typ], h)
	n.doc.mu.Unlock()
}

// Query returns the first descendant matching the selector, or nil.
// The element itself is not considered.
func (n *Node) Query(selector string) *Node {
	sels, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var found *Node
	for _, c := range n.children {
		if found = c.find(func(m *Node) bool { return sels.matches(m) }); found != nil {
			break
		}
	}
	return found
}

// QueryAll returns every descendant matching the selector, in tree
// order.
func (n *Node) QueryAll(selector string) []*Node {
	sels, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var out []*Node
	for _, c := range n.children {
		c.walk(func(m *Node) {
			if sels.matches(m) {
				out = append(out, m)
			}
		})
	}
	return out
}

// Closest returns the nearest element, starting from this one and
// walking up through ancestors, that matches the selector. Nil when
// no ancestor matches.
func (n *Node) Closest(selector string) *Node {
	sels, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for m := n; m != nil; m = m.parent {
		if sels.matches(m) {
			return m
		}
	}
	return nil
}

// ScrollIntoView requests the element be brought into view. The
// request is forwarded to the document's OnScrollIntoView hook.
func (n *Node) ScrollIntoView() {
	n.doc.mu.Lock()
	hook := n.doc.OnScrollIntoView
	n.doc.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

// find returns the first node in this subtree, in tree order, for
// which pred is true. Callers must hold the document lock.
func (n *Node) find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.find(pred); found != nil {
			return found
		}
	}
	return nil
}

// walk visits every node in this subtree in tree order. Callers must
// hold the document lock.
func (n *Node) walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.children {
		c.walk(visit)
	}
}
