// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package dom is a headless retained-mode document: a tree of nodes
// with ids, classes, attributes, text, input values, and event
// handlers. It is the client's stand-in for the browser DOM — the
// application controller is constructed against a Document and never
// reaches for ambient globals, so tests and the terminal front-end
// drive the same controller through the same surface.
//
// Events dispatched on a node bubble through its ancestors and then
// to document-level handlers, which is enough for the controller's
// delegated click handling. Subtree observers fire after structural
// mutations (child list changes), mirroring a childList+subtree
// mutation observer; attribute and value changes do not fire them.
//
// All methods are safe for concurrent use. Handlers and observers run
// without the document lock held, so they may mutate the tree freely.
package dom
