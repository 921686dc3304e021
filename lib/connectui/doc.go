// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

// Package connectui is the terminal front-end for the ICS Connect
// client. It hosts the application controller's document in a
// bubbletea program: the document tree is the single source of truth,
// the model renders it into panes (search, results, detail, RSVP,
// sign-in), and key input is translated into document events the
// controller already handles. A document mutation observer triggers
// repaints, so controller flows and the view never talk directly.
package connectui
