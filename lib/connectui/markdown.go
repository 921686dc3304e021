// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParser is initialized once and reused. Parsing creates
// per-call state, so the shared parser is goroutine-safe.
var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParser
}

// renderMarkdown renders an event description as styled terminal
// text wrapped to width. Event descriptions are short-form markdown:
// paragraphs, emphasis, lists, links, and the occasional fenced code
// block. Soft line breaks reflow; structure is preserved.
func renderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force a color profile: this output is always for the bubbletea
	// display, so auto-detection (which sees no TTY under tests)
	// would strip all styling.
	renderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)

	mr := &markdownRenderer{
		source:   source,
		theme:    theme,
		width:    width,
		renderer: renderer,
	}
	mr.walkBlocks(document, "")
	return strings.TrimRight(mr.out.String(), "\n")
}

type markdownRenderer struct {
	source   []byte
	theme    Theme
	width    int
	renderer *lipgloss.Renderer
	out      strings.Builder
}

// walkBlocks renders a container's block children, prefixing each
// emitted line (list indentation, blockquote bars).
func (mr *markdownRenderer) walkBlocks(parent ast.Node, prefix string) {
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			style := mr.renderer.NewStyle().
				Foreground(mr.theme.HeaderForeground).
				Bold(true)
			mr.emitWrapped(style.Render(mr.inlineText(n)), prefix)
			mr.blankLine()
		case *ast.Paragraph, *ast.TextBlock:
			mr.emitWrapped(mr.inlineText(node), prefix)
			if _, ok := node.(*ast.Paragraph); ok {
				mr.blankLine()
			}
		case *ast.FencedCodeBlock:
			mr.emitCodeBlock(n, prefix)
			mr.blankLine()
		case *ast.CodeBlock:
			mr.emitRawCode(mr.blockLines(n), prefix)
			mr.blankLine()
		case *ast.List:
			mr.emitList(n, prefix)
			mr.blankLine()
		case *ast.Blockquote:
			mr.walkBlocks(n, prefix+"│ ")
			mr.blankLine()
		case *ast.ThematicBreak:
			line := strings.Repeat("─", max(1, mr.width-len(prefix)))
			mr.emitWrapped(mr.renderer.NewStyle().Foreground(mr.theme.BorderColor).Render(line), prefix)
			mr.blankLine()
		default:
			if node.Type() == ast.TypeBlock {
				mr.emitWrapped(mr.inlineText(node), prefix)
			}
		}
	}
}

func (mr *markdownRenderer) emitList(list *ast.List, prefix string) {
	index := list.Start
	if index == 0 {
		index = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "• "
		if list.IsOrdered() {
			bullet = fmt.Sprintf("%d. ", index)
			index++
		}
		var body strings.Builder
		sub := &markdownRenderer{
			source:   mr.source,
			theme:    mr.theme,
			width:    mr.width - len(prefix) - len(bullet),
			renderer: mr.renderer,
		}
		sub.walkBlocks(item, "")
		body.WriteString(strings.TrimRight(sub.out.String(), "\n"))

		indent := strings.Repeat(" ", len(bullet))
		for i, line := range strings.Split(body.String(), "\n") {
			if i == 0 {
				mr.out.WriteString(prefix + bullet + line + "\n")
			} else {
				mr.out.WriteString(prefix + indent + line + "\n")
			}
		}
	}
}

func (mr *markdownRenderer) emitCodeBlock(block *ast.FencedCodeBlock, prefix string) {
	code := mr.blockLines(block)
	language := string(block.Language(mr.source))
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai"); err == nil {
			mr.emitRawCode(strings.TrimRight(highlighted.String(), "\n"), prefix)
			return
		}
	}
	mr.emitRawCode(strings.TrimRight(code, "\n"), prefix)
}

func (mr *markdownRenderer) emitRawCode(code string, prefix string) {
	for _, line := range strings.Split(code, "\n") {
		mr.out.WriteString(prefix + "  " + ansi.Truncate(line, max(1, mr.width-len(prefix)-2), "…") + "\n")
	}
}

// blockLines concatenates a code block's raw source lines.
func (mr *markdownRenderer) blockLines(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(mr.source))
	}
	return b.String()
}

// inlineText renders a block's inline children: emphasis, code
// spans, links, with soft breaks collapsed to spaces.
func (mr *markdownRenderer) inlineText(parent ast.Node) string {
	var b strings.Builder
	mr.renderInline(parent, &b, mr.renderer.NewStyle().Foreground(mr.theme.NormalText))
	return b.String()
}

func (mr *markdownRenderer) renderInline(parent ast.Node, b *strings.Builder, style lipgloss.Style) {
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Text:
			b.WriteString(style.Render(string(n.Segment.Value(mr.source))))
			if n.SoftLineBreak() {
				b.WriteString(" ")
			}
			if n.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.CodeSpan:
			code := mr.renderer.NewStyle().
				Foreground(mr.theme.StatusWaitlisted)
			b.WriteString(code.Render(string(n.Text(mr.source))))
		case *ast.Emphasis:
			inner := style
			if n.Level >= 2 {
				inner = inner.Bold(true)
			} else {
				inner = inner.Italic(true)
			}
			mr.renderInline(n, b, inner)
		case *ast.Link:
			mr.renderInline(n, b, style)
			url := string(n.Destination)
			if url != "" {
				faint := mr.renderer.NewStyle().Foreground(mr.theme.FaintText)
				b.WriteString(faint.Render(" (" + url + ")"))
			}
		case *ast.AutoLink:
			b.WriteString(style.Render(string(n.URL(mr.source))))
		default:
			mr.renderInline(node, b, style)
		}
	}
}

func (mr *markdownRenderer) emitWrapped(content string, prefix string) {
	if content == "" {
		return
	}
	wrapped := ansi.Wordwrap(content, max(1, mr.width-len(prefix)), " ")
	for _, line := range strings.Split(wrapped, "\n") {
		mr.out.WriteString(prefix + line + "\n")
	}
}

// blankLine appends a single separating blank line, collapsing runs.
func (mr *markdownRenderer) blankLine() {
	s := mr.out.String()
	if strings.HasSuffix(s, "\n\n") || s == "" {
		return
	}
	mr.out.WriteString("\n")
}
