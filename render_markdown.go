// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

package redfishdoc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineKind classifies one line of a schema description.
type lineKind int

const (
	// lineText is plain prose, joined and rewrapped with its paragraph.
	lineText lineKind = iota
	lineBlank
	// lineFence opens or closes a fenced code block.
	lineFence
	// lineCode is an indented code line, kept verbatim.
	lineCode
	lineList
	// lineBlock covers headings, quotes, tables and rules, kept verbatim.
	lineBlock
)

// blockPrefixes start lines that bypass paragraph wrapping.
var blockPrefixes = []string{"#", ">", "|", "---", "***", "___"}

// listItem is one parsed markdown list line.
type listItem struct {
	level   int
	ordinal string
	content string
}

// descriptionFormatter reflows Redfish description and longDescription text.
type descriptionFormatter struct {
	width  int
	marker string
}

// formatDescriptionMarkdown wraps plain paragraphs and preserves markdown structures.
func formatDescriptionMarkdown(text string, wrapWidth int, listMarker string) string {
	formatter := descriptionFormatter{width: wrapWidth, marker: normalizeListMarker(listMarker)}
	return formatter.format(text)
}

func (formatter descriptionFormatter) format(text string) string {
	text = strings.TrimSpace(normalizeLineEndings(text))
	if text == "" {
		return ""
	}

	var (
		out       []string
		paragraph []string
		inFence   bool
	)

	flush := func() {
		if len(paragraph) == 0 {
			return
		}

		out = append(out, wrapParagraph(strings.Join(paragraph, " "), formatter.width)...)
		paragraph = paragraph[:0]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		kind := classifyLine(line)
		if inFence && kind != lineFence {
			out = append(out, line)
			continue
		}

		switch kind {
		case lineText:
			paragraph = append(paragraph, strings.TrimSpace(line))
		case lineBlank:
			flush()
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
		case lineFence:
			flush()
			out = append(out, line)
			inFence = !inFence
		case lineList:
			flush()
			// Lists directly under prose need a separating blank line.
			if len(out) > 0 && classifyLine(out[len(out)-1]) == lineText {
				out = append(out, "")
			}

			item, _ := parseListItem(line)
			out = append(out, formatter.listLine(item))
		default:
			flush()
			out = append(out, line)
		}
	}

	flush()
	return strings.Join(out, "\n")
}

// listLine renders item with normalized two-space nesting and the configured bullet.
func (formatter descriptionFormatter) listLine(item listItem) string {
	marker := formatter.marker
	if item.ordinal != "" {
		marker = item.ordinal
	}

	return strings.Repeat("  ", item.level) + marker + " " + item.content
}

// classifyLine decides how a description line is treated.
func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return lineBlank
	case strings.HasPrefix(trimmed, "```"):
		return lineFence
	case strings.HasPrefix(line, "    "), strings.HasPrefix(line, "\t"):
		return lineCode
	}

	if _, ok := parseListItem(line); ok {
		return lineList
	}

	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return lineBlock
		}
	}

	return lineText
}

// parseListItem recognizes "- x", "* x", "+ x", "1. x" and "1) x" items.
func parseListItem(line string) (listItem, bool) {
	trimmed := strings.TrimSpace(line)
	item := listItem{level: listIndentLevel(leadingIndentColumns(line))}

	if len(trimmed) > 2 && strings.ContainsRune("-*+", rune(trimmed[0])) && trimmed[1] == ' ' {
		item.content = strings.TrimSpace(trimmed[2:])
		return item, true
	}

	digits := strings.IndexFunc(trimmed, func(r rune) bool { return r < '0' || r > '9' })
	if digits <= 0 || digits+1 >= len(trimmed) {
		return listItem{}, false
	}

	if (trimmed[digits] != '.' && trimmed[digits] != ')') || trimmed[digits+1] != ' ' {
		return listItem{}, false
	}

	item.ordinal = trimmed[:digits+1]
	item.content = strings.TrimSpace(trimmed[digits+2:])
	return item, true
}

// leadingIndentColumns counts leading whitespace, a tab as four columns.
func leadingIndentColumns(line string) int {
	columns := 0
	for _, r := range line {
		switch r {
		case ' ':
			columns++
		case '\t':
			columns += 4
		default:
			return columns
		}
	}

	return columns
}

// listIndentLevel treats every two columns of indentation as one nesting level.
func listIndentLevel(columns int) int {
	if columns < 2 {
		return 0
	}

	return columns / 2
}

// wrapParagraph greedily fills lines up to width runes; width <= 0 disables wrapping.
func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var (
		lines   []string
		current strings.Builder
		length  int
	)

	for _, word := range words {
		size := utf8.RuneCountInString(word)
		if length > 0 && length+1+size > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}

		if length > 0 {
			current.WriteByte(' ')
			length++
		}

		current.WriteString(word)
		length += size
	}

	return append(lines, current.String())
}

// sanitizeText collapses whitespace of single-line fields.
func sanitizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// normalizeWrapWidth falls back to defaultWrapWidth for non-positive widths.
func normalizeWrapWidth(value int) int {
	if value <= 0 {
		return defaultWrapWidth
	}

	return value
}

// normalizeListMarker accepts "*" or "-" and falls back to defaultListMarker.
func normalizeListMarker(value string) string {
	if marker := strings.TrimSpace(value); marker == "*" || marker == "-" {
		return marker
	}

	return defaultListMarker
}

func normalizeLineEndings(text string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
}

// normalizeMarkdownOutput strips trailing spaces and collapses blank runs outside fences.
func normalizeMarkdownOutput(text string) string {
	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "```"):
			inFence = !inFence
		case !inFence && trimmed == "":
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}

			line = ""
		}

		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// markdownHeadingAnchor converts heading text into a GitHub style anchor slug.
func markdownHeadingAnchor(value string) string {
	var out strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			if dash && out.Len() > 0 {
				out.WriteByte('-')
			}

			dash = false
			out.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			dash = true
		}
	}

	return out.String()
}

// escapeInline escapes backticks inside inline code spans.
func escapeInline(value string) string {
	return strings.ReplaceAll(value, "`", "\\`")
}

func ensureTrailingNewline(value string) string {
	return strings.TrimRight(value, "\n") + "\n"
}
