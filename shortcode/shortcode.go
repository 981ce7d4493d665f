// Package shortcode finds [flickr] embed directives in document text.
//
// Three forms are recognised:
//
//	[flickr photo="123" w="500"]
//	[flickr photo="123" /]
//	[flickr photo="123"]caption[/flickr]
//
// A directive wrapped in an extra pair of brackets, [[flickr photo="123"]], is escaped
// and left as literal text.
package shortcode

import (
	"regexp"
	"strconv"
	"strings"
)

const Tag = "flickr"

var openTag = regexp.MustCompile(`(?s)\[` + Tag + `\b(.*?)(/)?\]`)

const closeTag = "[/" + Tag + "]"

// Attrs are the attributes of one directive. Positional values are keyed "0", "1", ...
type Attrs map[string]string

// Photo is the trimmed photo id.
func (a Attrs) Photo() string {
	return strings.TrimSpace(a["photo"])
}

// Width is the requested width, or 0 when absent or not a number.
func (a Attrs) Width() int {
	return absint(a["w"])
}

// Content is the text enclosed by an opening and closing tag.
func (a Attrs) Content() string {
	return a[contentKey]
}

// contentKey cannot collide with a parsed attribute name.
const contentKey = "#content"

type directive struct {
	start, end int
	attrs      Attrs
	escaped    bool
}

// Scan returns the attributes of every directive in content, in document order.
func Scan(content string) []Attrs {
	var out []Attrs
	for _, d := range scan(content) {
		if !d.escaped {
			out = append(out, d.attrs)
		}
	}
	return out
}

// Replace substitutes every directive with the output of fn. Escaped directives lose
// their extra brackets.
func Replace(content string, fn func(Attrs) string) string {
	directives := scan(content)
	if len(directives) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, d := range directives {
		if d.escaped {
			b.WriteString(content[last : d.start-1])
			b.WriteString(content[d.start:d.end])
			last = d.end + 1
			continue
		}
		b.WriteString(content[last:d.start])
		b.WriteString(fn(d.attrs))
		last = d.end
	}
	b.WriteString(content[last:])
	return b.String()
}

func scan(content string) []directive {
	var out []directive
	offset := 0
	for offset < len(content) {
		loc := openTag.FindStringSubmatchIndex(content[offset:])
		if loc == nil {
			break
		}

		d := directive{
			start: offset + loc[0],
			end:   offset + loc[1],
			attrs: ParseAttrs(content[offset+loc[2] : offset+loc[3]]),
		}

		selfClosing := loc[4] >= 0
		if !selfClosing {
			rest := content[d.end:]
			if ci := strings.Index(rest, closeTag); ci >= 0 {
				// an enclosing form never spans another opening tag
				if next := openTag.FindStringIndex(rest); next == nil || next[0] > ci {
					d.attrs[contentKey] = rest[:ci]
					d.end += ci + len(closeTag)
				}
			}
		}

		if d.start > 0 && content[d.start-1] == '[' && d.end < len(content) && content[d.end] == ']' {
			d.escaped = true
		}

		out = append(out, d)
		offset = d.end
	}
	return out
}

var attrPattern = regexp.MustCompile(
	`([\w-]+)\s*=\s*"([^"]*)"(?:\s|$)` +
		`|([\w-]+)\s*=\s*'([^']*)'(?:\s|$)` +
		`|([\w-]+)\s*=\s*([^\s'"]+)(?:\s|$)` +
		`|"([^"]*)"(?:\s|$)` +
		`|'([^']*)'(?:\s|$)` +
		`|(\S+)(?:\s|$)`)

var oddSpaces = regexp.MustCompile(`[\x{00a0}\x{200b}]+`)

// ParseAttrs parses name="value", name='value', name=value and bare positional values.
// Names are lower-cased.
func ParseAttrs(text string) Attrs {
	attrs := make(Attrs)
	text = oddSpaces.ReplaceAllString(text, " ")

	pos := 0
	for _, m := range attrPattern.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] != "":
			attrs[strings.ToLower(m[1])] = m[2]
		case m[3] != "":
			attrs[strings.ToLower(m[3])] = m[4]
		case m[5] != "":
			attrs[strings.ToLower(m[5])] = m[6]
		case strings.HasPrefix(m[0], `"`):
			attrs[strconv.Itoa(pos)] = m[7]
			pos++
		case strings.HasPrefix(m[0], "'"):
			attrs[strconv.Itoa(pos)] = m[8]
			pos++
		default:
			attrs[strconv.Itoa(pos)] = m[9]
			pos++
		}
	}
	return attrs
}

// absint reads the leading integer of s the way loose numeric casts do, so "400px" is
// 400, and drops the sign.
func absint(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if n < 0 {
		return -n
	}
	return n
}
