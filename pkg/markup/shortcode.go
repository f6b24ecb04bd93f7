package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	shortcodeRe = regexp.MustCompile(`(?s)\[code([^\]]*)\](.*?)\[/code\]|\[caption([^\]]*)\](.*?)\[/caption\]`)
	attributeRe = regexp.MustCompile(`([a-zA-Z_]+)\s*=\s*"([^"]*)"`)
	figureRe    = regexp.MustCompile(`(?s)^\s*(<a\b[^>]*>.*?</a>|<img\b[^>]*>)\s*(.*?)\s*$`)
)

// Convert rewrites the WordPress [caption] and [code] shortcodes found in
// content into HTML. Spans that do not have the expected shape are kept as
// they are. Shortcodes nested in a [code] block are escaped with it.
func Convert(content string) string {
	if !strings.Contains(content, "[") {
		return content
	}

	matches := shortcodeRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var out strings.Builder
	last := 0

	for _, m := range matches {
		out.WriteString(content[last:m[0]])

		span := content[m[0]:m[1]]

		if m[2] >= 0 {
			out.WriteString(convertCode(content[m[2]:m[3]], content[m[4]:m[5]]))
		} else if caption, ok := convertCaption(content[m[6]:m[7]], content[m[8]:m[9]]); ok {
			out.WriteString(caption)
		} else {
			out.WriteString(span)
		}

		last = m[1]
	}

	out.WriteString(content[last:])

	return out.String()
}

func convertCode(rawAttrs, inner string) string {
	attrs := parseAttributes(rawAttrs)

	language := attrs["language"]
	if language == "" {
		language = attrs["lang"]
	}

	inner = strings.TrimPrefix(inner, "\r")
	inner = strings.TrimPrefix(inner, "\n")

	open := "<pre><code>"
	if language != "" {
		open = `<pre><code class="language-` + html.EscapeString(language) + `">`
	}

	return open + html.EscapeString(inner) + "</code></pre>"
}

// convertCaption handles both caption layouts: the text either follows the
// inner anchor or sits in a caption="..." attribute.
func convertCaption(rawAttrs, inner string) (string, bool) {
	parts := figureRe.FindStringSubmatch(inner)
	if parts == nil {
		return "", false
	}

	attrs := parseAttributes(rawAttrs)

	text := strings.TrimSpace(parts[2])
	if text == "" {
		text = strings.TrimSpace(attrs["caption"])
	}

	if text == "" {
		return "", false
	}

	class := "wp-caption"
	if align := attrs["align"]; align != "" {
		class += " " + html.EscapeString(align)
	}

	var out strings.Builder

	out.WriteString(`<div`)

	if id := attrs["id"]; id != "" {
		out.WriteString(` id="` + html.EscapeString(id) + `"`)
	}

	out.WriteString(` class="` + class + `"`)

	if width := attrs["width"]; width != "" {
		out.WriteString(` style="width: ` + html.EscapeString(width) + `px"`)
	}

	out.WriteString(`>`)
	out.WriteString(parts[1])
	out.WriteString(`<p class="wp-caption-text">` + text + `</p></div>`)

	return out.String(), true
}

func parseAttributes(raw string) map[string]string {
	attrs := map[string]string{}

	for _, pair := range attributeRe.FindAllStringSubmatch(raw, -1) {
		attrs[strings.ToLower(pair[1])] = pair[2]
	}

	return attrs
}
