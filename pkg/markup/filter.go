package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContentFilter drops blank lines and wraps every other line in a paragraph
// unless it is a tag line (starts with '<' and ends with '>'). Tag lines open
// and close <pre> blocks; text inside one is kept as is.
func ContentFilter(content string) string {
	content = strings.ReplaceAll(strings.TrimSpace(content), "\r\n", "\n")
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	depth := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case isTagLine(line):
			out = append(out, line)
			depth = preDepth(line, depth)
		case depth > 0:
			out = append(out, line)
		default:
			out = append(out, "<p>"+trimmed+"</p>")
		}
	}

	return strings.Join(out, "\n")
}

func isTagLine(line string) bool {
	return strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">")
}

func preDepth(line string, depth int) int {
	if !strings.Contains(strings.ToLower(line), "pre") {
		return depth
	}

	tokenizer := html.NewTokenizer(strings.NewReader(line))

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return depth
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); atom.Lookup(name) == atom.Pre {
				depth++
			}
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); atom.Lookup(name) == atom.Pre && depth > 0 {
				depth--
			}
		}
	}
}
