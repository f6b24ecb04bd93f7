package markup

import "testing"

func TestContentFilter(t *testing.T) {
	in := "\n  First paragraph\n\n<h2>Heading</h2>\nSecond one\n<pre>\nraw line\n\n  indented\n</pre>\nlast\n\n"

	want := "<p>First paragraph</p>\n<h2>Heading</h2>\n<p>Second one</p>\n<pre>\nraw line\n  indented\n</pre>\n<p>last</p>"

	if got := ContentFilter(in); got != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", got, want)
	}
}

func TestContentFilterWrapsLinesThatOnlyOpenWithATag(t *testing.T) {
	cases := map[string]string{
		"<em>x</em> more text":  "<p><em>x</em> more text</p>",
		"text then <br>":        "<p>text then <br></p>",
		"<img src=\"a.png\">":   "<img src=\"a.png\">",
		"<div>\ninside\n</div>": "<div>\n<p>inside</p>\n</div>",
	}

	for in, want := range cases {
		if got := ContentFilter(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestContentFilterSingleLinePre(t *testing.T) {
	in := "<pre>x</pre>\nafter"

	if got := ContentFilter(in); got != "<pre>x</pre>\n<p>after</p>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestContentFilterNormalisesLineEndings(t *testing.T) {
	if got := ContentFilter("a\r\n\r\nb"); got != "<p>a</p>\n<p>b</p>" {
		t.Fatalf("unexpected output %q", got)
	}
}
