package markup

import "testing"

func TestConvertCaptionWithTrailingText(t *testing.T) {
	in := `Intro [caption id="attachment_7" align="alignleft" width="300"]<a href="/a.jpg"><img src="/a.jpg" /></a> A harbour view[/caption] outro`

	want := `Intro <div id="attachment_7" class="wp-caption alignleft" style="width: 300px"><a href="/a.jpg"><img src="/a.jpg" /></a><p class="wp-caption-text">A harbour view</p></div> outro`

	if got := Convert(in); got != want {
		t.Fatalf("unexpected output\n got: %s\nwant: %s", got, want)
	}
}

func TestConvertCaptionWithAttribute(t *testing.T) {
	in := `[caption align="aligncenter" caption="Sunset"]<a href="/b.jpg"><img src="/b.jpg"/></a>[/caption]`

	want := `<div class="wp-caption aligncenter"><a href="/b.jpg"><img src="/b.jpg"/></a><p class="wp-caption-text">Sunset</p></div>`

	if got := Convert(in); got != want {
		t.Fatalf("unexpected output\n got: %s\nwant: %s", got, want)
	}
}

func TestConvertLeavesMalformedSpans(t *testing.T) {
	cases := []string{
		`[caption]just text[/caption]`,
		`[caption width="10"]<a href="/x">x</a>[/caption]`,
		`[caption]<a href="/x">never closed`,
		`[code]never closed`,
		`an [ordinary] bracket`,
		``,
	}

	for _, in := range cases {
		if got := Convert(in); got != in {
			t.Fatalf("expected %q untouched, got %q", in, got)
		}
	}
}

func TestConvertCodeEscapesMultiline(t *testing.T) {
	in := "before\n[code language=\"go\"]\nif a < b && c > d {\n\treturn \"x\"\n}\n[/code]\nafter"

	want := "before\n<pre><code class=\"language-go\">if a &lt; b &amp;&amp; c &gt; d {\n\treturn &#34;x&#34;\n}\n</code></pre>\nafter"

	if got := Convert(in); got != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", got, want)
	}
}

func TestConvertCodeSwallowsNestedShortcodes(t *testing.T) {
	in := `[code][caption caption="x"]<a href="/">y</a>[/caption][/code]`

	want := `<pre><code>[caption caption=&#34;x&#34;]&lt;a href=&#34;/&#34;&gt;y&lt;/a&gt;[/caption]</code></pre>`

	if got := Convert(in); got != want {
		t.Fatalf("unexpected output\n got: %s\nwant: %s", got, want)
	}
}

func TestConvertHandlesSeveralSpans(t *testing.T) {
	in := `[code]a<b[/code] and [code]c>d[/code]`

	want := `<pre><code>a&lt;b</code></pre> and <pre><code>c&gt;d</code></pre>`

	if got := Convert(in); got != want {
		t.Fatalf("unexpected output %s", got)
	}
}
