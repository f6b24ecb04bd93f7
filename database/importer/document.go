package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

const (
	PostTypePost       = "post"
	PostTypeAttachment = "attachment"

	domainTag      = "post_tag"
	domainCategory = "category"
)

// Document is a WordPress eXtended RSS export. Elements are matched by local
// name, so every WXR version (1.0 to 1.2) decodes into the same shape.
type Document struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title      string        `xml:"title"`
	Link       string        `xml:"link"`
	Authors    []WXRAuthor   `xml:"author"`
	Categories []WXRCategory `xml:"category"`
	Tags       []WXRTag      `xml:"tag"`
	Items      []Item        `xml:"item"`
}

type WXRAuthor struct {
	Login       string `xml:"author_login"`
	Email       string `xml:"author_email"`
	DisplayName string `xml:"author_display_name"`
	FirstName   string `xml:"author_first_name"`
	LastName    string `xml:"author_last_name"`
}

type WXRCategory struct {
	Nicename string `xml:"category_nicename"`
	Name     string `xml:"cat_name"`
	Parent   string `xml:"category_parent"`
}

type WXRTag struct {
	Slug string `xml:"tag_slug"`
	Name string `xml:"tag_name"`
}

type Item struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	PubDate       string     `xml:"pubDate"`
	Creator       string     `xml:"creator"`
	Encoded       []Encoded  `xml:"encoded"`
	PostID        string     `xml:"post_id"`
	PostDate      string     `xml:"post_date"`
	PostName      string     `xml:"post_name"`
	Status        string     `xml:"status"`
	PostType      string     `xml:"post_type"`
	AttachmentURL string     `xml:"attachment_url"`
	Terms         []ItemTerm `xml:"category"`
}

// Encoded holds either content:encoded or excerpt:encoded; both share the
// local name and differ by namespace.
type Encoded struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type ItemTerm struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Value    string `xml:",chardata"`
}

func Load(r io.Reader) (*Document, error) {
	var doc Document

	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode wxr document: %w", err)
	}

	return &doc, nil
}

func LoadFile(path string) (*Document, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wxr file: %w", err)
	}
	defer fh.Close()

	return Load(fh)
}

func (d *Document) ItemsOfType(postType string) []Item {
	var items []Item

	for _, item := range d.Channel.Items {
		if strings.TrimSpace(item.PostType) == postType {
			items = append(items, item)
		}
	}

	return items
}

func (i Item) Content() string {
	for _, enc := range i.Encoded {
		if !isExcerpt(enc.XMLName) {
			return html.UnescapeString(enc.Value)
		}
	}

	return ""
}

func (i Item) Excerpt() string {
	for _, enc := range i.Encoded {
		if isExcerpt(enc.XMLName) {
			return html.UnescapeString(enc.Value)
		}
	}

	return ""
}

func (i Item) TermNicenames(domain string) []string {
	var out []string

	for _, term := range i.Terms {
		if term.Domain == domain && strings.TrimSpace(term.Nicename) != "" {
			out = append(out, strings.TrimSpace(term.Nicename))
		}
	}

	return out
}

func isExcerpt(name xml.Name) bool {
	return strings.Contains(name.Space, "/excerpt")
}
