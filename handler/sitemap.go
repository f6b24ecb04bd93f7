package handler

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/inkpress/database/repository"
	"github.com/inkpress/handler/payload"
	"github.com/inkpress/pkg/endpoint"
)

const sitemapMaxAge = 3600

// listingLastMod is how far back the listing pages claim their last change.
const listingLastMod = 10 * 24 * time.Hour

var sitemapSections = []string{"posts", "categories", "tags"}

type SitemapHandler struct {
	Posts   *repository.Posts
	BaseURL string
	Clock   func() time.Time
}

func NewSitemapHandler(posts *repository.Posts, baseURL string) SitemapHandler {
	return SitemapHandler{
		Posts:   posts,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Clock:   time.Now,
	}
}

// Handle lists, for every subsite holding posts, its listing pages followed by
// each published post. The ETag rolls over every hour.
func (h SitemapHandler) Handle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	salt := "sitemap-" + h.now().UTC().Format("2006010215")
	resp := endpoint.NewResponseWithCache(salt, sitemapMaxAge, w, r)

	if resp.HasCache() {
		resp.RespondWithNotModified()

		return nil
	}

	set, err := h.build()
	if err != nil {
		return endpoint.ServerError("could not build the sitemap", err)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return endpoint.ServerError("could not encode the sitemap", err)
	}

	if err := resp.RespondXML(append([]byte(xml.Header), body...)); err != nil {
		return endpoint.ServerError("could not write the sitemap", err)
	}

	return nil
}

func (h SitemapHandler) build() (payload.SitemapURLSet, error) {
	set := payload.SitemapURLSet{Xmlns: payload.SitemapNamespace}

	subsites, err := h.Posts.Subsites()
	if err != nil {
		return set, err
	}

	listed := h.now().Add(-listingLastMod).UTC().Format(time.RFC3339)

	for _, subsite := range subsites {
		for _, section := range sitemapSections {
			set.URLs = append(set.URLs, payload.SitemapURL{
				Loc:     h.BaseURL + listingPath(subsite, section),
				LastMod: listed,
			})
		}

		posts, err := h.Posts.AllPublished(subsite)
		if err != nil {
			return set, err
		}

		for _, post := range posts {
			entry := payload.SitemapURL{Loc: h.BaseURL + listingPath(subsite, "posts") + "/" + post.Nicename}

			switch {
			case post.DateUpdated != nil:
				entry.LastMod = post.DateUpdated.UTC().Format(time.RFC3339)
			case post.DatePublished != nil:
				entry.LastMod = post.DatePublished.UTC().Format(time.RFC3339)
			}

			set.URLs = append(set.URLs, entry)
		}
	}

	return set, nil
}

func (h SitemapHandler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}

	return h.Clock()
}
