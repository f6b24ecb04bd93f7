package pagination

import "gorm.io/gorm"

const (
	MinPage  = 1
	MaxLimit = 100

	// PostsPerPage is the listing size for post walls.
	PostsPerPage = 20
)

// Paginate is the page a caller asked for.
type Paginate struct {
	Page  int
	Limit int
}

// Normalise clamps the page to MinPage and the limit to [1, MaxLimit], using
// fallback when no limit was given.
func (p Paginate) Normalise(fallback int) Paginate {
	if p.Page < MinPage {
		p.Page = MinPage
	}

	if p.Limit <= 0 {
		p.Limit = fallback
	}

	p.Limit = min(p.Limit, MaxLimit)

	return p
}

func (p Paginate) Offset() int {
	if p.Page < MinPage {
		return 0
	}

	return (p.Page - 1) * p.Limit
}

// Pagination is one page of T plus the numbers a client needs to walk the rest.
// NextPage and PreviousPage are nil at the edges.
type Pagination[T any] struct {
	Data         []T   `json:"data"`
	Page         int   `json:"page"`
	Total        int64 `json:"total"`
	PageSize     int   `json:"page_size"`
	TotalPages   int   `json:"total_pages"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

func NewPage[T any](data []T, request Paginate, total int64) *Pagination[T] {
	if data == nil {
		data = []T{}
	}

	page := &Pagination[T]{
		Data:     data,
		Page:     request.Page,
		Total:    total,
		PageSize: request.Limit,
	}

	if request.Limit > 0 {
		page.TotalPages = int((total + int64(request.Limit) - 1) / int64(request.Limit))
	}

	if page.Page < page.TotalPages {
		next := page.Page + 1
		page.NextPage = &next
	}

	if page.Page > MinPage && page.Page <= page.TotalPages {
		previous := page.Page - 1
		page.PreviousPage = &previous
	}

	return page
}

// Map converts the items of a page and keeps its numbers.
func Map[S any, D any](source *Pagination[S], convert func(S) D) *Pagination[D] {
	data := make([]D, 0, len(source.Data))

	for _, item := range source.Data {
		data = append(data, convert(item))
	}

	return &Pagination[D]{
		Data:         data,
		Page:         source.Page,
		Total:        source.Total,
		PageSize:     source.PageSize,
		TotalPages:   source.TotalPages,
		NextPage:     source.NextPage,
		PreviousPage: source.PreviousPage,
	}
}

// Count returns the number of distinct rows matched by query. It runs on a new
// session so the query can still fetch the page afterwards.
func Count(query *gorm.DB, session *gorm.Session, distinct string) (int64, error) {
	var total int64

	err := query.
		Session(session).
		Distinct(distinct).
		Count(&total).Error

	return total, err
}
