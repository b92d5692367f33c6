package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (Page-1)*Limit inside int for every allowed Limit.
	MaxPage = math.MaxInt / MaxPageSize
)

// PageRequest is a 1-based page number and page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to 1 <= page <= MaxPage and
// 1 <= limit <= MaxPageSize.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
	Pages int
}

// NewPage computes Pages = ceil(total/limit); an empty listing has zero pages.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit, Pages: pages}
}

// Count is a labelled aggregate bucket.
type Count struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}
