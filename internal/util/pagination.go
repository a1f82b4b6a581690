package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a normalised page request. Page numbers start at 1.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// ParsePage reads page and size query values, falling back to page 1 and
// DefaultPageSize on anything unusable.
func ParsePage(page, size string) Page {
	n, _ := strconv.Atoi(page)
	s, _ := strconv.Atoi(size)
	from, limit := Calculate(n, s)
	return Page{Number: from/limit + 1, Size: limit}
}

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}
