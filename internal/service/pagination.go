package service

import "math"

// Page is a 1-based page request. Zero values select the first page at the
// default size.
type Page struct {
	Page  int
	Limit int
}

const (
	maxPageLimit = 100
	// maxPage keeps (page-1)*limit well inside int range on every platform.
	maxPage = math.MaxInt32 / maxPageLimit
)

// bounds converts p to a limit/offset pair, using defaultLimit when no
// limit was requested.
func (p Page) bounds(defaultLimit int) (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return limit, (page - 1) * limit
}
