package query

// Cursor points at an adjacent page.
type Cursor struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries the optional next/prev cursors of a list response.
type Pagination struct {
	Next *Cursor `json:"next,omitempty"`
	Prev *Cursor `json:"prev,omitempty"`
}

// Paginate computes the cursors for a page window over total documents.
// next exists iff documents remain past the window, prev iff the window
// does not start at zero.
func Paginate(page, limit int, total int64) Pagination {
	var p Pagination
	start := int64(page-1) * int64(limit)
	end := int64(page) * int64(limit)

	if end < total {
		p.Next = &Cursor{Page: page + 1, Limit: limit}
	}
	if start > 0 {
		p.Prev = &Cursor{Page: page - 1, Limit: limit}
	}
	return p
}
