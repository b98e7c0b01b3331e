// Package pagination turns page/page_size query parameters into a window
// over an ordered collection and describes the neighbouring pages with
// an RFC 5988 Link header.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// Params are the validated pagination parameters of one request.
type Params struct {
	Page     int
	PageSize int
	// Explicit is set when the request named a page.
	Explicit bool
}

// Parse reads page and page_size from query. Missing values fall back to
// page 0 and defaultSize; a page size above maxSize is clamped.
func Parse(query url.Values, defaultSize, maxSize int) (Params, error) {
	p := Params{Page: 0, PageSize: defaultSize}

	if query.Has(ParamPageSize) {
		size, err := strconv.Atoi(query.Get(ParamPageSize))
		if err != nil {
			return p, newError(InvalidPageSize, "page size must be an integer")
		}
		if size < 1 {
			return p, newError(InvalidPageSize, "page size must be greater than zero")
		}
		p.PageSize = size
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}

	if query.Has(ParamPage) {
		page, err := strconv.Atoi(query.Get(ParamPage))
		if err != nil {
			return p, newError(InvalidPageNumber, "page number must be an integer")
		}
		if page < 0 {
			return p, newError(InvalidPageNumber, "page number cannot be negative")
		}
		p.Page = page
		p.Explicit = true
	}

	return p, nil
}

// Window is the page of a collection selected by Params once the
// collection size is known.
type Window struct {
	Page     int
	PageSize int
	MaxPage  int
	Total    int
}

// NewWindow places p over a collection of total records. Naming a page
// past the last one fails with PageOutOfRange. An empty collection has
// no pages at all, so an explicit page 0 of it is out of range too, while
// a request that names no page gets an empty window.
func NewWindow(p Params, total int) (*Window, error) {
	maxPage := (total+p.PageSize-1)/p.PageSize - 1
	if p.Explicit && p.Page > maxPage {
		return nil, newError(PageOutOfRange, "page number out of range")
	}
	if maxPage < 0 {
		maxPage = 0
	}
	return &Window{
		Page:     p.Page,
		PageSize: p.PageSize,
		MaxPage:  maxPage,
		Total:    total,
	}, nil
}

// Offset is the index of the first record in the window.
func (w *Window) Offset() int {
	return w.Page * w.PageSize
}

// Limit is the most records the window holds.
func (w *Window) Limit() int {
	return w.PageSize
}

// Len is the number of records actually in the window.
func (w *Window) Len() int {
	n := w.Total - w.Offset()
	if n > w.PageSize {
		n = w.PageSize
	}
	if n < 0 {
		return 0
	}
	return n
}

// Link describes one related page.
type Link struct {
	Rel  string
	Page int
}

// Links lists first and prev when there is an earlier page, then next
// and last when there is a later one.
func (w *Window) Links() []Link {
	var links []Link
	if w.Page > 0 {
		links = append(links, Link{Rel: "first", Page: 0}, Link{Rel: "prev", Page: w.Page - 1})
	}
	if w.Page < w.MaxPage {
		links = append(links, Link{Rel: "next", Page: w.Page + 1}, Link{Rel: "last", Page: w.MaxPage})
	}
	return links
}

// LinkHeader renders Links against base, keeping its other query
// parameters and overriding page and page_size. It returns "" when
// there are no related pages.
func (w *Window) LinkHeader(base *url.URL) string {
	links := w.Links()
	entries := make([]string, 0, len(links))
	for _, l := range links {
		entries = append(entries, fmt.Sprintf("<%s>; rel=%q", w.pageURL(base, l.Page), l.Rel))
	}
	return strings.Join(entries, ", ")
}

func (w *Window) pageURL(base *url.URL, page int) string {
	u := *base
	q := base.Query()
	q.Set(ParamPage, strconv.Itoa(page))
	q.Set(ParamPageSize, strconv.Itoa(w.PageSize))
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}
