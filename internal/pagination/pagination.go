// Package pagination chunks ordered items into fixed-size pages.
package pagination

import "fmt"

// Page is one chunk of a listing. Prev and Next are nil at the boundaries.
type Page[T any] struct {
	Index int // zero-based
	Total int
	Items []T
	Prev  *PageRef
	Next  *PageRef
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Index int
	URL   string
}

// URLFunc maps a zero-based page index to its URL.
type URLFunc func(index int) string

// Paginate splits items into ceil(len(items)/size) pages in order. No items
// yield no pages.
func Paginate[T any](items []T, size int, url URLFunc) ([]Page[T], error) {
	if size < 1 {
		return nil, fmt.Errorf("pagination: page size must be positive, got %d", size)
	}
	total := (len(items) + size - 1) / size
	pages := make([]Page[T], 0, total)
	for i := 0; i < total; i++ {
		end := min((i+1)*size, len(items))
		p := Page[T]{
			Index: i,
			Total: total,
			Items: items[i*size : end : end],
		}
		if i > 0 {
			p.Prev = ref(i-1, url)
		}
		if i < total-1 {
			p.Next = ref(i+1, url)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func ref(i int, url URLFunc) *PageRef {
	r := &PageRef{Index: i}
	if url != nil {
		r.URL = url(i)
	}
	return r
}

// Number is the one-based page number for display.
func (p Page[T]) Number() int { return p.Index + 1 }

// IsFirst reports whether p is the first page.
func (p Page[T]) IsFirst() bool { return p.Index == 0 }

// IsLast reports whether p is the last page.
func (p Page[T]) IsLast() bool { return p.Index == p.Total-1 }
