package result

// Page holds one batch of a cursor paginated listing, as well as the cursor
// that asks for the batch coming after it
type Page[T any] struct {
	items      []T
	nextCursor string
}

// NewPage builds a page. nextCursor is usually the identifier of the last item.
func NewPage[T any](items []T, nextCursor string) Page[T] {
	return Page[T]{
		items:      items,
		nextCursor: nextCursor,
	}
}

func (p Page[T]) Items() []T {
	return p.items
}

func (p Page[T]) NextCursor() string {
	return p.nextCursor
}

func (p Page[T]) Len() int {
	return len(p.items)
}

// Empty reports whether the page carries no items, which signals the end of the listing
func (p Page[T]) Empty() bool {
	return len(p.items) == 0
}

// Pages is an ordered collection of pages, accumulated as they are fetched
type Pages[T any] []Page[T]

// Last returns the most recently fetched page, if any
func (p Pages[T]) Last() (Page[T], bool) {
	if len(p) == 0 {
		return Page[T]{}, false
	}
	return p[len(p)-1], true
}

// AllEmpty reports whether no page carries items
func (p Pages[T]) AllEmpty() bool {
	for _, page := range p {
		if !page.Empty() {
			return false
		}
	}
	return true
}

// Items flattens all pages, in order
func (p Pages[T]) Items() []T {
	var items []T
	for _, page := range p {
		items = append(items, page.items...)
	}
	return items
}

// Lists returns the items of every page, one slice per page
func (p Pages[T]) Lists() [][]T {
	lists := make([][]T, 0, len(p))
	for _, page := range p {
		lists = append(lists, page.items)
	}
	return lists
}
