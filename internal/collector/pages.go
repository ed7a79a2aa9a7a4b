package collector

import "context"

// Cursor identifies one page of an upstream listing. The GitHub API
// advertises continuation through the Link response header; go-github
// surfaces the "next" relation as a page number.
type Cursor int

const (
	// FirstPage is the cursor for the initial fetch.
	FirstPage Cursor = 1

	// NoMorePages signals that the listing is exhausted.
	NoMorePages Cursor = 0
)

// PageFunc fetches a single page: given a cursor it returns the page's
// items and the cursor for the next page, or NoMorePages when exhausted.
type PageFunc[T any] func(ctx context.Context, cursor Cursor) ([]T, Cursor, error)

// FetchAllPages drains a paginated listing by following continuation
// cursors until exhausted. The sequence is finite and consumed in order;
// a failed page aborts the fetch and returns the page's error.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T
	cursor := FirstPage
	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == NoMorePages {
			return all, nil
		}
		cursor = next
	}
}
