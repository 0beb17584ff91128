package domain

// PaginationParams selects a window of results: From is the number of rows to
// skip, Size the window length.
type PaginationParams struct {
	From int
	Size int
}
