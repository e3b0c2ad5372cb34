package models

// SortOrder is the direction applied to the sort field.
type SortOrder string

const (
	// SortAsc sorts ascending (the default).
	SortAsc SortOrder = "ASC"
	// SortDesc sorts descending.
	SortDesc SortOrder = "DESC"
)

// List option defaults and bounds. Size is validated against MaxPageSize
// before a query is built; an out-of-range value is rejected, not clamped.
const (
	DefaultPage      = 1
	DefaultPageSize  = 10
	MaxPageSize      = 50
	DefaultSortField = "name"
)

// ListOptions is the validated query specification for listing services.
// Instances are produced by the API layer's builder; the storage executor
// maps SortField/SearchField onto its column allow-list and rejects unknown
// names rather than interpolating them into SQL.
type ListOptions struct {
	Page        int
	Size        int
	SortField   string
	Order       SortOrder
	Search      string
	SearchField string
}

// Offset returns the zero-based row offset for the requested page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Size
}
