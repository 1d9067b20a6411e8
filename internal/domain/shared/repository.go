package shared

// Filter carries the listing options the ledger repositories understand.
// Pagination and ordering apply everywhere; the remaining fields are
// first-class because each backs exactly one query predicate, and a zero
// value means the predicate is skipped.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string

	// Search matches account code/name or entry number/narration
	Search string

	// account listings
	AccountType string
	IsActive    string // "true" or "false"; empty keeps both

	// journal entry listings; dates are YYYY-MM-DD, bounds inclusive
	Status        string
	ReferenceType string
	DateFrom      string
	DateTo        string
}

// Paginated is one page of a listing together with its totals
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a paginated result. A non-positive page size
// means the listing was not paginated and everything is one page.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 1
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
