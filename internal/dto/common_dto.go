package dto

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ListRequest carries the common list query parameters.
type ListRequest struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
}
