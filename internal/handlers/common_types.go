package handlers

// PaginationInfo 定义了通用的分页信息结构
type PaginationInfo struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

// NewPaginationInfo 根据总条数和分页参数计算分页信息
func NewPaginationInfo(totalItems int64, page, limit int) PaginationInfo {
	totalPages := totalItems / int64(limit)
	if totalItems%int64(limit) != 0 {
		totalPages++
	}
	return PaginationInfo{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    limit,
	}
}
