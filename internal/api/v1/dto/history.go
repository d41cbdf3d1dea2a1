package dto

// ListHistoryQuery filters and pages the history table.
type ListHistoryQuery struct {
	Q      string `form:"q"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=500"`
	Offset int    `form:"offset" binding:"omitempty,gte=0"`
}

// HistoryResponse is one page of history, newest first.
type HistoryResponse struct {
	Data       []HistoryRecord `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// Pagination describes the returned window.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx json"`
}
