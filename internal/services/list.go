package services

import (
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/utils"
)

// Kind names used for metrics and log fields.
const (
	KindPosition = "position"
	KindTaskType = "task_type"
	KindEmployee = "employee"
	KindTask     = "task"
)

// ListInput is a list request: an optional search term and a 1-indexed page.
type ListInput struct {
	Search   string
	Page     int
	PageSize int
}

// Page is one window of an ordered result set.
type Page[T any] struct {
	Items []T
	utils.PaginationResponse
}

func (in ListInput) filter() repository.ListFilter {
	return repository.ListFilter{
		Search:     in.Search,
		Pagination: utils.NewPaginationParams(in.Page, in.PageSize),
	}
}

func newPage[T any](items []T, total int64, filter repository.ListFilter) *Page[T] {
	return &Page[T]{
		Items:              items,
		PaginationResponse: utils.NewPaginationResponse(filter.Pagination, total),
	}
}
