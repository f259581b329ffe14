package dto

import (
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/utils"
)

// ListResponse represents one page of any resource
type ListResponse[T any] struct {
	Items []T `json:"items"`
	utils.PaginationResponse
}

// ToListResponse converts a service page with the per-item converter
func ToListResponse[M, D any](page *services.Page[M], convert func(M) D) ListResponse[D] {
	items := make([]D, len(page.Items))
	for i, item := range page.Items {
		items[i] = convert(item)
	}

	return ListResponse[D]{
		Items:              items,
		PaginationResponse: page.PaginationResponse,
	}
}

// DashboardDTO holds the index page counts
type DashboardDTO struct {
	NumEmployees int64 `json:"num_employees"`
	NumTasks     int64 `json:"num_tasks"`
}

// ToDashboardDTO converts a services.Dashboard to DashboardDTO
func ToDashboardDTO(d services.Dashboard) DashboardDTO {
	return DashboardDTO{
		NumEmployees: d.EmployeeCount,
		NumTasks:     d.TaskCount,
	}
}
