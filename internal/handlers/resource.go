package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/dto"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/utils"
	"go.uber.org/zap"
)

// EntityService is the CRUD surface shared by every resource kind.
// E is the model, C the create input and U the partial update input.
type EntityService[E, C, U any] interface {
	List(ctx context.Context, input services.ListInput) (*services.Page[E], error)
	Get(ctx context.Context, id uint64) (*E, error)
	Create(ctx context.Context, input C) (*E, error)
	Update(ctx context.Context, id uint64, input U) (*E, error)
	Delete(ctx context.Context, id uint64) error
}

// ResourceHandler serves list, detail, create, update and delete for one kind.
type ResourceHandler[E, C, U, D, L any] struct {
	service     EntityService[E, C, U]
	searchParam string
	label       string
	toDetail    func(E) D
	toListItem  func(E) L
	logger      *zap.SugaredLogger
}

// NewResourceHandler creates a ResourceHandler. searchParam is the query
// parameter holding the substring filter and label names the kind in
// response messages.
func NewResourceHandler[E, C, U, D, L any](
	service EntityService[E, C, U],
	searchParam, label string,
	toDetail func(E) D,
	toListItem func(E) L,
	logger *zap.SugaredLogger,
) *ResourceHandler[E, C, U, D, L] {
	return &ResourceHandler[E, C, U, D, L]{
		service:     service,
		searchParam: searchParam,
		label:       label,
		toDetail:    toDetail,
		toListItem:  toListItem,
		logger:      logger,
	}
}

// Register mounts the resource routes on group.
func (h *ResourceHandler[E, C, U, D, L]) Register(group *gin.RouterGroup) {
	group.GET("/", h.List)
	group.POST("/create/", h.Create)

	item := group.Group("/:id", middleware.RequireIDParam())
	item.GET("/", h.Get)
	item.POST("/update/", h.Update)
	item.PUT("/update/", h.Update)
	item.PATCH("/update/", h.Update)
	item.POST("/delete/", h.Delete)
	item.DELETE("/delete/", h.Delete)
}

// List returns one page of items matching the search parameter
func (h *ResourceHandler[E, C, U, D, L]) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	page, err := h.service.List(c.Request.Context(), services.ListInput{
		Search:   c.Query(h.searchParam),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(page, h.toListItem))
}

// Get returns a single item
func (h *ResourceHandler[E, C, U, D, L]) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), middleware.GetID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.toDetail(*item))
}

// Create creates an item from the JSON body
func (h *ResourceHandler[E, C, U, D, L]) Create(c *gin.Context) {
	var input C
	if err := c.ShouldBindJSON(&input); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, h.toDetail(*item))
}

// Update applies the fields present in the JSON body
func (h *ResourceHandler[E, C, U, D, L]) Update(c *gin.Context) {
	var input U
	if err := c.ShouldBindJSON(&input); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.Update(c.Request.Context(), middleware.GetID(c), input)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.toDetail(*item))
}

// Delete removes an item
func (h *ResourceHandler[E, C, U, D, L]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetID(c)); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.label + " deleted successfully",
	})
}
