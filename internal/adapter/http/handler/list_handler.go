package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "todolists/internal/adapter/http/helper"
	. "todolists/internal/adapter/http/validation"
	"todolists/internal/adapter/http/middleware"
	"todolists/internal/core/model/request"
	"todolists/internal/core/model/response"
	"todolists/internal/core/port"
	"todolists/internal/core/util"
	"todolists/internal/shared"
	. "todolists/pkg/tracing"
)

type ListHandler struct {
	svc     port.ListService
	logger  *shared.LokiLogger
	metrics *shared.AppMetrics
}

func NewListHandler(svc port.ListService, logger *shared.LokiLogger, metrics *shared.AppMetrics) *ListHandler {
	return &ListHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *ListHandler) GetAllLists(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.list.GetAllLists", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllLists"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	userID := middleware.CurrentUserID(c)
	span.SetAttributes(attribute.Int64("user.id", userID))

	lists, err := h.svc.ListForUser(ctx, userID)

	if err != nil {
		AddSpanError(span, err)

		h.logger.Logger.Ctx(ctx).Error("Failed to get lists",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)

		SendInternalError(c, "Error getting lists")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewListResponses(lists))
}

func (h *ListHandler) CreateList(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	params, err := util.BindJSON[request.ListRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	list, err := h.svc.Create(ctx, userID, params.Name, params.Description, params.Color)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(c, "create")

	SendSuccess(c, http.StatusCreated, response.NewListResponse(list))
}

func (h *ListHandler) GetList(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	list, err := h.svc.Get(ctx, c.Param("uuid"), userID)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewListResponse(list))
}

func (h *ListHandler) UpdateList(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	params, err := util.BindJSON[request.ListRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	list, err := h.svc.Update(ctx, c.Param("uuid"), userID, params.Name, params.Description, params.Color)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(c, "update")

	SendSuccess(c, http.StatusOK, response.NewListResponse(list))
}

func (h *ListHandler) DeleteList(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	if err := h.svc.Delete(ctx, c.Param("uuid"), userID); err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(c, "delete")

	SendSuccess(c, http.StatusOK, nil, "List deleted successfully")
}

func (h *ListHandler) ReorderLists(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	params, err := util.BindJSON[request.ListReorderRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	lists, err := h.svc.Reorder(ctx, userID, params.ListIDs)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.recordOperation(c, "reorder")

	SendSuccess(c, http.StatusOK, response.NewListResponses(lists))
}

func (h *ListHandler) recordOperation(c *gin.Context, operation string) {
	if h.metrics != nil {
		h.metrics.RecordListOperation(c.Request.Context(), operation)
	}
}
