package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "todolists/internal/adapter/http/helper"
	"todolists/internal/adapter/http/middleware"
	"todolists/internal/core/model/request"
	"todolists/internal/core/model/response"
	"todolists/internal/core/port"
	"todolists/internal/core/util"
	"todolists/internal/shared"
	. "todolists/pkg/tracing"
)

type TodoHandler struct {
	svc     port.TodoService
	logger  *shared.LokiLogger
	metrics *shared.AppMetrics
}

func NewTodoHandler(svc port.TodoService, logger *shared.LokiLogger, metrics *shared.AppMetrics) *TodoHandler {
	return &TodoHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

// SearchTodos handles GET /api/todos/search?list_id=&q=&priority=. An
// unknown priority value means no priority filter at all.
func (t *TodoHandler) SearchTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.SearchTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "SearchTodos"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	userID := middleware.CurrentUserID(c)
	listUUID := c.Query("list_id")
	query := c.Query("q")
	priority := c.Query("priority")

	if listUUID == "" {
		SendBadRequestError(c, "list_id", "is required")
		return
	}

	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.String("todo.query", query),
		attribute.String("todo.priority", priority),
	)

	todos, err := t.svc.Search(ctx, listUUID, userID, query, priority)

	if err != nil {
		AddSpanError(span, err)

		t.logger.Logger.Ctx(ctx).Error("Failed to search todos",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("list_id", listUUID),
		)

		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponses(todos))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	params, err := util.BindJSON[request.TodoCreateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	todo, count, err := t.svc.Create(ctx, params.ListID, userID, params.Title)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	t.recordOperation(c, "create")

	SendSuccess(c, http.StatusCreated, response.TodoWithCountResponse{
		Todo:            response.NewTodoResponse(todo),
		IncompleteCount: count,
	})
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)
	listUUID := c.Query("list_id")

	if listUUID == "" {
		SendBadRequestError(c, "list_id", "is required")
		return
	}

	todo, err := t.svc.Get(ctx, c.Param("uuid"), listUUID, userID)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	params, err := util.BindJSON[request.TodoUpdateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	todo, err := t.svc.Update(ctx, c.Param("uuid"), userID, port.TodoUpdate{
		Title:        params.Title,
		Note:         params.Note,
		DueDateInput: params.DueDate,
		Priority:     params.Priority,
	})

	if err != nil {
		SendDomainError(c, err)
		return
	}

	t.recordOperation(c, "update")

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) ToggleTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	todo, count, err := t.svc.Toggle(ctx, c.Param("uuid"), userID, time.Now())

	if err != nil {
		SendDomainError(c, err)
		return
	}

	t.recordOperation(c, "toggle")

	SendSuccess(c, http.StatusOK, response.TodoWithCountResponse{
		Todo:            response.NewTodoResponse(todo),
		IncompleteCount: count,
	})
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	if err := t.svc.Delete(ctx, c.Param("uuid"), userID); err != nil {
		SendDomainError(c, err)
		return
	}

	t.recordOperation(c, "delete")

	SendSuccess(c, http.StatusOK, nil, "Todo deleted successfully")
}

func (t *TodoHandler) ReorderTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	params, err := util.BindJSON[request.TodoReorderRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := t.svc.Reorder(ctx, c.Param("uuid"), userID, params.Position); err != nil {
		SendDomainError(c, err)
		return
	}

	t.recordOperation(c, "reorder")

	SendSuccess(c, http.StatusOK, nil, "Todo reordered")
}

func (t *TodoHandler) recordOperation(c *gin.Context, operation string) {
	if t.metrics != nil {
		t.metrics.RecordTodoOperation(c.Request.Context(), operation)
	}
}
