package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	dom "github.com/mrgear111/GROW/internal/domain"
	"github.com/mrgear111/GROW/internal/dto"
	"github.com/mrgear111/GROW/internal/repo"
	"github.com/mrgear111/GROW/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves the task CRUD endpoints.
type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), service.NewTaskInput{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
		DueTime:    req.DueTime,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		internalError(c, "create task", err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        categoryId  query  int     false  "Filter by category id"
// @Param        completed   query  bool    false  "Filter by completion state"
// @Param        date        query  string  false  "Exact day (YYYY-MM-DD)"
// @Param        dateField   query  string  false  "Date field: due or created"  Enums(due, created)
// @Param        startDate   query  string  false  "Range start (YYYY-MM-DD)"
// @Param        endDate     query  string  false  "Range end (YYYY-MM-DD)"
// @Param        view        query  string  false  "Named view"  Enums(all, today, upcoming)
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		internalError(c, "list tasks", err)
		return
	}
	if view := c.Query("view"); view != "" {
		list = service.FilterByView(list, view, time.Now().UTC())
	}
	list = service.SortForDisplay(list)
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		internalError(c, "get task", err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update godoc
// @Summary      Partially update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.HasFields() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, service.TaskPatch{
		Title:         req.Title,
		Completed:     req.Completed,
		Priority:      req.Priority,
		CategoryID:    req.CategoryID.Value,
		CategoryIDSet: req.CategoryID.Set,
		DueDate:       req.DueDate.Value,
		DueDateSet:    req.DueDate.Set,
		DueTime:       req.DueTime.Value,
		DueTimeSet:    req.DueTime.Set,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, service.ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		default:
			internalError(c, "update task", err)
		}
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.DeleteTaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		internalError(c, "delete task", err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTaskResponse{Success: true})
}

// Repair godoc
// @Summary      Recompute denormalized category fields on all tasks
// @Tags         debug
// @Produce      json
// @Success      200  {object}  dto.RepairTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /debug/fix-tasks [post]
func (h *TaskHandler) Repair(c *gin.Context) {
	fixed, err := h.svc.RepairCategories(c.Request.Context())
	if err != nil {
		internalError(c, "repair task categories", err)
		return
	}
	c.JSON(http.StatusOK, dto.RepairTasksResponse{Success: true, Fixed: fixed})
}

func filterFromQuery(c *gin.Context) repo.TaskFilter {
	var f repo.TaskFilter
	if raw := c.Query("categoryId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.CategoryID = &id
		}
	}
	if raw := c.Query("completed"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.Completed = &v
		}
	}
	if c.Query("dateField") == "created" {
		f.DateField = "created"
	}
	if v := c.Query("date"); v != "" {
		f.Date = &v
	}
	if v := c.Query("startDate"); v != "" {
		f.StartDate = &v
	}
	if v := c.Query("endDate"); v != "" {
		f.EndDate = &v
	}
	return f
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// internalError logs the cause and answers with a generic message, so
// store failures never leak details to the client.
func internalError(c *gin.Context, op string, err error) {
	log.Printf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Completed:     t.Completed,
		CategoryID:    t.CategoryID,
		CategoryName:  t.CategoryName,
		CategoryColor: t.CategoryColor,
		Priority:      t.Priority,
		DueDate:       t.DueDate,
		DueTime:       t.DueTime,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
