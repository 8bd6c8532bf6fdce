package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/tasks"
)

// ScanRunner starts an overdue scan, queued or inline.
type ScanRunner interface {
	RunOverdueScan(trigger string) (string, error)
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client        *tasks.Client
	scanner       ScanRunner
	retentionDays int
}

// NewTasksController accepts a nil client when the queue is disabled.
// Overdue scans then run inline.
func NewTasksController(client *tasks.Client, scanner ScanRunner, retentionDays int) *TasksController {
	return &TasksController{client: client, scanner: scanner, retentionDays: retentionDays}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        tasks.QueueOverdueScan,
			Description: "Report loans held longer than the overdue threshold",
			Queue:       tasks.QueueOverdueScan,
		},
		{
			Type:        tasks.QueueCleanupAuditEvents,
			Description: "Delete audit events past the retention period",
			Queue:       tasks.QueueCleanupAuditEvents,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types":    types,
		"queue_enabled": tc.client != nil,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.client == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	switch taskType {
	case tasks.QueueOverdueScan:
		if tc.scanner == nil {
			respondError(c, http.StatusServiceUnavailable, "overdue scan is not configured")
			return
		}
		taskID, err := tc.scanner.RunOverdueScan(tasks.TriggerManual)
		if err != nil {
			respondInternalError(c, err, "run overdue scan")
			return
		}
		if taskID == "" {
			respondSuccess(c, "overdue scan completed")
			return
		}
		respondAccepted(c, "task enqueued", gin.H{"task_id": taskID, "type": taskType})

	case tasks.QueueCleanupAuditEvents:
		if tc.client == nil {
			respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
			return
		}
		ids, err := tc.client.Add(tasks.CleanupAuditEventsTask{RetentionDays: tc.retentionDays}).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue audit cleanup")
			return
		}
		respondAccepted(c, "task enqueued", gin.H{"task_id": ids[0], "type": taskType})

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
	}
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
