package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/scheduler"
	"github.com/hayatfoundation/site/internal/tasks"
)

// TaskRunner enqueues tasks and reports their status.
type TaskRunner interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// KeyResolver maps a public file URL back to its storage key.
type KeyResolver interface {
	KeyFromURL(u string) (string, bool)
}

// TasksController handles task queue and schedule endpoints of the CMS.
type TasksController struct {
	client    TaskRunner // nil when the queue is disabled
	scheduler *scheduler.Scheduler
	images    *content.Repository[entities.Image]
	keys      KeyResolver

	staleAge      time.Duration
	retentionDays int
}

func NewTasksController(
	client TaskRunner,
	sched *scheduler.Scheduler,
	images *content.Repository[entities.Image],
	keys KeyResolver,
	staleAge time.Duration,
	retentionDays int,
) *TasksController {
	return &TasksController{
		client:        client,
		scheduler:     sched,
		images:        images,
		keys:          keys,
		staleAge:      staleAge,
		retentionDays: retentionDays,
	}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

var taskTypes = []TaskTypeInfo{
	{
		Type:        "expire_stale_donations",
		Description: "Mark abandoned card donations as expired",
		Queue:       "expire_stale_donations",
	},
	{
		Type:        "cleanup_audit_events",
		Description: "Delete audit events past the retention period",
		Queue:       "cleanup_audit_events",
	},
	{
		Type:        "generate_thumbnail",
		Description: "Render the thumbnail of a gallery image",
		Queue:       "generate_thumbnail",
	},
}

// ListTaskTypes handles GET /api/cms/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	respondData(c, http.StatusOK, taskTypes)
}

// GetTaskStatus handles GET /api/cms/tasks/:id
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
		respondUpstream(c, err, "get task status")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// ImageID is required for generate_thumbnail
	ImageID uint `json:"imageId,omitempty"`
}

// RunTask handles POST /api/cms/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	if tc.client == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid JSON body")
			return
		}
	}

	var task backlite.Task
	switch taskType {
	case "expire_stale_donations":
		task = tasks.ExpireStaleDonationsTask{MaxAgeSeconds: int64(tc.staleAge / time.Second)}

	case "cleanup_audit_events":
		task = tasks.CleanupAuditEventsTask{RetentionDays: tc.retentionDays}

	case "generate_thumbnail":
		t, ok := tc.thumbnailTask(c, req.ImageID)
		if !ok {
			return
		}
		task = t

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.client.Add(task).Save()
	if err != nil {
		respondUpstream(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"taskId":  ids[0],
		"type":    taskType,
	})
}

func (tc *TasksController) thumbnailTask(c *gin.Context, imageID uint) (backlite.Task, bool) {
	if imageID == 0 {
		respondBadRequest(c, "imageId is required for generate_thumbnail")
		return nil, false
	}
	if tc.images == nil || tc.keys == nil {
		respondError(c, http.StatusServiceUnavailable, "thumbnails are not configured")
		return nil, false
	}
	image, err := tc.images.FindByID(c.Request.Context(), imageID, false)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, "image")
			return nil, false
		}
		respondUpstream(c, err, "get image")
		return nil, false
	}
	key, ok := tc.keys.KeyFromURL(image.ImageURL)
	if !ok {
		respondBadRequest(c, "image is not stored locally")
		return nil, false
	}
	return tasks.GenerateThumbnailTask{ImageID: image.ID, Key: key}, true
}

// ScheduleStatus handles GET /api/cms/schedule
func (tc *TasksController) ScheduleStatus(c *gin.Context) {
	if tc.scheduler == nil {
		respondData(c, http.StatusOK, gin.H{"running": false, "jobs": []scheduler.JobStatus{}})
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"running": tc.scheduler.IsRunning(),
		"jobs":    tc.scheduler.Status(),
	})
}

// RunScheduledJob handles POST /api/cms/schedule/:name/run
func (tc *TasksController) RunScheduledJob(c *gin.Context) {
	if tc.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "scheduler is disabled")
		return
	}
	name := c.Param("name")
	if err := tc.scheduler.RunNow(c.Request.Context(), name); err != nil {
		respondUpstream(c, err, "run "+name)
		return
	}
	respondData(c, http.StatusOK, gin.H{"job": name, "triggered": true})
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
