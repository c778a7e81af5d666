package dto

import (
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityLogResponse represents an audit trail entry in API responses
// @Description A single recorded action with its human readable description
type ActivityLogResponse struct {
	ID          uuid.UUID              `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Action      string                 `json:"action" example:"TASK_STATUS_CHANGED"`
	Description string                 `json:"description" example:"Changed status from NOT_STARTED to IN_PROGRESS"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	UserID      uuid.UUID              `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ProjectID   uuid.UUID              `json:"project_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	TaskID      *uuid.UUID             `json:"task_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440003"`
	CreatedAt   time.Time              `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// ActivityLogListResponse represents a paginated page of the audit trail
// @Description Paginated activity log entries, newest first
type ActivityLogListResponse struct {
	Data   []ActivityLogResponse `json:"data"`
	Total  int64                 `json:"total" example:"120"`
	Limit  int                   `json:"limit" example:"50"`
	Offset int                   `json:"offset" example:"0"`
}

// ToActivityLogResponse converts a log entry to its API representation
func ToActivityLogResponse(l *activity.Log) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          l.ID,
		Action:      string(l.Action),
		Description: l.Description,
		Metadata:    l.Metadata,
		UserID:      l.UserID,
		ProjectID:   l.ProjectID,
		TaskID:      l.TaskID,
		CreatedAt:   l.CreatedAt,
	}
}

// ToActivityLogListResponse converts a page of log entries
func ToActivityLogListResponse(p *activity.Page) ActivityLogListResponse {
	resp := ActivityLogListResponse{
		Data:   make([]ActivityLogResponse, 0, len(p.Data)),
		Total:  p.Total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	for i := range p.Data {
		resp.Data = append(resp.Data, ToActivityLogResponse(&p.Data[i]))
	}
	return resp
}
