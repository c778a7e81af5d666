package handlers

import (
	"errors"
	"net/http"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/authz"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/project"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/task"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP status codes in one place so every
// handler reports the same status for the same failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, authz.ErrNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrMemberNotFound),
		errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrParentNotFound),
		errors.Is(err, task.ErrMemberNotFound),
		errors.Is(err, activity.ErrTaskNotFound),
		errors.Is(err, user.ErrUserNotFound):
		status = http.StatusNotFound

	case errors.Is(err, authz.ErrForbidden):
		status = http.StatusForbidden

	case errors.Is(err, project.ErrAlreadyMember),
		errors.Is(err, task.ErrAlreadyAssigned),
		errors.Is(err, task.ErrPrimaryConflict),
		errors.Is(err, user.ErrEmailExists):
		status = http.StatusConflict

	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, task.ErrCrossProjectParent),
		errors.Is(err, task.ErrNestedSubtask),
		errors.Is(err, task.ErrNotProjectMember),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput):
		status = http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
