// Package handlers implements the gin handlers of the SimilACTrail API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SimilACTrail/internal/interfaces/http/middleware"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

func respondOK[T any](c *gin.Context, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(http.StatusOK, resp)
}

// respondError maps err onto a status and the standard error envelope.
// Errors without an application code are masked as internal errors.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		appErr = errors.Internal("internal server error")
	}
	status := errors.HTTPStatusForCode(appErr.Code)

	message, detail := appErr.Message, appErr.Detail
	if appErr.Code == errors.ErrCodeInternal {
		message, detail = errors.DefaultMessageForCode(errors.ErrCodeInternal), ""
	}

	resp := common.NewErrorResponse(string(appErr.Code), message, detail)
	resp.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

//Personal.AI order the ending
