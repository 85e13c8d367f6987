// Package web renders the API's uniform response envelopes: errors as
// {statusCode, timestamp, path, message, error} and list pages as
// {data, currentPage, total}.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
)

type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

type PageBody struct {
	Data        any `json:"data"`
	CurrentPage int `json:"currentPage"`
	Total       int `json:"total"`
}

func errorBody(c *gin.Context, err error) (int, ErrorBody) {
	appErr := apperr.From(err)

	var message any = appErr.Message
	if appErr.Kind == apperr.KindValidation && len(appErr.Fields) > 0 {
		msgs := make([]string, 0, len(appErr.Fields))
		for _, f := range appErr.Fields {
			msgs = append(msgs, f.Message)
		}
		message = msgs
	}

	status := appErr.Kind.Status()
	return status, ErrorBody{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.Path,
		Message:    message,
		Error:      appErr.Kind.Label(),
	}
}

// Error writes the envelope for err. Unclassified errors render as a generic
// internal error; the original stays on the gin error list for the request
// logger.
func Error(c *gin.Context, err error) {
	status, body := errorBody(c, err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// AbortError is Error for middleware: it also stops the handler chain.
func AbortError(c *gin.Context, err error) {
	status, body := errorBody(c, err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

// Page writes a list page in the paginated envelope.
func Page(c *gin.Context, data any, currentPage, total int) {
	c.JSON(http.StatusOK, PageBody{
		Data:        data,
		CurrentPage: currentPage,
		Total:       total,
	})
}
