package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/middleware"
	"ngplus/api/internal/service"
	"ngplus/api/internal/web"
)

// UploadFile accepts a multipart form with a "file" part and an optional
// "folder" field. Non-admin uploads always land in the caller's own folder.
func (h HandlerSet) UploadFile(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		web.Error(c, apperr.BadRequest("File is required."))
		return
	}

	file, err := header.Open()
	if err != nil {
		web.Error(c, apperr.BadRequest("File is required."))
		return
	}
	defer file.Close()

	url, err := h.fileService.Upload(c.Request.Context(), actor, service.UploadInput{
		File:   file,
		Header: header,
		Folder: c.PostForm("folder"),
	})
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

type deleteFileRequest struct {
	FileURL string `json:"fileUrl" binding:"required"`
}

func (h HandlerSet) DeleteFile(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	var req deleteFileRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	deleted, err := h.fileService.Delete(c.Request.Context(), actor, req.FileURL)
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
