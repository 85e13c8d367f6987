package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/middleware"
	"ngplus/api/internal/models"
	"ngplus/api/internal/service"
	"ngplus/api/internal/web"
)

type createMediaRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ContentURL   string `json:"contentUrl" binding:"required"`
	Category     string `json:"category" binding:"required,oneof=artwork video music game"`
}

func (h HandlerSet) CreateMedia(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	var req createMediaRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	media, err := h.mediaService.Create(c.Request.Context(), actor, service.CreateMediaInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		ContentURL:   req.ContentURL,
		Category:     models.MediaCategory(req.Category),
	})
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMediaResponse(media))
}

func (h HandlerSet) GetMedia(c *gin.Context) {
	media, err := h.mediaService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toMediaResponse(media))
}

func (h HandlerSet) ListMedia(c *gin.Context) {
	page := pageQuery(c)

	media, total, err := h.mediaService.List(c.Request.Context(), page)
	if err != nil {
		web.Error(c, err)
		return
	}

	web.Page(c, toMediaResponses(media), page.Page, total)
}

type updateMediaRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	ContentURL   *string `json:"contentUrl"`
	Category     *string `json:"category" binding:"omitempty,oneof=artwork video music game"`
}

func (h HandlerSet) UpdateMedia(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	var req updateMediaRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	input := service.UpdateMediaInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		ContentURL:   req.ContentURL,
	}
	if req.Category != nil {
		category := models.MediaCategory(*req.Category)
		input.Category = &category
	}

	media, err := h.mediaService.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toMediaResponse(media))
}

func (h HandlerSet) DeleteMedia(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	media, err := h.mediaService.Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toMediaResponse(media))
}
