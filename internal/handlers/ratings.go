package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/middleware"
	"ngplus/api/internal/service"
	"ngplus/api/internal/web"
)

type createRatingRequest struct {
	MediaID string `json:"mediaId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

func (h HandlerSet) CreateRating(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	var req createRatingRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	rating, err := h.ratingService.Create(c.Request.Context(), actor, service.CreateRatingInput{
		MediaID: req.MediaID,
		Value:   req.Rating,
	})
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRatingResponse(rating))
}

func (h HandlerSet) GetRating(c *gin.Context) {
	rating, err := h.ratingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toRatingResponse(rating))
}

func (h HandlerSet) ListRatings(c *gin.Context) {
	page := pageQuery(c)

	ratings, total, err := h.ratingService.List(c.Request.Context(), service.RatingListInput{
		Page:    page,
		MediaID: c.Query("mediaId"),
		UserID:  c.Query("userId"),
	})
	if err != nil {
		web.Error(c, err)
		return
	}

	web.Page(c, toRatingResponses(ratings), page.Page, total)
}

type updateRatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

func (h HandlerSet) UpdateRating(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	var req updateRatingRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	rating, err := h.ratingService.Update(c.Request.Context(), actor, c.Param("id"), req.Rating)
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toRatingResponse(rating))
}

func (h HandlerSet) DeleteRating(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	rating, err := h.ratingService.Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toRatingResponse(rating))
}
