package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/middleware"
	"ngplus/api/internal/models"
	"ngplus/api/internal/service"
	"ngplus/api/internal/web"
)

type createUserRequest struct {
	Username          string `json:"username" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	AccountType       string `json:"accountType" binding:"omitempty,oneof=user admin"`
}

// RegisterUser is public self-registration; the account type is always user.
func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), service.CreateUserInput{
		Username:          req.Username,
		Email:             req.Email,
		Password:          req.Password,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// AdminCreateUser creates an account with an assignable account type.
func (h HandlerSet) AdminCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	user, err := h.userService.AdminCreate(c.Request.Context(), service.CreateUserInput{
		Username:          req.Username,
		Email:             req.Email,
		Password:          req.Password,
		ProfilePictureURL: req.ProfilePictureURL,
		AccountType:       models.AccountType(req.AccountType),
	})
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h HandlerSet) GetUser(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	user, err := h.userService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func pageQuery(c *gin.Context) service.ListPage {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return service.ListPage{Page: page, Limit: limit}
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	page := pageQuery(c)

	users, total, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		web.Error(c, err)
		return
	}

	web.Page(c, toUserResponses(users), page.Page, total)
}

type updateUserRequest struct {
	ProfilePictureURL *string `json:"profilePictureUrl"`
	Username          *string `json:"username"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Password          *string `json:"password" binding:"omitempty,min=6"`
	AccountType       *string `json:"accountType" binding:"omitempty,oneof=user admin"`
	RatingCount       *int    `json:"ratingCount" binding:"omitempty,min=0"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	input := service.UpdateUserInput{
		ProfilePictureURL: req.ProfilePictureURL,
		Username:          req.Username,
		Email:             req.Email,
		Password:          req.Password,
		RatingCount:       req.RatingCount,
	}
	if req.AccountType != nil {
		accountType := models.AccountType(*req.AccountType)
		input.AccountType = &accountType
	}

	user, err := h.userService.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	user, err := h.userService.Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
