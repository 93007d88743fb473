package controllers

import (
	"DuoPlay/middleware"
	"DuoPlay/services/activity"
	"DuoPlay/services/invites"
	"DuoPlay/services/partnerships"
	"DuoPlay/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type joinInput struct {
	Code string `json:"code" binding:"required"`
}

// @Summary Create an invite code
// @Description Returns the outstanding code of the user if there is one
// @Tags partnerships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} invites.Invite
// @Failure 400 {object} utils.AppError "PARTNERSHIP_EXISTS"
// @Failure 500 {object} utils.AppError "CODE_GENERATION_EXHAUSTED"
// @Router /api/partnerships/create-invite [post]
// @Security ApiKeyAuth
func CreateInvite(registry *invites.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		invite, err := registry.CreateInvite(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, invite)
	}
}

// @Summary Join a partnership
// @Description Redeems an invite code and creates the partnership with its shared games
// @Tags partnerships
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param invite body object{code=string} true "Invite code"
// @Success 200 {object} object{partnership=partnerships.View}
// @Failure 400 {object} utils.AppError
// @Failure 404 {object} utils.AppError "INVITE_NOT_FOUND"
// @Router /api/partnerships/join [post]
// @Security ApiKeyAuth
func JoinPartnership(registry *invites.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in joinInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Error(utils.BindingError(err))
			return
		}

		view, err := registry.RedeemInvite(c.Request.Context(), middleware.CurrentUserID(c), in.Code)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"partnership": view})
	}
}

// @Summary Current partnership
// @Tags partnerships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{partnership=partnerships.View}
// @Failure 404 {object} utils.AppError "PARTNERSHIP_NOT_FOUND"
// @Router /api/partnerships/current [get]
// @Security ApiKeyAuth
func CurrentPartnership(store *partnerships.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := store.GetCurrent(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		if view == nil {
			c.Error(partnerships.ErrPartnershipNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"partnership": view})
	}
}

// @Summary Activity feed
// @Description Newest first. Pass nextCursor back as cursor to get the next page.
// @Tags partnerships
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param limit query int false "Page size (1-50, default 20)"
// @Param cursor query string false "Cursor from the previous page"
// @Success 200 {object} activity.Page
// @Failure 403 {object} utils.AppError "NO_PARTNERSHIP"
// @Router /api/partnerships/activity-feed [get]
// @Security ApiKeyAuth
func ListActivityFeed(feed *activity.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := activity.DefaultLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.Error(utils.ValidationError(utils.FieldError{Field: "limit", Message: "Must be a number"}))
				return
			}
			limit = parsed
		}

		page, err := feed.List(c.Request.Context(), middleware.CurrentPartnershipID(c), limit, c.Query("cursor"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary Append to the activity feed
// @Tags partnerships
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param item body activity.AppendInput true "Feed item"
// @Success 201 {object} object{item=postgres.ActivityFeedItem}
// @Failure 400 {object} utils.AppError
// @Failure 403 {object} utils.AppError "NO_PARTNERSHIP"
// @Router /api/partnerships/activity-feed [post]
// @Security ApiKeyAuth
func AppendActivity(feed *activity.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in activity.AppendInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Error(utils.BindingError(err))
			return
		}

		item, err := feed.Append(c.Request.Context(), middleware.CurrentPartnershipID(c), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item})
	}
}
