package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vidtube/internal/app"
	"vidtube/internal/transport/http/response"
)

type ChannelHandler struct {
	channelService *app.ChannelService
}

func NewChannelHandler(channelService *app.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	var viewerID uint
	if viewer, ok := app.IdentityFromContext(c.Request.Context()); ok {
		viewerID = viewer.ID
	}

	profile, err := h.channelService.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile, "user channel fetched successfully")
}

func (h *ChannelHandler) Subscribe(c *gin.Context) {
	viewer, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	profile, err := h.channelService.Subscribe(c.Request.Context(), viewer.ID, c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile, "subscribed successfully")
}

func (h *ChannelHandler) Unsubscribe(c *gin.Context) {
	viewer, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	profile, err := h.channelService.Unsubscribe(c.Request.Context(), viewer.ID, c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile, "unsubscribed successfully")
}

func (h *ChannelHandler) GetWatchHistory(c *gin.Context) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	history, err := h.channelService.GetWatchHistory(c.Request.Context(), user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, history, "watch history fetched successfully")
}

func (h *ChannelHandler) AddToWatchHistory(c *gin.Context) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	videoID, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil || videoID == 0 {
		response.Fail(c, app.ErrInvalidPayload)
		return
	}
	if err := h.channelService.AddToWatchHistory(c.Request.Context(), user.ID, uint(videoID)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, nil, "video added to watch history")
}
