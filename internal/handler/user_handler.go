package handler

import (
	"net/http"

	"direct-chat/internal/services"
	"direct-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Sidebar lists the caller's contacts, or every other user with ?all=true.
// Any failure, an unknown caller included, is a 500.
func (h *UserHandler) Sidebar(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewStatusErrorResponse(http.StatusUnauthorized))
		return
	}

	users, err := h.service.GetUsersForSidebar(c.Request.Context(), userID, c.Query("all") == "true")
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
