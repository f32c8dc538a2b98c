package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danolu/userhub/internal/config"
	"github.com/danolu/userhub/internal/domain/user"
	"github.com/danolu/userhub/internal/service"
	"github.com/gin-gonic/gin"
)

type UserManager interface {
	GetAllUsers(ctx context.Context) ([]user.User, error)
	GetUserByID(ctx context.Context, id int64) (user.User, error)
	CreateUser(ctx context.Context, req service.CreateUserRequest) (string, error)
	UpdateUser(ctx context.Context, id int64, req service.UpdateUserRequest) (string, error)
	DeleteUser(ctx context.Context, id int64) (string, error)
	SearchUsers(ctx context.Context, name string) ([]user.User, error)
}

type UsersHandler struct {
	users UserManager
}

func NewUsersHandler(users UserManager) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) GetAllUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	users, err := h.users.GetAllUsers(cctx)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id, ok := userIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.users.GetUserByID(cctx, id)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	msg, err := h.users.CreateUser(cctx, req)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)

	if !ok {
		return
	}

	var req service.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	msg, err := h.users.UpdateUser(cctx, id, req)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	msg, err := h.users.DeleteUser(cctx, id)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *UsersHandler) SearchUsers(ctx *gin.Context) {
	name := ctx.Query("name")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	users, err := h.users.SearchUsers(cctx, name)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}

func userIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "Invalid user id", nil)
		return 0, false
	}

	return id, true
}
