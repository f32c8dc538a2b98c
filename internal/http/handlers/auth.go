package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danolu/userhub/internal/config"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	AuthenticateUser(ctx context.Context, email, password string) (int64, error)
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and returns the account id. No token or session
// is issued here.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup plus the bcrypt comparison
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	userID, err := h.auth.AuthenticateUser(cctx, req.Email, req.Password)

	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user_id": userID,
	})
}
