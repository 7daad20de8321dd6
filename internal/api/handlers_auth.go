package api

import (
	"net/http"
	"time"

	"github.com/arkandaru/simdoc/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	user, err := h.usersRepo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to log in",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if user == nil || user.IsActive != 1 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid credentials",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid credentials",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  user.ID,
		"role": user.Role,
		"name": user.Name,
		"iss":  h.cfg.JWTIssuer,
		"iat":  now.Unix(),
		"exp":  now.Add(h.cfg.JWTTokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to log in",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "auth.login", "user", user.ID)

	c.JSON(http.StatusOK, models.LoginResponse{
		OK:    true,
		Token: token,
		User:  user,
	})
}

// Logout exists for wire compatibility; tokens are stateless, the client
// just drops its copy.
func (h *Handler) Logout(c *gin.Context) {
	h.audit(c, "auth.logout", "user", c.GetInt64("uid"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Profile returns the caller's own account row.
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.usersRepo.GetUserByID(c.Request.Context(), c.GetInt64("uid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load profile",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "User not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
