package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Daffa964/api-edutrash/internal/http/middleware"
	"github.com/Daffa964/api-edutrash/internal/service"
)

const internalErrorMessage = "Terjadi kesalahan pada server"

// HealthChecker reports whether the credential store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AuthHandler serves the account, lookup, and fun fact endpoints.
type AuthHandler struct {
	Auth     *service.AuthService
	FunFacts *service.FunFactService
	Health   HealthChecker
	logger   *zap.Logger
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService, funFacts *service.FunFactService, health HealthChecker, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &AuthHandler{Auth: auth, FunFacts: funFacts, Health: health, logger: logger}
}

type loginResponse struct {
	Message  string  `json:"message"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Token    *string `json:"token"`
}

// Root answers liveness probes.
func (h *AuthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Server berjalan dengan baik!")
}

// Healthz checks the credential store.
func (h *AuthHandler) Healthz(c *gin.Context) {
	if h.Health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := h.Health.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Register creates an account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payload tidak valid."})
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, "register user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registrasi berhasil",
		"data":    user,
	})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, loginResponse{Message: "Payload tidak valid."})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			c.JSON(svcErr.Status, loginResponse{Message: svcErr.Message})
			return
		}
		h.logger.Error("login user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, loginResponse{Message: internalErrorMessage})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message:  "Login berhasil",
		Username: &result.Username,
		Email:    &result.Email,
		Token:    &result.Token,
	})
}

// GetUser returns a registered user by id.
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID user tidak valid."})
		return
	}

	user, err := h.Auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GenerateFunFact returns a generated fun fact for a waste category.
func (h *AuthHandler) GenerateFunFact(c *gin.Context) {
	var req struct {
		Category string `json:"category" form:"category"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payload tidak valid."})
		return
	}

	fact, err := h.FunFacts.Generate(c.Request.Context(), req.Category)
	if err != nil {
		h.respondError(c, "generate fun fact", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"funFact": fact})
}

func (h *AuthHandler) respondError(c *gin.Context, op string, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if claims, ok := middleware.GetClaims(c); ok {
		fields = append(fields, zap.Int64("user_id", claims.ID))
	}
	h.logger.Error("request failed", fields...)
	c.JSON(http.StatusInternalServerError, gin.H{"message": internalErrorMessage})
}
