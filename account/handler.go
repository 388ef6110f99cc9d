package account

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/authapi/auth/authctx"
	apperrors "github.com/kbukum/authapi/errors"
	"github.com/kbukum/authapi/server"
)

// Handler exposes Service over HTTP.
type Handler struct {
	svc   *Service
	guard gin.HandlerFunc
}

// NewHandler creates a Handler. guard protects GET /me.
func NewHandler(svc *Service, guard gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, guard: guard}
}

// RegisterRoutes mounts the account routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/me", h.guard, h.me)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := server.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, res)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := server.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, res)
}

func (h *Handler) me(c *gin.Context) {
	id, err := authctx.MustIdentity(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.Unauthorized("no token"))
		return
	}
	profile, err := h.svc.CurrentUser(c.Request.Context(), id.ID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, profile)
}
