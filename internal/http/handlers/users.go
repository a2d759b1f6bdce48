package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/travellog/internal/config"
	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/geocoder89/travellog/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type UsersService interface {
	SignUp(ctx context.Context, req user.SignUpRequest) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
	List(ctx context.Context, f user.ListFilter) ([]user.WithTripCount, int64, error)
	Get(ctx context.Context, id int64) (user.WithTripCount, error)
	Patch(ctx context.Context, id int64, req user.PatchRequest) (user.User, error)
	Replace(ctx context.Context, id int64, req user.ReplaceRequest) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, email string) (string, time.Time, error)
}

type UsersHandler struct {
	users UsersService
	jwt   TokenIssuer
	lists *Lists
}

func NewUsersHandler(users UsersService, jwt TokenIssuer, lists *Lists) *UsersHandler {
	return &UsersHandler{users: users, jwt: jwt, lists: lists}
}

func (h *UsersHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt dominates this request
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.SignUp(cctx, req)
	if err != nil {
		respondServiceError(ctx, err, "", "Could not create user")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.Authenticate(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		respondServiceError(ctx, err, "", "Could not log in")
		return
	}

	token, _, err := h.jwt.GenerateToken(u.UserID, u.Email)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UsersHandler) List(ctx *gin.Context) {
	page := pageFrom(ctx)

	h.lists.Serve(ctx, "users", nil, page, func() (any, int64, error) {
		cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		return h.users.List(cctx, user.ListFilter{Limit: page.Limit(), Offset: page.Offset()})
	})
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "userid", "user")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.Get(cctx, id)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("userid"), "Could not fetch user")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, u)
}

func (h *UsersHandler) Patch(ctx *gin.Context) {
	id, ok := h.self(ctx)
	if !ok {
		return
	}

	var req user.PatchRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.Patch(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("userid"), "Could not update user")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Replace(ctx *gin.Context) {
	id, ok := h.self(ctx)
	if !ok {
		return
	}

	var req user.ReplaceRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.Replace(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("userid"), "Could not update user")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := h.self(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.Delete(cctx, id); err != nil {
		respondServiceError(ctx, err, ctx.Param("userid"), "Could not delete user")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.Status(http.StatusNoContent)
}

// self resolves the :userid path parameter and checks it belongs to the
// caller. Accounts can only be changed by their owner.
func (h *UsersHandler) self(ctx *gin.Context) (int64, bool) {
	id, ok := pathID(ctx, "userid", "user")
	if !ok {
		return 0, false
	}

	actor, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return 0, false
	}

	if actor != id {
		RespondForbidden(ctx, "You can only modify your own account")
		return 0, false
	}

	return id, true
}
