package auth

// Swagger API metadata is defined globally in cmd/api/main.go

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/response"
	"github.com/xyz-asif/bloghunt/internal/pkg/session"
)

type Handler struct {
	svc    *Service
	cookie session.CookieConfig
}

func NewHandler(svc *Service, cookie session.CookieConfig) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account. Accepts JSON, or multipart form with an optional profilePic image.
// @Tags auth
// @Accept json,mpfd
// @Produce json
// @Param request body RegisterRequest true "User registration data"
// @Success 201 {object} response.APIResponse{data=User}
// @Failure 400 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	var avatar *media.File

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			response.BindJSONError(c, err)
			return
		}

		if header, err := c.FormFile("profilePic"); err == nil {
			if err := media.ValidateImage(header); err != nil {
				response.ValidationFailed(c, err.Error())
				return
			}
			file, err := header.Open()
			if err != nil {
				response.BadRequest(c, "Could not read profile picture", "INVALID_FILE")
				return
			}
			defer file.Close()
			avatar = &media.File{Reader: file, Filename: header.Filename}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req, avatar)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, user, "User created successfully")
}

// Login godoc
// @Summary Login user
// @Description Authenticate with email and password. Sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "User login credentials"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 429 {object} response.APIResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setSession(c, res)
	response.Success(c, res, "Login successful")
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Exchange a Google ID token for a session. Links an existing account with the same email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Google ID token"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 401 {object} response.APIResponse
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	res, err := h.svc.GoogleLogin(c.Request.Context(), req.GoogleIDToken)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setSession(c, res)
	response.Success(c, res, "Login successful")
}

func (h *Handler) setSession(c *gin.Context, res *AuthResponse) {
	cookie := h.cookie
	cookie.MaxAge = h.svc.tokenTTL(res.ExpiresAt)
	session.SetCookie(c, cookie, res.Token)
}

// Logout godoc
// @Summary Logout
// @Description Clear the session cookie and revoke the current token
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	token := TokenFromRequest(c, h.cookie.Name)
	session.ClearCookie(c, h.cookie)

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, nil, "Logged out successfully")
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 401 {object} response.APIResponse
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	response.Success(c, user)
}

// UserProfile godoc
// @Summary Get a public profile
// @Description Profile data of any user plus the number of blogs they wrote
// @Tags auth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=ProfileResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /auth/userProfile/{id} [get]
func (h *Handler) UserProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.InvalidID(c, "user")
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, profile, "User profile fetched successfully")
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/changePassword [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, nil, "Password changed successfully")
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Overwrite any subset of firstName, lastName, email and bio
// @Tags auth
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/userUpdate [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, updated, "Profile updated successfully")
}
