package upload

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/bloghunt/internal/features/auth"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/response"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

// UploadResponse carries the public URL of the stored image
type UploadResponse struct {
	URL  string     `json:"url" example:"https://res.cloudinary.com/demo/image/upload/profilePics/a.png"`
	User *auth.User `json:"user,omitempty"`
}

type Handler struct {
	users    *auth.Service
	uploader media.Uploader
}

func NewHandler(users *auth.Service, uploader media.Uploader) *Handler {
	if uploader == nil {
		uploader = media.Disabled{}
	}
	return &Handler{users: users, uploader: uploader}
}

// formImage returns the first image found under one of fields
func formImage(c *gin.Context, fields ...string) (*multipart.FileHeader, bool) {
	for _, field := range fields {
		if header, err := c.FormFile(field); err == nil {
			return header, true
		}
	}
	return nil, false
}

func openImage(c *gin.Context, fields ...string) (*media.File, func(), bool) {
	header, ok := formImage(c, fields...)
	if !ok {
		response.BadRequest(c, "No image provided", "MISSING_FILE")
		return nil, nil, false
	}

	if err := media.ValidateImage(header); err != nil {
		response.ValidationFailed(c, err.Error())
		return nil, nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Could not read image", "INVALID_FILE")
		return nil, nil, false
	}

	return &media.File{Reader: file, Filename: header.Filename}, func() { _ = file.Close() }, true
}

// UpdateProfilePic godoc
// @Summary Upload profile picture
// @Description Store a new avatar for the current user (jpeg, png or webp, at most 1 MB)
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security CookieAuth
// @Param profilePic formData file true "Image file"
// @Success 200 {object} response.APIResponse{data=UploadResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /upload/profilePic [put]
func (h *Handler) UpdateProfilePic(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	file, done, ok := openImage(c, "profilePic", "image")
	if !ok {
		return
	}
	defer done()

	updated, err := h.users.SetProfilePicture(c.Request.Context(), user.ID, *file)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, UploadResponse{URL: updated.ProfilePic, User: updated}, "Profile picture updated successfully")
}

// UploadBlogImage godoc
// @Summary Upload blog image
// @Description Store an image for use in a blog and return its URL
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security CookieAuth
// @Param image formData file true "Image file (field image or blogImage)"
// @Success 200 {object} response.APIResponse{data=UploadResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /upload/blogImage [put]
func (h *Handler) UploadBlogImage(c *gin.Context) {
	file, done, ok := openImage(c, "image", "blogImage")
	if !ok {
		return
	}
	defer done()

	url, err := h.uploader.Upload(c.Request.Context(), file.Reader, file.Filename, media.FolderBlogImages)
	if err != nil {
		response.FromError(c, apperrors.Internal("Failed to upload blog image", err))
		return
	}

	response.Success(c, UploadResponse{URL: url}, "Image uploaded successfully")
}
