package blogs

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/features/auth"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/pagination"
	"github.com/xyz-asif/bloghunt/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func objectID(c *gin.Context, param, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		response.InvalidID(c, what)
		return primitive.NilObjectID, false
	}
	return id, true
}

func requester(c *gin.Context) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return primitive.NilObjectID, false
	}
	return user.ID, true
}

func (h *Handler) respondBlog(c *gin.Context, blog *Blog, created bool, msg string) {
	res, err := h.svc.PopulateOne(c.Request.Context(), blog)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if created {
		response.Created(c, res, msg)
		return
	}
	response.Success(c, res, msg)
}

// CreateBlog godoc
// @Summary Create a blog
// @Description Accepts JSON, or multipart form with an optional blogImage file
// @Tags blogs
// @Accept json,mpfd
// @Produce json
// @Security CookieAuth
// @Param request body CreateBlogRequest true "Blog data"
// @Success 201 {object} response.APIResponse{data=BlogResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /blogs [post]
func (h *Handler) CreateBlog(c *gin.Context) {
	authorID, ok := requester(c)
	if !ok {
		return
	}

	var req CreateBlogRequest
	var image *media.File

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			response.BindJSONError(c, err)
			return
		}

		if header, err := c.FormFile("blogImage"); err == nil {
			if err := media.ValidateImage(header); err != nil {
				response.ValidationFailed(c, err.Error())
				return
			}
			file, err := header.Open()
			if err != nil {
				response.BadRequest(c, "Could not read blog image", "INVALID_FILE")
				return
			}
			defer file.Close()
			image = &media.File{Reader: file, Filename: header.Filename}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	blog, err := h.svc.CreateBlog(c.Request.Context(), authorID, req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondBlog(c, blog, true, "Blog created successfully")
}

// ListBlogs godoc
// @Summary List blogs
// @Description Newest first. Optional category filter.
// @Tags blogs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param category query string false "Category" Enums(Tech, Life, Travel, Education, Other)
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]BlogResponse}}
// @Failure 400 {object} response.APIResponse
// @Router /blogs [get]
func (h *Handler) ListBlogs(c *gin.Context) {
	h.list(c, c.Query("category"))
}

// ListByCategory godoc
// @Summary List blogs of one category
// @Tags blogs
// @Produce json
// @Param category path string true "Category" Enums(Tech, Life, Travel, Education, Other)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]BlogResponse}}
// @Failure 400 {object} response.APIResponse
// @Router /blogs/category/{category} [get]
func (h *Handler) ListByCategory(c *gin.Context) {
	h.list(c, c.Param("category"))
}

func (h *Handler) list(c *gin.Context, category string) {
	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))

	blogs, total, err := h.svc.ListByCategory(c.Request.Context(), category, page.Page, page.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.svc.Populate(c.Request.Context(), blogs...)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Paginated(c, items, total, page.Limit, page.Page)
}

// GetBlog godoc
// @Summary Get a blog
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} response.APIResponse{data=BlogResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/{id} [get]
func (h *Handler) GetBlog(c *gin.Context) {
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}

	blog, err := h.svc.GetBlog(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondBlog(c, blog, false, "")
}

// UpdateBlog godoc
// @Summary Update a blog
// @Description Only the author may update. Omitted fields are unchanged.
// @Tags blogs
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Param request body UpdateBlogRequest true "Fields to update"
// @Success 200 {object} response.APIResponse{data=BlogResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/{id} [put]
func (h *Handler) UpdateBlog(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}

	var req UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	blog, err := h.svc.UpdateBlog(c.Request.Context(), id, userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondBlog(c, blog, false, "Blog updated successfully")
}

// DeleteBlog godoc
// @Summary Delete a blog
// @Description Only the author may delete. Comments go with the blog.
// @Tags blogs
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Success 200 {object} response.APIResponse{data=BlogResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/{id} [delete]
func (h *Handler) DeleteBlog(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}

	blog, err := h.svc.DeleteBlog(c.Request.Context(), id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondBlog(c, blog, false, "Blog deleted successfully")
}

// ToggleLike godoc
// @Summary Like or unlike a blog
// @Description Adds the current user to the likes, or removes them if already present
// @Tags blogs
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Success 200 {object} response.APIResponse{data=LikeResponse}
// @Failure 401 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/like/{id} [put]
func (h *Handler) ToggleLike(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}

	blog, liked, err := h.svc.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	res, err := h.svc.PopulateOne(c.Request.Context(), blog)
	if err != nil {
		response.FromError(c, err)
		return
	}

	msg := "Blog unliked"
	if liked {
		msg = "Blog liked"
	}
	response.Success(c, LikeResponse{Blog: res, Liked: liked, LikeCount: len(blog.Likes)}, msg)
}

// AddComment godoc
// @Summary Comment on a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Param request body CommentRequest true "Comment text"
// @Success 201 {object} response.APIResponse{data=BlogResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/{id}/comment [post]
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	blog, err := h.svc.AddComment(c.Request.Context(), id, userID, req.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondBlog(c, blog, true, "Comment added successfully")
}

// EditComment godoc
// @Summary Edit a comment
// @Description Only the comment author may edit. Returns the blog's comments.
// @Tags blogs
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Param commentId path string true "Comment ID"
// @Param request body CommentRequest true "New text"
// @Success 200 {object} response.APIResponse{data=[]CommentResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/{id}/comment/{commentId} [put]
func (h *Handler) EditComment(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}
	commentID, ok := objectID(c, "commentId", "comment")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	comments, err := h.svc.EditComment(c.Request.Context(), id, commentID, userID, req.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondComments(c, comments, "Comment updated successfully")
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Only the comment author may delete. Returns the remaining comments.
// @Tags blogs
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} response.APIResponse{data=[]CommentResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/{id}/comment/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := requester(c)
	if !ok {
		return
	}
	id, ok := objectID(c, "id", "blog")
	if !ok {
		return
	}
	commentID, ok := objectID(c, "commentId", "comment")
	if !ok {
		return
	}

	comments, err := h.svc.DeleteComment(c.Request.Context(), id, commentID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondComments(c, comments, "Comment deleted successfully")
}

func (h *Handler) respondComments(c *gin.Context, comments []Comment, msg string) {
	res, err := h.svc.PopulateComments(c.Request.Context(), comments)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res, msg)
}

// ListByAuthor godoc
// @Summary List blogs by author
// @Tags blogs
// @Produce json
// @Param userId path string true "Author ID"
// @Success 200 {object} response.APIResponse{data=[]BlogResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /blogs/users/{userId} [get]
func (h *Handler) ListByAuthor(c *gin.Context) {
	authorID, ok := objectID(c, "userId", "user")
	if !ok {
		return
	}

	blogs, err := h.svc.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.svc.Populate(c.Request.Context(), blogs...)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, items)
}
