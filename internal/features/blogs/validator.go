package blogs

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xyz-asif/bloghunt/internal/pkg/validator"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

const (
	MinTitleLength   = 5
	MaxTitleLength   = 100
	MinContentLength = 5
	MaxContentLength = 1000
	MaxCommentLength = 1000
)

var registerOnce sync.Once

// RegisterBindings installs the blogcategory binding tag on gin's validator
func RegisterBindings() error {
	var err error
	registerOnce.Do(func() {
		err = validator.RegisterEnum("blogcategory", Categories)
	})
	return err
}

// IsCategory reports whether c is one of the fixed categories
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidateTitle trims and bounds a title
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength || n > MaxTitleLength {
		return "", apperrors.Validation("Title must be between 5 and 100 characters")
	}
	return title, nil
}

// ValidateContent trims and bounds blog content
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n < MinContentLength || n > MaxContentLength {
		return "", apperrors.Validation("Content must be between 5 and 1000 characters")
	}
	return content, nil
}

// ValidateCategory defaults an empty category to Other
func ValidateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryOther, nil
	}
	if !IsCategory(category) {
		return "", apperrors.Validation("Invalid category")
	}
	return category, nil
}

// ValidateImageURL accepts an empty value or an http(s) URL
func ValidateImageURL(image string) (string, error) {
	image = strings.TrimSpace(image)
	if image != "" && !validator.IsValidURL(image) {
		return "", apperrors.Validation("Invalid image URL")
	}
	return image, nil
}

// ValidateCommentText trims and bounds comment text
func ValidateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Validation("Comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", apperrors.Validation("Comment must be 1000 characters or less")
	}
	return text, nil
}

// ValidateCreate normalizes req in place
func ValidateCreate(req *CreateBlogRequest) error {
	var err error
	if req.Title, err = ValidateTitle(req.Title); err != nil {
		return err
	}
	if req.Content, err = ValidateContent(req.Content); err != nil {
		return err
	}
	if req.Category, err = ValidateCategory(req.Category); err != nil {
		return err
	}
	if req.Image, err = ValidateImageURL(req.Image); err != nil {
		return err
	}
	return nil
}

// ValidateUpdate checks the provided fields and returns the normalized update
func ValidateUpdate(req UpdateBlogRequest) (BlogUpdate, error) {
	var update BlogUpdate

	if req.Title != nil {
		title, err := ValidateTitle(*req.Title)
		if err != nil {
			return update, err
		}
		update.Title = &title
	}
	if req.Content != nil {
		content, err := ValidateContent(*req.Content)
		if err != nil {
			return update, err
		}
		update.Content = &content
	}
	if req.Image != nil {
		image, err := ValidateImageURL(*req.Image)
		if err != nil {
			return update, err
		}
		update.Image = &image
	}
	if req.Category != nil {
		category, err := ValidateCategory(*req.Category)
		if err != nil {
			return update, err
		}
		update.Category = &category
	}

	return update, nil
}
