// Package forms declares the static schemas for user-submitted data. Each
// submittable entity has an explicit form struct; nothing is inferred from
// model fields.
package forms

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"inkwell/models"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// RegisterValidators installs the custom rules used by binding tags. Call
// once at startup (and from test setup).
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	}
}

// PostForm is the submittable part of a post. Author and publication time are
// never user-editable; the handler supplies them.
type PostForm struct {
	Text  string `form:"text"`
	Group string `form:"group"` // group slug, optional
}

// Validate normalizes the form and checks it against the database. It returns
// field errors keyed by field name and, when a group slug was given and
// resolves, the group itself.
func (f *PostForm) Validate(db *gorm.DB) (map[string]string, *models.Group) {
	errs := make(map[string]string)

	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		errs["text"] = "text required"
	}

	var group *models.Group
	f.Group = strings.TrimSpace(f.Group)
	if f.Group != "" {
		var g models.Group
		if err := db.Where("slug = ?", f.Group).First(&g).Error; err != nil {
			errs["group"] = "unknown group"
		} else {
			group = &g
		}
	}

	if len(errs) > 0 {
		return errs, nil
	}
	return nil, group
}

// CommentForm carries only the comment text; the handler binds author and
// post.
type CommentForm struct {
	Text string `form:"text"`
}

func (f *CommentForm) Validate() map[string]string {
	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		return map[string]string{"text": "text required"}
	}
	return nil
}

// GroupForm creates a group. The slug rule is the custom validator registered
// in RegisterValidators.
type GroupForm struct {
	Title       string `form:"title" binding:"required"`
	Slug        string `form:"slug" binding:"required,slug"`
	Description string `form:"description"`
}

// ErrorMessages flattens a binding error into per-field messages for form
// re-rendering.
func ErrorMessages(err error) map[string]string {
	errs := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "invalid submission"
		return errs
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs[field] = field + " required"
		case "slug":
			errs[field] = "slug may only contain letters, numbers, hyphens and underscores"
		case "email":
			errs[field] = "invalid email address"
		case "min":
			errs[field] = field + " too short"
		default:
			errs[field] = "invalid " + field
		}
	}
	return errs
}
