package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/forms"
	"inkwell/models"
	"inkwell/render"
)

type GroupController struct {
	db  *gorm.DB
	rnd render.Renderer
}

func NewGroupController(db *gorm.DB, rnd render.Renderer) *GroupController {
	return &GroupController{db: db, rnd: rnd}
}

// CreatePage shows the blank group form.
func (gc *GroupController) CreatePage(c *gin.Context) {
	gc.rnd.HTML(c, http.StatusOK, "groups/create_group", gin.H{"form": &forms.GroupForm{}})
}

// Create validates and persists a group, then redirects to its feed. A taken
// slug comes back as a field error, not a server error.
func (gc *GroupController) Create(c *gin.Context) {
	var form forms.GroupForm
	if err := c.ShouldBind(&form); err != nil {
		gc.rnd.HTML(c, http.StatusOK, "groups/create_group", gin.H{
			"form":   &form,
			"errors": forms.ErrorMessages(err),
		})
		return
	}

	group := models.Group{
		Title:       form.Title,
		Slug:        form.Slug,
		Description: form.Description,
	}
	if err := gc.db.Create(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			gc.rnd.HTML(c, http.StatusOK, "groups/create_group", gin.H{
				"form":   &form,
				"errors": map[string]string{"slug": "slug already taken"},
			})
			return
		}
		serverError(gc.rnd, c, err)
		return
	}

	c.Redirect(http.StatusFound, "/group/"+group.Slug+"/")
}
