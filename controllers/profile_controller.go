package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/feed"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/policy"
	"inkwell/render"
)

type ProfileController struct {
	db    *gorm.DB
	feeds *feed.Service
	rnd   render.Renderer
}

func NewProfileController(db *gorm.DB, feeds *feed.Service, rnd render.Renderer) *ProfileController {
	return &ProfileController{
		db:    db,
		feeds: feeds,
		rnd:   rnd,
	}
}

// Profile renders an author's feed with their post count and the viewer's
// follow state. The following flag is always present; anonymous viewers get
// false.
func (pc *ProfileController) Profile(c *gin.Context) {
	author, page, err := pc.feeds.ByAuthor(c.Param("username"), feed.ParsePageNumber(c.Query("page")))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(pc.rnd, c)
		return
	}
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	following := false
	if viewer := middleware.Viewer(c); viewer != nil {
		var n int64
		if err := pc.db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewer.ID, author.ID).
			Count(&n).Error; err != nil {
			serverError(pc.rnd, c, err)
			return
		}
		following = n > 0
	}

	pc.rnd.HTML(c, http.StatusOK, "posts/profile", gin.H{
		"author":    author,
		"page":      page,
		"postCount": page.Total,
		"following": following,
	})
}

// Follow creates the follow edge. The insert is conflict-tolerant against the
// unique (user, author) index, so repeat follows and concurrent requests
// resolve to a single edge. Self-follows create nothing. Always redirects to
// the profile.
func (pc *ProfileController) Follow(c *gin.Context) {
	username := c.Param("username")

	var author models.User
	if err := pc.db.Where("username = ?", username).First(&author).Error; err != nil {
		notFound(pc.rnd, c)
		return
	}

	viewer := middleware.Viewer(c)
	if policy.CanFollow(viewer, &author) {
		follow := models.Follow{UserID: viewer.ID, AuthorID: author.ID}
		err := pc.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			serverError(pc.rnd, c, err)
			return
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// Unfollow removes the follow edge if present; a missing edge is a no-op.
func (pc *ProfileController) Unfollow(c *gin.Context) {
	username := c.Param("username")

	var author models.User
	if err := pc.db.Where("username = ?", username).First(&author).Error; err != nil {
		notFound(pc.rnd, c)
		return
	}

	viewer := middleware.Viewer(c)
	if policy.CanUnfollow(viewer) {
		if err := pc.db.
			Where("user_id = ? AND author_id = ?", viewer.ID, author.ID).
			Delete(&models.Follow{}).Error; err != nil {
			serverError(pc.rnd, c, err)
			return
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}
