package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/feed"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/policy"
	"inkwell/render"
	"inkwell/services"
)

type PostController struct {
	db    *gorm.DB
	feeds *feed.Service
	rnd   render.Renderer
	media services.MediaStore
	email *services.EmailService
}

func NewPostController(db *gorm.DB, feeds *feed.Service, rnd render.Renderer, media services.MediaStore, email *services.EmailService) *PostController {
	return &PostController{
		db:    db,
		feeds: feeds,
		rnd:   rnd,
		media: media,
		email: email,
	}
}

// Index renders the global feed.
func (pc *PostController) Index(c *gin.Context) {
	page, err := pc.feeds.All(feed.ParsePageNumber(c.Query("page")))
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}
	pc.rnd.HTML(c, http.StatusOK, "posts/index", gin.H{"page": page})
}

// GroupPosts renders one group's feed; unknown slugs are a 404.
func (pc *PostController) GroupPosts(c *gin.Context) {
	group, page, err := pc.feeds.ByGroup(c.Param("slug"), feed.ParsePageNumber(c.Query("page")))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(pc.rnd, c)
		return
	}
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}
	pc.rnd.HTML(c, http.StatusOK, "posts/group_list", gin.H{
		"group": group,
		"page":  page,
	})
}

// FollowFeed renders posts by the authors the viewer follows.
func (pc *PostController) FollowFeed(c *gin.Context) {
	viewer := middleware.Viewer(c)
	page, err := pc.feeds.Following(viewer.ID, feed.ParsePageNumber(c.Query("page")))
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}
	pc.rnd.HTML(c, http.StatusOK, "posts/follow", gin.H{"page": page})
}

// Detail renders a single post with its comments and a comment form.
func (pc *PostController) Detail(c *gin.Context) {
	post, err := pc.loadPost(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(pc.rnd, c)
		return
	}
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}
	data, err := pc.detailContext(post, &forms.CommentForm{}, nil)
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}
	pc.rnd.HTML(c, http.StatusOK, "posts/post_detail", data)
}

// CreatePage shows the blank post form.
func (pc *PostController) CreatePage(c *gin.Context) {
	pc.rnd.HTML(c, http.StatusOK, "posts/create_post", gin.H{"form": &forms.PostForm{}})
}

// Create validates and persists a new post, then sends the author to their
// profile. Invalid input re-renders the form with field errors and persists
// nothing.
func (pc *PostController) Create(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if !policy.CanCreatePost(viewer) {
		c.Redirect(http.StatusFound, "/auth/login/")
		return
	}

	var form forms.PostForm
	_ = c.ShouldBind(&form)

	fieldErrs, group := form.Validate(pc.db)
	if fieldErrs != nil {
		pc.rnd.HTML(c, http.StatusOK, "posts/create_post", gin.H{"form": &form, "errors": fieldErrs})
		return
	}

	post := models.Post{
		Text:     form.Text,
		AuthorID: viewer.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
	}

	if file, err := c.FormFile("image"); err == nil && pc.media != nil {
		ref, err := pc.media.Save(file)
		if err != nil {
			pc.rnd.HTML(c, http.StatusOK, "posts/create_post", gin.H{
				"form":   &form,
				"errors": map[string]string{"image": "could not store image"},
			})
			return
		}
		post.Image = ref
	}

	if err := pc.db.Create(&post).Error; err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+viewer.Username+"/")
}

// EditPage shows the pre-filled form; non-authors land on the detail view.
func (pc *PostController) EditPage(c *gin.Context) {
	post, err := pc.loadPost(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(pc.rnd, c)
		return
	}
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	viewer := middleware.Viewer(c)
	if !policy.CanEditPost(viewer, post) {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		return
	}

	form := forms.PostForm{Text: post.Text}
	if post.Group != nil {
		form.Group = post.Group.Slug
	}
	pc.rnd.HTML(c, http.StatusOK, "posts/create_post", gin.H{
		"form":   &form,
		"post":   post,
		"isEdit": true,
	})
}

// Edit persists an author's changes to text, group and image. The publication
// time never changes.
func (pc *PostController) Edit(c *gin.Context) {
	post, err := pc.loadPost(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(pc.rnd, c)
		return
	}
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	viewer := middleware.Viewer(c)
	if !policy.CanEditPost(viewer, post) {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		return
	}

	var form forms.PostForm
	_ = c.ShouldBind(&form)

	fieldErrs, group := form.Validate(pc.db)
	if fieldErrs != nil {
		pc.rnd.HTML(c, http.StatusOK, "posts/create_post", gin.H{
			"form":   &form,
			"post":   post,
			"isEdit": true,
			"errors": fieldErrs,
		})
		return
	}

	updates := map[string]interface{}{
		"text":     form.Text,
		"group_id": nil,
	}
	if group != nil {
		updates["group_id"] = group.ID
	}
	if file, err := c.FormFile("image"); err == nil && pc.media != nil {
		ref, err := pc.media.Save(file)
		if err != nil {
			pc.rnd.HTML(c, http.StatusOK, "posts/create_post", gin.H{
				"form":   &form,
				"post":   post,
				"isEdit": true,
				"errors": map[string]string{"image": "could not store image"},
			})
			return
		}
		updates["image"] = ref
	}

	if err := pc.db.Model(post).Updates(updates).Error; err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// AddComment attaches a comment by the viewer to the post. A valid comment
// redirects back to the detail page; an invalid one re-renders the page with
// the field error instead of silently dropping it.
func (pc *PostController) AddComment(c *gin.Context) {
	post, err := pc.loadPost(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(pc.rnd, c)
		return
	}
	if err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	viewer := middleware.Viewer(c)
	if !policy.CanComment(viewer) {
		c.Redirect(http.StatusFound, "/auth/login/")
		return
	}

	var form forms.CommentForm
	_ = c.ShouldBind(&form)

	if fieldErrs := form.Validate(); fieldErrs != nil {
		data, err := pc.detailContext(post, &form, fieldErrs)
		if err != nil {
			serverError(pc.rnd, c, err)
			return
		}
		pc.rnd.HTML(c, http.StatusOK, "posts/post_detail", data)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: viewer.ID,
		Text:     form.Text,
	}
	if err := pc.db.Create(&comment).Error; err != nil {
		serverError(pc.rnd, c, err)
		return
	}

	if pc.email != nil && post.AuthorID != viewer.ID {
		if err := pc.email.SendCommentNotification(post.Author, *viewer, *post); err != nil {
			fmt.Printf("Failed to send comment notification: %v\n", err)
		}
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

func (pc *PostController) loadPost(rawID string) (*models.Post, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var post models.Post
	err = pc.db.
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Author").
		First(&post, uint(id)).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (pc *PostController) detailContext(post *models.Post, form *forms.CommentForm, fieldErrs map[string]string) (gin.H, error) {
	var postCount int64
	if err := pc.db.Model(&models.Post{}).Where("author_id = ?", post.AuthorID).Count(&postCount).Error; err != nil {
		return nil, err
	}

	data := gin.H{
		"post":      post,
		"author":    post.Author,
		"group":     post.Group,
		"comments":  post.Comments,
		"postCount": postCount,
		"form":      form,
	}
	if fieldErrs != nil {
		data["errors"] = fieldErrs
	}
	return data, nil
}
