package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/database"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/render"
)

const sessionMaxAge = 7 * 24 * 3600

type AuthController struct {
	db        *gorm.DB
	jwtSecret string
	rnd       render.Renderer
}

func NewAuthController(db *gorm.DB, jwtSecret string, rnd render.Renderer) *AuthController {
	return &AuthController{
		db:        db,
		jwtSecret: jwtSecret,
		rnd:       rnd,
	}
}

type signupForm struct {
	Username string `form:"username" binding:"required,slug"`
	Name     string `form:"name"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (ac *AuthController) SignupPage(c *gin.Context) {
	ac.rnd.HTML(c, http.StatusOK, "auth/signup", gin.H{"form": &signupForm{}})
}

func (ac *AuthController) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		ac.rnd.HTML(c, http.StatusOK, "auth/signup", gin.H{
			"form":   &form,
			"errors": forms.ErrorMessages(err),
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(ac.rnd, c, err)
		return
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: form.Username,
		Name:     form.Name,
		Email:    form.Email,
		Password: string(hashed),
	}
	if err := ac.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ac.rnd.HTML(c, http.StatusOK, "auth/signup", gin.H{
				"form":   &form,
				"errors": map[string]string{"username": "username or email already taken"},
			})
			return
		}
		serverError(ac.rnd, c, err)
		return
	}

	if err := ac.startSession(c, user.ID); err != nil {
		serverError(ac.rnd, c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	ac.rnd.HTML(c, http.StatusOK, "auth/login", gin.H{"form": &loginForm{}})
}

func (ac *AuthController) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		ac.rnd.HTML(c, http.StatusOK, "auth/login", gin.H{
			"form":   &form,
			"errors": forms.ErrorMessages(err),
		})
		return
	}

	var user models.User
	err := ac.db.Where("username = ?", form.Username).First(&user).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		ac.rnd.HTML(c, http.StatusOK, "auth/login", gin.H{
			"form":   &form,
			"errors": map[string]string{"form": "invalid username or password"},
		})
		return
	}

	if err := ac.startSession(c, user.ID); err != nil {
		serverError(ac.rnd, c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// DeleteAccount removes the viewer's account and everything it owns (posts,
// their comments, follow edges), then ends the session.
func (ac *AuthController) DeleteAccount(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if err := database.DeleteUser(ac.db, viewer.ID); err != nil {
		serverError(ac.rnd, c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) startSession(c *gin.Context, userID string) error {
	token, err := middleware.NewSessionToken(userID, ac.jwtSecret)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.SessionCookie, token, sessionMaxAge, "/", "", false, true)
	return nil
}
