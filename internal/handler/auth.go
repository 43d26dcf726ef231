package handler

import (
	"errors"
	"fmt"
	"net/http"

	"blogr/internal/middleware"
	"blogr/internal/models"
	"blogr/internal/session"
	"blogr/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 负责登录/注册相关接口
type AuthHandler struct {
	DB         *gorm.DB
	Sessions   *session.Store
	CookieName string
	CookieTTL  int // seconds
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, sessions *session.Store, cookieName string, cookieTTL int) *AuthHandler {
	if cookieName == "" {
		cookieName = "blogr_session"
	}
	return &AuthHandler{
		DB:         db,
		Sessions:   sessions,
		CookieName: cookieName,
		CookieTTL:  cookieTTL,
	}
}

type credentialsReq struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// ---------- 注册 ----------

// Register creates a new user and redirects to the login page.
// Validation order is fixed: username, password, then uniqueness. The
// existence pre-check is UX only; the unique index on username is the
// actual guard against concurrent registration, so a duplicate-key
// error from the insert maps to the same message.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if req.Username == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Username is required.")
		return
	}
	if req.Password == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Password is required.")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ?", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query user failed")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, alreadyRegistered(req.Username))
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "hash password failed")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, alreadyRegistered(req.Username))
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create user failed")
		return
	}

	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func alreadyRegistered(username string) string {
	return fmt.Sprintf("User %s is already registered.", username)
}

// ---------- 登录 ----------

// Login verifies credentials and establishes a fresh session. Username
// lookup is an exact, case-sensitive match. The two error messages are
// deliberately distinct.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Incorrect username.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query user failed")
		}
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Incorrect password.")
		return
	}

	// clear any prior session before storing the user id in a new one
	if prior, err := c.Cookie(h.CookieName); err == nil {
		h.Sessions.Destroy(prior)
	}
	token := h.Sessions.Create(user.ID)
	c.SetCookie(h.CookieName, token, h.CookieTTL, "/", "", false, true)

	c.Redirect(http.StatusSeeOther, "/")
}

// ---------- 登出 ----------

// Logout clears the session unconditionally. No error conditions.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.CookieName); err == nil {
		h.Sessions.Destroy(token)
	}
	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)

	c.Redirect(http.StatusSeeOther, "/")
}

// LoginPrompt is the target of redirects for anonymous callers.
func (h *AuthHandler) LoginPrompt(c *gin.Context) {
	util.Success(c, util.Response{
		"message": "login required",
	})
}
