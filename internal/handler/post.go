package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blogr/internal/middleware"
	"blogr/internal/models"
	"blogr/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PostHandler 负责文章相关接口
type PostHandler struct {
	DB *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{DB: db}
}

// ---------- 请求/响应结构 ----------

type postReq struct {
	Title string `form:"title" json:"title"`
	Body  string `form:"body" json:"body"`
}

type postResp struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Created  time.Time `json:"created"`
	AuthorID uint      `json:"author_id"`
	Username string    `json:"username"`
}

func toPostResp(p *models.Post) postResp {
	return postResp{
		ID:       p.ID,
		Title:    p.Title,
		Body:     p.Body,
		Created:  p.CreatedAt,
		AuthorID: p.AuthorID,
		Username: p.Author.Username,
	}
}

// ---------- 查询 ----------

// List returns all posts with their author's username, newest first.
// Posts sharing a created timestamp tie-break on id descending so the
// order is deterministic. No authorization required.
func (h *PostHandler) List(c *gin.Context) {
	var posts []models.Post
	if err := h.DB.Preload("Author").
		Order("created DESC, id DESC").
		Find(&posts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query posts failed")
		return
	}

	resp := make([]postResp, 0, len(posts))
	for i := range posts {
		resp = append(resp, toPostResp(&posts[i]))
	}

	util.Success(c, util.Response{
		"posts": resp,
	})
}

// Get returns a single post. Public: no ownership check.
func (h *PostHandler) Get(c *gin.Context) {
	post, ok := h.getPost(c, false)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"post": toPostResp(post),
	})
}

// getPost fetches the post named by the :id route param together with
// its author. Shared by Get, Update and Delete. Missing post writes a
// 404; with checkAuthor, a caller who is not the author gets a 403.
// The second return is false when a response has already been written.
func (h *PostHandler) getPost(c *gin.Context, checkAuthor bool) (*models.Post, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound,
			fmt.Sprintf("Post id %s doesn't exist.", idParam))
		return nil, false
	}

	var post models.Post
	if err := h.DB.Preload("Author").First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound,
				fmt.Sprintf("Post id %d doesn't exist.", id))
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query post failed")
		}
		return nil, false
	}

	if checkAuthor {
		user := middleware.UserFrom(c)
		if user == nil || user.ID != post.AuthorID {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Forbidden")
			return nil, false
		}
	}

	return &post, true
}

// ---------- 写入 ----------

// Create inserts a post owned by the current identity and redirects to
// the listing. Title is required; body may be empty.
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.UserFrom(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req postReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if req.Title == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Title is required.")
		return
	}

	post := models.Post{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: user.ID,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create post failed")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Update changes title and body of an owned post. The 404/403 from the
// ownership fetch apply before validation; id, author and created
// timestamp never change.
func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.getPost(c, true)
	if !ok {
		return
	}

	var req postReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if req.Title == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Title is required.")
		return
	}

	if err := h.DB.Model(post).Updates(map[string]interface{}{
		"title": req.Title,
		"body":  req.Body,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update post failed")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes an owned post.
func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.getPost(c, true)
	if !ok {
		return
	}

	if err := h.DB.Delete(post).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete post failed")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}
