package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/store"
)

// HandleListArticles lists articles scoped to the caller's roles: non-admin
// callers only ever see their own articles, whatever filters they send.
func (s *Server) HandleListArticles(c *gin.Context) {
	var params store.ArticleSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid query parameters")
		return
	}
	viewer := currentViewer(c)
	records, total, err := s.Articles.Search(c.Request.Context(), params, viewer)
	if err != nil {
		failErr(c, err)
		return
	}
	page := params.Page.Normalized()
	okList(c, records, total, page.Current, page.Size)
}

// HandleCreateArticle inserts an article owned by the caller.
func (s *Server) HandleCreateArticle(c *gin.Context) {
	var payload struct {
		Slug        string `json:"slug" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Body        string `json:"body"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "slug and title are required")
		return
	}
	viewer := currentViewer(c)
	article := &models.Article{
		Slug:        payload.Slug,
		Title:       payload.Title,
		Description: payload.Description,
		Body:        payload.Body,
		AuthorID:    viewer.UserID,
	}
	if err := s.Articles.Create(c.Request.Context(), article); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"id": article.ID})
}

func (s *Server) HandleGetArticle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid article id")
		return
	}
	article, err := s.Articles.GetByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, article)
}

// HandleUpdateArticle patches only the provided fields.
func (s *Server) HandleUpdateArticle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid article id")
		return
	}
	var payload struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Body        *string `json:"body"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return
	}
	updates := map[string]interface{}{}
	if payload.Title != nil {
		updates["title"] = *payload.Title
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.Body != nil {
		updates["body"] = *payload.Body
	}
	if err := s.Articles.Update(c.Request.Context(), id, updates); err != nil {
		failErr(c, err)
		return
	}
	ok(c, nil)
}

func (s *Server) HandleDeleteArticle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid article id")
		return
	}
	if err := s.Articles.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"deletedId": id})
}

// HandleBatchDeleteArticles deletes the comma-separated ids in the "ids"
// query parameter.
func (s *Server) HandleBatchDeleteArticles(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "ids must be comma-separated integers")
		return
	}
	if err := s.Articles.BatchDelete(c.Request.Context(), ids); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"deletedIds": ids})
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// queryIDs parses the comma-separated "ids" query parameter.
func queryIDs(c *gin.Context) ([]int64, error) {
	raw := c.Query("ids")
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
