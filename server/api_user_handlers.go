package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/store"
)

func (s *Server) HandleListUsers(c *gin.Context) {
	var params store.UserSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid query parameters")
		return
	}
	records, total, err := s.Users.Search(c.Request.Context(), params)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogUserGetList)
	page := params.Page.Normalized()
	okList(c, records, total, page.Current, page.Size)
}

func (s *Server) HandleCreateUser(c *gin.Context) {
	var payload struct {
		UserName   string   `json:"userName" binding:"required"`
		Password   string   `json:"password" binding:"required"`
		NickName   string   `json:"nickName"`
		UserGender string   `json:"userGender"`
		UserEmail  string   `json:"userEmail"`
		UserPhone  string   `json:"userPhone"`
		Status     string   `json:"status"`
		UserRoles  []string `json:"userRoles"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "userName and password are required")
		return
	}
	user := &models.User{
		UserName:   payload.UserName,
		UserGender: models.GenderType(payload.UserGender),
		UserEmail:  payload.UserEmail,
		Status:     models.StatusType(payload.Status),
	}
	if payload.NickName != "" {
		user.NickName = &payload.NickName
	}
	if payload.UserPhone != "" {
		user.UserPhone = &payload.UserPhone
	}
	if user.Status == "" {
		user.Status = models.StatusEnable
	}
	if err := s.Users.Create(c.Request.Context(), user, payload.Password, payload.UserRoles); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogUserCreateOne)
	ok(c, gin.H{"id": user.ID})
}

func (s *Server) HandleGetUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid user id")
		return
	}
	user, err := s.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	roles, err := s.Users.RoleCodes(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogUserGetOne)
	ok(c, store.UserWithRoles{User: *user, UserRoles: roles})
}

// HandleUpdateUser patches only the provided fields. A present userRoles
// array replaces the user's role set wholesale.
func (s *Server) HandleUpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid user id")
		return
	}
	var payload struct {
		NickName   *string  `json:"nickName"`
		UserGender *string  `json:"userGender"`
		UserEmail  *string  `json:"userEmail"`
		UserPhone  *string  `json:"userPhone"`
		Status     *string  `json:"status"`
		UserRoles  []string `json:"userRoles"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return
	}
	updates := map[string]interface{}{}
	if payload.NickName != nil {
		updates["nick_name"] = *payload.NickName
	}
	if payload.UserGender != nil {
		updates["user_gender"] = *payload.UserGender
	}
	if payload.UserEmail != nil {
		updates["user_email"] = *payload.UserEmail
	}
	if payload.UserPhone != nil {
		updates["user_phone"] = *payload.UserPhone
	}
	if payload.Status != nil {
		updates["status"] = *payload.Status
	}
	if err := s.Users.Update(c.Request.Context(), id, updates, payload.UserRoles); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogUserUpdateOne)
	ok(c, nil)
}

func (s *Server) HandleDeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid user id")
		return
	}
	if err := s.Users.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogUserDeleteOne)
	ok(c, gin.H{"deletedId": id})
}

func (s *Server) HandleBatchDeleteUsers(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "ids must be comma-separated integers")
		return
	}
	if err := s.Users.BatchDelete(c.Request.Context(), ids); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogUserBatchDelete)
	ok(c, gin.H{"deletedIds": ids})
}
