package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/store"
)

func (s *Server) HandleListRoles(c *gin.Context) {
	var params store.RoleSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid query parameters")
		return
	}
	records, total, err := s.Roles.Search(c.Request.Context(), params)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleGetList)
	page := params.Page.Normalized()
	okList(c, records, total, page.Current, page.Size)
}

// HandleAllRoles returns every role without pagination, for pickers.
func (s *Server) HandleAllRoles(c *gin.Context) {
	records, err := s.Roles.All(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, records)
}

func (s *Server) HandleCreateRole(c *gin.Context) {
	var payload struct {
		RoleName string  `json:"roleName" binding:"required"`
		RoleCode string  `json:"roleCode" binding:"required"`
		RoleDesc *string `json:"roleDesc"`
		RoleHome string  `json:"roleHome"`
		Status   string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "roleName and roleCode are required")
		return
	}
	role := &models.Role{
		RoleName: payload.RoleName,
		RoleCode: payload.RoleCode,
		RoleDesc: payload.RoleDesc,
		RoleHome: payload.RoleHome,
		Status:   models.StatusType(payload.Status),
	}
	if err := s.Roles.Create(c.Request.Context(), role); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleCreateOne)
	ok(c, gin.H{"id": role.ID})
}

func (s *Server) HandleGetRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	role, err := s.Roles.GetByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleGetOne)
	ok(c, role)
}

func (s *Server) HandleUpdateRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	var payload struct {
		RoleName *string `json:"roleName"`
		RoleCode *string `json:"roleCode"`
		RoleDesc *string `json:"roleDesc"`
		RoleHome *string `json:"roleHome"`
		Status   *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return
	}
	updates := map[string]interface{}{}
	if payload.RoleName != nil {
		updates["role_name"] = *payload.RoleName
	}
	if payload.RoleCode != nil {
		updates["role_code"] = *payload.RoleCode
	}
	if payload.RoleDesc != nil {
		updates["role_desc"] = *payload.RoleDesc
	}
	if payload.RoleHome != nil {
		updates["role_home"] = *payload.RoleHome
	}
	if payload.Status != nil {
		updates["status"] = *payload.Status
	}
	if err := s.Roles.Update(c.Request.Context(), id, updates); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleUpdateOne)
	ok(c, nil)
}

func (s *Server) HandleDeleteRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	if err := s.Roles.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleDeleteOne)
	ok(c, gin.H{"deletedId": id})
}

func (s *Server) HandleBatchDeleteRoles(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "ids must be comma-separated integers")
		return
	}
	if err := s.Roles.BatchDelete(c.Request.Context(), ids); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleBatchDelete)
	ok(c, gin.H{"deletedIds": ids})
}

func (s *Server) HandleGetRoleMenus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	menuIDs, err := s.Roles.MenuIDs(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleGetMenus)
	ok(c, menuIDs)
}

// HandleUpdateRoleMenus replaces the role's menu grants wholesale.
func (s *Server) HandleUpdateRoleMenus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	var payload struct {
		MenuIDs []int64 `json:"menuIds"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return
	}
	if err := s.Roles.SetMenus(c.Request.Context(), id, payload.MenuIDs); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleUpdateMenus)
	ok(c, nil)
}

func (s *Server) HandleGetRoleButtons(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	codes, err := s.Roles.ButtonCodes(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleGetButtons)
	ok(c, codes)
}

// HandleUpdateRoleButtons replaces the role's button grants wholesale,
// matching buttons by code.
func (s *Server) HandleUpdateRoleButtons(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return
	}
	var payload struct {
		ButtonCodes []string `json:"buttonCodes"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return
	}
	if err := s.Roles.SetButtons(c.Request.Context(), id, payload.ButtonCodes); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogRoleUpdateButtons)
	ok(c, nil)
}
