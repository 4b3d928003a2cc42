package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/store"
)

// audit records an admin action attributed to the caller. Failures are
// swallowed by the log store so request handling never depends on it.
func (s *Server) audit(c *gin.Context, detail models.LogDetail) {
	viewer := currentViewer(c)
	if viewer.UserID == 0 {
		s.Logs.Append(c.Request.Context(), models.LogTypeAdmin, detail, nil)
		return
	}
	id := viewer.UserID
	s.Logs.Append(c.Request.Context(), models.LogTypeAdmin, detail, &id)
}

// HandleListLogs lists audit logs. Non-admin callers only see entries they
// produced themselves.
func (s *Server) HandleListLogs(c *gin.Context) {
	var params store.LogSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid query parameters")
		return
	}
	viewer := currentViewer(c)
	records, total, err := s.Logs.Search(c.Request.Context(), params, viewer)
	if err != nil {
		failErr(c, err)
		return
	}
	page := params.Page.Normalized()
	okList(c, records, total, page.Current, page.Size)
}

func (s *Server) HandleGetLog(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid log id")
		return
	}
	entry, err := s.Logs.GetByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, entry)
}

type logPatch struct {
	LogType       *models.LogType   `json:"logType"`
	LogDetailType *models.LogDetail `json:"logDetailType"`
}

// HandleUpdateLog reclassifies an audit entry.
func (s *Server) HandleUpdateLog(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid log id")
		return
	}
	var payload logPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	fields := map[string]any{}
	if payload.LogType != nil {
		fields["log_type"] = *payload.LogType
	}
	if payload.LogDetailType != nil {
		fields["log_detail_type"] = *payload.LogDetailType
	}
	if err := s.Logs.Update(c.Request.Context(), id, fields); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

func (s *Server) HandleDeleteLog(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid log id")
		return
	}
	if err := s.Logs.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"deletedId": id})
}

func (s *Server) HandleBatchDeleteLogs(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "ids must be comma-separated integers")
		return
	}
	if err := s.Logs.BatchDelete(c.Request.Context(), ids); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"deletedIds": ids})
}
