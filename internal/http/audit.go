package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{auditService: auditService}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?limit=&offset=&type=&entity_type=&entity_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	if offset < 0 {
		offset = 0
	}

	filter := auditrepo.EventFilter{
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity_type"),
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid entity_id")
			return
		}
		filter.EntityID = uint(id)
	}

	events, total, err := ac.auditService.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"has_more": int64(offset+len(events)) < total,
	})
}
