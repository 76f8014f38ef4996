package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mclarke-dev/momentum-sim/internal/services"
	"github.com/mclarke-dev/momentum-sim/pkg/utils"
)

// AdminHandler exposes operational endpoints for authenticated operators.
type AdminHandler struct {
	cache *services.CacheService
}

func NewAdminHandler(cache *services.CacheService) *AdminHandler {
	return &AdminHandler{cache: cache}
}

// FlushCache drops every cached simulation result and reference dataset.
// Used after recalibrating the engine tables, when stale aggregates would
// otherwise be served until their TTL runs out.
func (h *AdminHandler) FlushCache(c *gin.Context) {
	if err := h.cache.Flush(); err != nil {
		utils.SendInternalError(c, "Failed to flush cache")
		return
	}
	logrus.WithField("user_id", c.GetUint("user_id")).Warn("Cache flushed")
	utils.SendSuccess(c, gin.H{"flushed": true})
}

// EvictReferenceData drops only the cached historical match set, forcing the
// next cross-match request or scheduled refresh to refetch it.
func (h *AdminHandler) EvictReferenceData(c *gin.Context) {
	if err := h.cache.Delete(c.Request.Context(), services.ReferenceMatchesKey); err != nil {
		utils.SendInternalError(c, "Failed to evict reference data")
		return
	}
	utils.SendSuccess(c, gin.H{"evicted": services.ReferenceMatchesKey})
}
