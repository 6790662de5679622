package handlers

import (
	"net/http"
	"sync"

	intconfig "busreservation/internal/config"
	"busreservation/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "bus reservation backend is running"})
}

// DBCheck pings MySQL and reports which tables exist. The memory store has no
// connection to check.
func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no database configured", "storage": intconfig.StorageMemory})
		return
	}
	if err := intconfig.PingDB(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed", gin.H{"reason": err.Error()})
		return
	}
	tables := gin.H{}
	for _, t := range db.Tables {
		tables[t] = db.HasTable(c.Request.Context(), intconfig.DB, t)
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "storage": intconfig.StorageMySQL, "tables": tables})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
