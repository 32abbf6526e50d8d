package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings Postgres (billing state) and Redis (notification queue).
// A degraded queue still returns 503: accrual notifications would be lost
// silently otherwise. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pgStatus := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			pgStatus = "down"
		}

		queueStatus := "ok"
		if rdb.Ping(ctx).Err() != nil {
			queueStatus = "down"
		}

		status, overall := http.StatusOK, "ok"
		if pgStatus != "ok" || queueStatus != "ok" {
			status, overall = http.StatusServiceUnavailable, "degraded"
		}

		c.JSON(status, gin.H{
			"status":   overall,
			"postgres": pgStatus,
			"queue":    queueStatus,
		})
	}
}
