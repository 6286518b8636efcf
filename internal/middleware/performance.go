package middleware

import (
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Stats holds per-endpoint request statistics.
type Stats struct {
	Count         int64         `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
	AverageTime   time.Duration `json:"average_time"`
	ErrorCount    int64         `json:"error_count"`
	SlowCount     int64         `json:"slow_count"`
}

// PerformanceMonitor tracks request timing across endpoints.
type PerformanceMonitor struct {
	mu            sync.Mutex
	endpointStats map[string]Stats
	slowThreshold time.Duration
	startTime     time.Time
	requestCount  int64
}

func NewPerformanceMonitor(slowThreshold time.Duration) *PerformanceMonitor {
	return &PerformanceMonitor{
		endpointStats: make(map[string]Stats),
		slowThreshold: slowThreshold,
		startTime:     time.Now(),
	}
}

// Middleware records duration, error and slow-request counts per endpoint.
func (pm *PerformanceMonitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		endpoint := c.Request.Method + " " + c.FullPath()
		isError := c.Writer.Status() >= 400
		isSlow := duration > pm.slowThreshold

		if isSlow {
			log.Printf("⏱️  Slow request: %s took %v", endpoint, duration)
		}

		pm.mu.Lock()
		pm.requestCount++
		stats := pm.endpointStats[endpoint]
		stats.Count++
		stats.TotalDuration += duration
		stats.AverageTime = stats.TotalDuration / time.Duration(stats.Count)
		if isError {
			stats.ErrorCount++
		}
		if isSlow {
			stats.SlowCount++
		}
		pm.endpointStats[endpoint] = stats
		pm.mu.Unlock()
	}
}

// Snapshot returns a copy of the collected statistics plus uptime.
func (pm *PerformanceMonitor) Snapshot() (map[string]Stats, time.Duration, int64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	out := make(map[string]Stats, len(pm.endpointStats))
	for k, v := range pm.endpointStats {
		out[k] = v
	}
	return out, time.Since(pm.startTime), pm.requestCount
}
