package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/matching"
)

func SetupRouter(matcher *matching.Service, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(log))
	r.Use(AccessLogMiddleware(log))
	r.Use(CORSMiddleware())

	handler := NewHandler(matcher, log)

	r.GET("/health", handler.HealthCheck)
	r.POST("/score", handler.Score)
	r.POST("/match", handler.Match)
	r.POST("/batch-match", handler.BatchMatch)

	return r
}
