package server

import "github.com/gin-gonic/gin"

// RegisterRoutes 挂载 /api 下的全部接口。
func (s *Server) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/layouts", layoutsHandler)
		api.GET("/presets", presetsHandler)
		api.POST("/story", s.storyHandler)
		api.POST("/marathon", s.marathonHandler)
		api.POST("/share", s.shareHandler)
	}
}

// Engine 返回带日志与 panic 恢复中间件的 gin 引擎。
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s.RegisterRoutes(r)
	return r
}
