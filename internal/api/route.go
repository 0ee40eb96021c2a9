package api

import (
	"Gazette/internal/api/config"
	"Gazette/internal/api/middleware"
	"Gazette/internal/pkg/consts"
	"Gazette/internal/pkg/logger"
	"Gazette/internal/pkg/security"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxMultipartMemory 超出部分写入临时文件
const maxMultipartMemory = 32 << 20

func SetupRouter(group *HandlersGroup, tokens *security.TokenManager, logCfg *config.LogstashConfig, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})
	r.MaxMultipartMemory = maxMultipartMemory

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, logCfg)

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("", group.PostHandler.ListPosts)
			postGroup.GET("/:post_id", group.PostHandler.GetPost)
			postGroup.GET("/type/:media_type", group.PostHandler.ListPostsByMediaType)

			// 需要登录 & 拥有 admin 或 editor 角色
			editorGroup := postGroup.Group("")
			editorGroup.Use(middleware.AuthMiddleware(tokens), middleware.CheckRoles(consts.RoleAdmin, consts.RoleEditor))
			{
				editorGroup.POST("", group.PostHandler.CreatePost)
				editorGroup.PATCH("/:post_id", group.PostHandler.UpdatePost)
				editorGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				editorGroup.PATCH("/:post_id/publish", group.PostHandler.SetPublished)
			}
		}

		categoryGroup := apiGroup.Group("/categories")
		{
			categoryGroup.GET("", group.CategoryHandler.ListCategories)
			categoryGroup.GET("/:category_id", group.CategoryHandler.GetCategory)

			editorGroup := categoryGroup.Group("")
			editorGroup.Use(middleware.AuthMiddleware(tokens), middleware.CheckRoles(consts.RoleAdmin, consts.RoleEditor))
			{
				editorGroup.POST("", group.CategoryHandler.CreateCategory)
				editorGroup.PATCH("/:category_id", group.CategoryHandler.UpdateCategory)
				editorGroup.DELETE("/:category_id", group.CategoryHandler.DeleteCategory)
			}
		}
	}

	return r
}
