package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/tmsiti/tmsiti-backend/internal/handlers"
	"github.com/tmsiti/tmsiti-backend/internal/middleware/auth"
)

type Deps struct {
	AuthMW             *auth.Middleware
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	NewsHandler        *handlers.NewsHandler
	RegulationsHandler *handlers.RegulationsHandler
	InstituteHandler   *handlers.InstituteHandler
	ContactHandler     *handlers.ContactHandler
	SearchHandler      *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	requireAuth := d.AuthMW.RequireAuth
	moderator := d.AuthMW.RequireRole(auth.RoleModerator)
	admin := d.AuthMW.RequireRole(auth.RoleAdmin)

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/refresh", d.AuthHandler.Refresh)
	authGroup.POST("/logout", d.AuthHandler.Logout)
	authGroup.GET("/me", d.AuthHandler.Me, requireAuth)

	user := v1.Group("/user", requireAuth)
	user.GET("/profile", d.UserHandler.Profile)
	user.PUT("/profile", d.UserHandler.UpdateProfile)
	user.GET("/list", d.UserHandler.ListUsers, moderator)
	user.GET("/:id", d.UserHandler.GetUser, moderator)
	user.POST("/create-moderator", d.UserHandler.CreateModerator, admin)
	user.PATCH("/:id/active", d.UserHandler.SetActive, admin)
	user.PATCH("/:id/role", d.UserHandler.SetRole, admin)

	news := v1.Group("/news")
	news.GET("", d.NewsHandler.ListNews)
	news.GET("/:id", d.NewsHandler.GetNews)
	news.POST("", d.NewsHandler.CreateNews, requireAuth, moderator)
	news.PUT("/:id", d.NewsHandler.UpdateNews, requireAuth, moderator)
	news.DELETE("/:id", d.NewsHandler.DeleteNews, requireAuth, moderator)
	news.POST("/:id/image", d.NewsHandler.UploadNewsImage, requireAuth, moderator)

	ann := v1.Group("/announcements")
	ann.GET("", d.NewsHandler.ListAnnouncements)
	ann.GET("/:id", d.NewsHandler.GetAnnouncement)
	ann.POST("", d.NewsHandler.CreateAnnouncement, requireAuth, moderator)
	ann.PUT("/:id", d.NewsHandler.UpdateAnnouncement, requireAuth, moderator)
	ann.DELETE("/:id", d.NewsHandler.DeleteAnnouncement, requireAuth, moderator)

	reg := v1.Group("/regulations")
	reg.GET("/laws", d.RegulationsHandler.ListLaws)
	reg.GET("/laws/:id", d.RegulationsHandler.GetLaw)
	reg.POST("/laws", d.RegulationsHandler.CreateLaw, requireAuth, moderator)
	reg.PUT("/laws/:id", d.RegulationsHandler.UpdateLaw, requireAuth, moderator)
	reg.DELETE("/laws/:id", d.RegulationsHandler.DeleteLaw, requireAuth, moderator)
	reg.GET("/urban-norms", d.RegulationsHandler.ListUrbanNorms)
	reg.GET("/urban-norms/:id", d.RegulationsHandler.GetUrbanNorm)
	reg.POST("/urban-norms", d.RegulationsHandler.CreateUrbanNorm, requireAuth, moderator)
	reg.DELETE("/urban-norms/:id", d.RegulationsHandler.DeleteUrbanNorm, requireAuth, moderator)
	reg.GET("/standards", d.RegulationsHandler.ListStandards)
	reg.GET("/standards/:id", d.RegulationsHandler.GetStandard)
	reg.POST("/standards", d.RegulationsHandler.CreateStandard, requireAuth, moderator)
	reg.POST("/standards/:id/document", d.RegulationsHandler.UploadStandardDocument, requireAuth, moderator)
	reg.DELETE("/standards/:id", d.RegulationsHandler.DeleteStandard, requireAuth, moderator)
	reg.GET("/building-regulations", d.RegulationsHandler.ListBuildingRegulations)
	reg.POST("/building-regulations", d.RegulationsHandler.CreateBuildingRegulation, requireAuth, moderator)
	reg.POST("/building-regulations/:id/document", d.RegulationsHandler.UploadBuildingRegulationDocument, requireAuth, moderator)
	reg.DELETE("/building-regulations/:id", d.RegulationsHandler.DeleteBuildingRegulation, requireAuth, moderator)
	reg.GET("/smeta-resource-norms", d.RegulationsHandler.ListSmetaResourceNorms)
	reg.POST("/smeta-resource-norms", d.RegulationsHandler.CreateSmetaResourceNorm, requireAuth, moderator)
	reg.DELETE("/smeta-resource-norms/:id", d.RegulationsHandler.DeleteSmetaResourceNorm, requireAuth, moderator)
	reg.GET("/references", d.RegulationsHandler.ListReferences)
	reg.POST("/references", d.RegulationsHandler.CreateReference, requireAuth, moderator)
	reg.POST("/references/:id/document", d.RegulationsHandler.UploadReferenceDocument, requireAuth, moderator)
	reg.DELETE("/references/:id", d.RegulationsHandler.DeleteReference, requireAuth, moderator)

	inst := v1.Group("/institute")
	inst.GET("", d.InstituteHandler.ListPages)
	inst.GET("/:slug", d.InstituteHandler.GetPage)
	inst.PUT("/:slug", d.InstituteHandler.UpsertPage, requireAuth, moderator)

	contact := v1.Group("/contact")
	contact.POST("", d.ContactHandler.Submit)
	contact.GET("", d.ContactHandler.List, requireAuth, moderator)
	contact.GET("/:id", d.ContactHandler.Get, requireAuth, moderator)
	contact.POST("/:id/respond", d.ContactHandler.Respond, requireAuth, moderator)

	v1.GET("/search", d.SearchHandler.Search)

	e.Static("/static", "static")
}
