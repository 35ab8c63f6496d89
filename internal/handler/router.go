package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stashbox/backend/internal/config"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/service"
)

type RouterDeps struct {
	Auth      *service.AuthService
	Notes     *service.NoteService
	Bookmarks *service.BookmarkService
	Store     Pinger
	CORS      config.CORSConfig
	Log       logging.Logger
}

// NewRouter builds the HTTP API. Resource and auth routes are served both at
// the root and under /api.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Log))
	r.Use(CORSMiddleware(deps.CORS.AllowedOrigins, deps.CORS.AllowCredentials))

	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/healthz", Healthz(deps.Store, deps.Log))
	r.GET("/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(deps.Auth)
	noteHandler := NewNoteHandler(deps.Notes)
	bookmarkHandler := NewBookmarkHandler(deps.Bookmarks)
	gate := AuthMiddleware(deps.Auth, deps.Log)

	for _, base := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		auth := base.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", gate, authHandler.Me)
		}

		notes := base.Group("/notes", gate)
		{
			notes.GET("", noteHandler.ListNotes)
			notes.POST("", noteHandler.CreateNote)
			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		bookmarks := base.Group("/bookmarks", gate)
		{
			bookmarks.GET("", bookmarkHandler.ListBookmarks)
			bookmarks.POST("", bookmarkHandler.CreateBookmark)
			bookmarks.GET("/:id", bookmarkHandler.GetBookmark)
			bookmarks.PUT("/:id", bookmarkHandler.UpdateBookmark)
			bookmarks.DELETE("/:id", bookmarkHandler.DeleteBookmark)
		}
	}

	return r
}
