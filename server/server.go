package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/store"
)

// Server wires the stores, the session service and the HTTP routes.
type Server struct {
	cfg *AppConfig

	DB       *gorm.DB
	Auth     *auth.Service
	Users    *store.UserStore
	Roles    *store.RoleStore
	Menus    *store.MenuStore
	Articles *store.ArticleStore
	Logs     *store.LogStore
}

// OpenDB opens the gorm connection for the configured DSN.
func OpenDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// New assembles a Server from an open DB handle. A nil revocation store
// disables logout/refresh revocation.
func New(cfg *AppConfig, db *gorm.DB, revoked auth.RevocationStore) (*Server, error) {
	tokens, err := auth.NewManager([]byte(cfg.JWT.Secret), cfg.JWT.AccessExpire, cfg.JWT.RefreshExpire)
	if err != nil {
		return nil, err
	}
	users := store.NewUserStore(db)
	logs := store.NewLogStore(db)
	return &Server{
		cfg:      cfg,
		DB:       db,
		Auth:     auth.NewService(tokens, users, logs, revoked),
		Users:    users,
		Roles:    store.NewRoleStore(db),
		Menus:    store.NewMenuStore(db),
		Articles: store.NewArticleStore(db),
		Logs:     logs,
	}, nil
}

// Router builds the gin engine with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.CORSMiddleware())
	r.Use(s.APILoggerMiddleware())

	r.GET("/health", func(c *gin.Context) { ok(c, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", s.HandleLogin)
		authGroup.POST("/token", s.HandleToken)
		authGroup.POST("/refreshToken", s.HandleRefreshToken)
		authGroup.GET("/error", s.HandleCustomError)
		authGroup.GET("/getUserInfo", s.TokenMiddleware(), s.HandleGetUserInfo)
		authGroup.POST("/logout", s.TokenMiddleware(), s.HandleLogout)
	}

	articles := v1.Group("/article", s.TokenMiddleware())
	{
		articles.GET("/articles", s.HandleListArticles)
		articles.POST("/articles", s.HandleCreateArticle)
		articles.GET("/articles/:id", s.HandleGetArticle)
		articles.PATCH("/articles/:id", s.HandleUpdateArticle)
		articles.DELETE("/articles/:id", s.HandleDeleteArticle)
		articles.DELETE("/articles", s.HandleBatchDeleteArticles)
	}

	manage := v1.Group("/system-manage", s.TokenMiddleware())
	{
		manage.GET("/logs", s.HandleListLogs)
		manage.GET("/logs/:id", s.HandleGetLog)
		manage.PATCH("/logs/:id", s.HandleUpdateLog)
		manage.DELETE("/logs/:id", s.HandleDeleteLog)
		manage.DELETE("/logs", s.HandleBatchDeleteLogs)

		manage.GET("/users", s.HandleListUsers)
		manage.POST("/users", s.HandleCreateUser)
		manage.GET("/users/:id", s.HandleGetUser)
		manage.PATCH("/users/:id", s.HandleUpdateUser)
		manage.DELETE("/users/:id", s.HandleDeleteUser)
		manage.DELETE("/users", s.HandleBatchDeleteUsers)

		manage.GET("/roles", s.HandleListRoles)
		manage.POST("/roles", s.HandleCreateRole)
		manage.GET("/roles/all", s.HandleAllRoles)
		manage.GET("/roles/:id", s.HandleGetRole)
		manage.PATCH("/roles/:id", s.HandleUpdateRole)
		manage.DELETE("/roles/:id", s.HandleDeleteRole)
		manage.DELETE("/roles", s.HandleBatchDeleteRoles)
		manage.GET("/roles/:id/menus", s.HandleGetRoleMenus)
		manage.PATCH("/roles/:id/menus", s.HandleUpdateRoleMenus)
		manage.GET("/roles/:id/buttons", s.HandleGetRoleButtons)
		manage.PATCH("/roles/:id/buttons", s.HandleUpdateRoleButtons)

		manage.GET("/menus", s.HandleListMenus)
		manage.POST("/menus", s.HandleCreateMenu)
		manage.GET("/menus/pages", s.HandleMenuPages)
		manage.GET("/menus/tree", s.HandleMenuTree)
		manage.GET("/menus/buttons/tree", s.HandleMenuButtonsTree)
		manage.GET("/menus/:id", s.HandleGetMenu)
		manage.PATCH("/menus/:id", s.HandleUpdateMenu)
		manage.DELETE("/menus/:id", s.HandleDeleteMenu)
		manage.DELETE("/menus", s.HandleBatchDeleteMenus)
	}

	return r
}
