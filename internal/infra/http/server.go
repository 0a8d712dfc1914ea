package http

import (
	"net/http"

	"accessd/internal/config"
	"accessd/internal/domain"
	"accessd/internal/infra/auth"
	"accessd/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine

	apps      *usecase.ApplicationService
	ledger    *usecase.LedgerService
	stats     *usecase.StatsService
	directory *usecase.DirectoryService

	sessions *auth.SessionCodec
	limiter  domain.RateLimiter
}

type ServerDeps struct {
	Applications *usecase.ApplicationService
	Ledger       *usecase.LedgerService
	Stats        *usecase.StatsService
	Directory    *usecase.DirectoryService
	Sessions     *auth.SessionCodec
	RateLimiter  domain.RateLimiter
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:       cfg,
		r:         r,
		apps:      deps.Applications,
		ledger:    deps.Ledger,
		stats:     deps.Stats,
		directory: deps.Directory,
		sessions:  deps.Sessions,
		limiter:   deps.RateLimiter,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/auth/login", s.handleLogin)

		v1.POST("/applications", s.handleSubmitApplication)
		v1.GET("/applications", s.handleListApplications)
		v1.GET("/applications/self", s.handleApplicationsByIdentity)
		v1.PATCH("/applications/:id", s.handleUpdateApplication)
		v1.DELETE("/applications/:id", s.handleDeleteApplication)
		v1.POST("/applications/approve", s.handleApprove)
		v1.POST("/applications/reject", s.handleReject)

		v1.POST("/scan", s.scanRateLimit(), s.handleScan)

		v1.GET("/dashboard", s.handleDashboard)

		v1.GET("/companies", s.handleListCompanies)
		v1.POST("/companies", s.handleAddCompany)
		v1.PUT("/companies/:id", s.handleUpdateCompany)
		v1.DELETE("/companies/:id", s.handleDeleteCompany)

		v1.GET("/departments", s.handleListDepartments)
		v1.POST("/departments", s.handleAddDepartment)
		v1.PUT("/departments/:id", s.handleUpdateDepartment)
		v1.DELETE("/departments/:id", s.handleDeleteDepartment)

		v1.GET("/managers", s.handleListManagers)
		v1.POST("/managers", s.handleAddManager)
		v1.PUT("/managers/:id", s.handleUpdateManager)
		v1.DELETE("/managers/:id", s.handleDeleteManager)

		v1.GET("/projects", s.handleListProjects)
		v1.POST("/projects", s.handleAddProject)
		v1.PUT("/projects/:id", s.handleUpdateProject)
		v1.DELETE("/projects/:id", s.handleDeleteProject)
	}
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.r
}
