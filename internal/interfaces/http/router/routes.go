package router

import (
	"github.com/agency/planner/internal/domain/identity"
	"github.com/agency/planner/internal/interfaces/http/handler"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CRUDHandler is implemented by every handler serving a plain resource
type CRUDHandler interface {
	Create(c *gin.Context)
	GetByID(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// BulkCRUDHandler also creates a batch of resources in one request
type BulkCRUDHandler interface {
	CRUDHandler
	BulkCreate(c *gin.Context)
}

// Handlers holds every HTTP handler of the API
type Handlers struct {
	Auth          *handler.AuthHandler
	System        *handler.SystemHandler
	Clients       CRUDHandler
	Segments      BulkCRUDHandler
	Competitors   BulkCRUDHandler
	Branches      CRUDHandler
	SocialLinks   CRUDHandler
	Users         *handler.UserHandler
	Catalog       *handler.CatalogHandler
	Quotations    *handler.QuotationHandler
	CampaignPlans CRUDHandler
	Contracts     *handler.ContractHandler
	Audit         *handler.AuditHandler
}

// Guards are the access-control middlewares applied to the API
type Guards struct {
	// Auth authenticates the caller. Paths it skips (login, refresh, health)
	// pass through anonymously.
	Auth gin.HandlerFunc
	// LoginLimit throttles login attempts. Optional.
	LoginLimit gin.HandlerFunc
}

// NewAPI builds the router for the planner API. Call Setup to register it.
func NewAPI(engine *gin.Engine, h Handlers, g Guards, opts ...RouterOption) *Router {
	r := NewRouter(engine, opts...)

	engine.GET("/health", h.System.Health)

	writeGate := middleware.RequireMethodRole()

	authRoutes := NewDomainGroup("auth", "/auth")
	login := []gin.HandlerFunc{h.Auth.Login}
	if g.LoginLimit != nil {
		login = append([]gin.HandlerFunc{g.LoginLimit}, login...)
	}
	authRoutes.POST("/login", login...)
	authRoutes.POST("/refresh", h.Auth.RefreshToken)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.GetSystemInfo)

	r.Use(g.Auth).
		Register(authRoutes).
		Register(systemRoutes).
		Register(NewDomainGroup("health", "/health").GET("", h.System.Health)).
		Register(crudGroup("clients", h.Clients).Use(writeGate)).
		Register(bulkGroup("segments", h.Segments).Use(writeGate)).
		Register(bulkGroup("competitors", h.Competitors).Use(writeGate)).
		Register(crudGroup("branches", h.Branches).Use(writeGate)).
		Register(crudGroup("social-links", h.SocialLinks).Use(writeGate)).
		Register(catalogGroups(h.Catalog, writeGate)...).
		Register(quotationGroup(h.Quotations).Use(writeGate)).
		Register(crudGroup("campaign-plans", h.CampaignPlans).Use(writeGate)).
		Register(contractGroup(h.Contracts).Use(writeGate)).
		Register(NewDomainGroup("audit", "/audit-logs").
			Use(middleware.RequireRole(identity.RoleAdmin)).
			GET("", h.Audit.List)).
		Register(NewDomainGroup("users", "/users").
			Use(middleware.RequireRole(identity.RoleAdmin)).
			GET("", h.Users.List).
			GET("/:id", h.Users.GetByID).
			PUT("/:id", h.Users.Update))

	return r
}

func crudGroup(name string, h CRUDHandler) *DomainGroup {
	return NewDomainGroup(name, "/"+name).
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func bulkGroup(name string, h BulkCRUDHandler) *DomainGroup {
	return crudGroup(name, h).POST("/bulk", h.BulkCreate)
}

func catalogGroups(h *handler.CatalogHandler, gate gin.HandlerFunc) []RouteRegistrar {
	services := NewDomainGroup("services", "/services").Use(gate).
		POST("", h.CreateService).
		GET("", h.ListServices).
		GET("/:id", h.GetService).
		PUT("/:id", h.UpdateService).
		DELETE("/:id", h.DeleteService)
	packages := NewDomainGroup("packages", "/packages").Use(gate).
		POST("", h.CreatePackage).
		GET("", h.ListPackages).
		GET("/:id", h.GetPackage).
		PUT("/:id", h.UpdatePackage).
		DELETE("/:id", h.DeletePackage)
	terms := NewDomainGroup("contract-terms", "/contract-terms").Use(gate).
		POST("", h.CreateTerm).
		POST("/bulk", h.BulkCreateTerms).
		GET("", h.ListTerms).
		GET("/:id", h.GetTerm).
		PUT("/:id", h.UpdateTerm).
		DELETE("/:id", h.DeleteTerm)
	return []RouteRegistrar{services, packages, terms}
}

func quotationGroup(h *handler.QuotationHandler) *DomainGroup {
	return crudGroup("quotations", h).
		POST("/:id/convert-to-contract", h.ConvertToContract)
}

func contractGroup(h *handler.ContractHandler) *DomainGroup {
	return crudGroup("contracts", h).
		PUT("/:id/terms", h.ReplaceTerms).
		POST("/:id/terms", h.AppendTerm).
		PATCH("/:id/terms/reorder", h.ReorderTerms).
		PATCH("/:id/sign", h.Sign).
		PATCH("/:id/activate", h.Activate).
		PATCH("/:id/complete", h.Complete).
		PATCH("/:id/cancel", h.Cancel).
		POST("/:id/renew", h.Renew)
}
