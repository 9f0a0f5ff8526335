// Package bootstrap is the composition root shared by the server binary and
// the end-to-end tests: it builds repositories, services and handlers over
// one database handle.
package bootstrap

import (
	"context"

	auditapp "github.com/agency/planner/internal/application/audit"
	catalogapp "github.com/agency/planner/internal/application/catalog"
	clientapp "github.com/agency/planner/internal/application/client"
	docapp "github.com/agency/planner/internal/application/document"
	identityapp "github.com/agency/planner/internal/application/identity"
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/scope"
	"github.com/agency/planner/internal/infrastructure/auth"
	"github.com/agency/planner/internal/infrastructure/cache"
	"github.com/agency/planner/internal/infrastructure/persistence"
	"github.com/agency/planner/internal/interfaces/http/handler"
	"github.com/agency/planner/internal/interfaces/http/router"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options configures the optional collaborators of the container
type Options struct {
	Logger *zap.Logger
	JWT    *auth.JWTService
	// Blacklist defaults to an in-memory blacklist
	Blacklist auth.TokenBlacklist
	// CatalogCache, when set, fronts catalog lookups with Redis
	CatalogCache *cache.CatalogCache
	// Metrics, when set, records document outcomes
	Metrics    docapp.DocumentMetrics
	AuthConfig identityapp.AuthServiceConfig
}

// Repositories holds the store implementations
type Repositories struct {
	Services    catalog.ServiceRepository
	Packages    catalog.PackageRepository
	Terms       catalog.ContractTermRepository
	Clients     *persistence.GormClientRepository
	Segments    client.SegmentRepository
	Competitors client.CompetitorRepository
	Branches    client.BranchRepository
	SocialLinks client.SocialLinkRepository
	Quotations  *persistence.GormQuotationRepository
	Plans       *persistence.GormCampaignPlanRepository
	Contracts   *persistence.GormContractRepository
	Audit       *persistence.GormAuditRepository
	Users       *persistence.GormUserRepository
}

// NewRepositories creates the gorm repositories, decorating the catalog
// ones with the cache when one is given
func NewRepositories(db *gorm.DB, catalogCache *cache.CatalogCache) *Repositories {
	repos := &Repositories{
		Services:    persistence.NewGormServiceRepository(db),
		Packages:    persistence.NewGormPackageRepository(db),
		Terms:       persistence.NewGormContractTermRepository(db),
		Clients:     persistence.NewGormClientRepository(db),
		Segments:    persistence.NewGormSegmentRepository(db),
		Competitors: persistence.NewGormCompetitorRepository(db),
		Branches:    persistence.NewGormBranchRepository(db),
		SocialLinks: persistence.NewGormSocialLinkRepository(db),
		Quotations:  persistence.NewGormQuotationRepository(db),
		Plans:       persistence.NewGormCampaignPlanRepository(db),
		Contracts:   persistence.NewGormContractRepository(db),
		Audit:       persistence.NewGormAuditRepository(db),
		Users:       persistence.NewGormUserRepository(db),
	}
	if catalogCache != nil {
		repos.Services = cache.NewServiceRepository(repos.Services, catalogCache)
		repos.Packages = cache.NewPackageRepository(repos.Packages, catalogCache)
		repos.Terms = cache.NewTermRepository(repos.Terms, catalogCache)
	}
	return repos
}

// Services holds every application service
type Services struct {
	Clients       *clientapp.ClientService
	Segments      *clientapp.SegmentService
	Competitors   *clientapp.CompetitorService
	Branches      *clientapp.BranchService
	SocialLinks   *clientapp.SocialLinkService
	Catalog       *catalogapp.ServiceCatalogService
	Packages      *catalogapp.PackageService
	Terms         *catalogapp.TermService
	Quotations    *docapp.QuotationService
	CampaignPlans *docapp.CampaignPlanService
	Contracts     *docapp.ContractService
	Audit         *auditapp.Service
	Auth          *identityapp.AuthService
	Users         *identityapp.UserService
}

// NewServices wires the application services over db
func NewServices(db *gorm.DB, opts Options) (*Services, *Repositories) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	blacklist := opts.Blacklist
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	authConfig := opts.AuthConfig
	if authConfig.MaxLoginAttempts == 0 {
		authConfig = identityapp.DefaultAuthServiceConfig()
	}

	repos := NewRepositories(db, opts.CatalogCache)
	tx := persistence.NewGormTransactor(db)
	numbers := document.NewNumberGenerator(persistence.NewGormSequenceStore(db))

	scopes := scope.NewValidator().
		Register(scope.KindSegments, scope.LookupFrom[client.Segment](repos.Segments.FindByIDs)).
		Register(scope.KindCompetitors, scope.LookupFrom[client.Competitor](repos.Competitors.FindByIDs)).
		Register(scope.KindBranches, scope.LookupFrom[client.Branch](repos.Branches.FindByIDs)).
		Register(scope.KindSocialLinks, scope.LookupFrom[client.SocialLink](repos.SocialLinks.FindByIDs)).
		Register(scope.KindQuotations, scope.LookupFrom[document.Quotation](repos.Quotations.FindByIDs)).
		Register(scope.KindCampaignPlans, scope.LookupFrom[document.CampaignPlan](repos.Plans.FindByIDs))
	normalizer := pricing.NewNormalizer(
		pricing.ItemsFrom[catalog.Service](repos.Services.FindByIDs),
		pricing.ItemsFrom[catalog.Package](repos.Packages.FindByIDs),
	)
	composer := document.NewTermComposer(termLookup(repos.Terms))
	assembler := docapp.NewAssembler(repos.Clients, scopes, normalizer)

	svc := &Services{
		Clients:       clientapp.NewClientService(repos.Clients),
		Segments:      clientapp.NewSegmentService(repos.Segments, repos.Clients),
		Competitors:   clientapp.NewCompetitorService(repos.Competitors, repos.Clients),
		Branches:      clientapp.NewBranchService(repos.Branches, repos.Clients),
		SocialLinks:   clientapp.NewSocialLinkService(repos.SocialLinks, repos.Clients),
		Catalog:       catalogapp.NewServiceCatalogService(repos.Services, repos.Clients),
		Packages:      catalogapp.NewPackageService(repos.Packages),
		Terms:         catalogapp.NewTermService(repos.Terms),
		Quotations:    docapp.NewQuotationService(repos.Quotations, repos.Contracts, assembler, numbers, tx),
		CampaignPlans: docapp.NewCampaignPlanService(repos.Plans, assembler, numbers, tx),
		Contracts:     docapp.NewContractService(repos.Contracts, assembler, composer, numbers, tx),
		Audit:         auditapp.NewService(repos.Audit),
		Auth:          identityapp.NewAuthService(repos.Users, opts.JWT, blacklist, authConfig, log),
		Users:         identityapp.NewUserService(repos.Users, log),
	}

	recorder := auditapp.NewRecorder(repos.Audit, log)
	svc.Clients.SetAuditSink(recorder)
	svc.Segments.SetAuditSink(recorder)
	svc.Competitors.SetAuditSink(recorder)
	svc.Branches.SetAuditSink(recorder)
	svc.SocialLinks.SetAuditSink(recorder)
	svc.Catalog.SetAuditSink(recorder)
	svc.Packages.SetAuditSink(recorder)
	svc.Terms.SetAuditSink(recorder)
	svc.Quotations.SetAuditSink(recorder)
	svc.CampaignPlans.SetAuditSink(recorder)
	svc.Contracts.SetAuditSink(recorder)
	svc.Users.SetAuditSink(recorder)

	if opts.Metrics != nil {
		svc.Quotations.SetMetrics(opts.Metrics)
		svc.CampaignPlans.SetMetrics(opts.Metrics)
		svc.Contracts.SetMetrics(opts.Metrics)
	}

	return svc, repos
}

// Handlers builds the HTTP handlers over the services
func (s *Services) Handlers(system *handler.SystemHandler) router.Handlers {
	return router.Handlers{
		Auth:          handler.NewAuthHandler(s.Auth),
		System:        system,
		Clients:       handler.NewClientHandler(s.Clients),
		Segments:      handler.NewScopedHandler(s.Segments),
		Competitors:   handler.NewScopedHandler(s.Competitors),
		Branches:      handler.NewScopedHandler(s.Branches),
		SocialLinks:   handler.NewScopedHandler(s.SocialLinks),
		Catalog:       handler.NewCatalogHandler(s.Catalog, s.Packages, s.Terms),
		Quotations:    handler.NewQuotationHandler(s.Quotations),
		CampaignPlans: handler.NewCampaignPlanHandler(s.CampaignPlans),
		Contracts:     handler.NewContractHandler(s.Contracts),
		Audit:         handler.NewAuditHandler(s.Audit),
		Users:         handler.NewUserHandler(s.Users),
	}
}

func termLookup(terms catalog.ContractTermRepository) document.TermLookup {
	return func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
		found, err := terms.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make([]uuid.UUID, len(found))
		for i := range found {
			out[i] = found[i].ID
		}
		return out, nil
	}
}
