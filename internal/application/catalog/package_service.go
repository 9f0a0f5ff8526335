package catalog

import (
	"context"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const entityPackage = "package"

// PackageService handles package operations
type PackageService struct {
	packages catalog.PackageRepository
	audit    audit.Sink
}

// NewPackageService creates a new PackageService
func NewPackageService(packages catalog.PackageRepository) *PackageService {
	return &PackageService{packages: packages}
}

// SetAuditSink sets the audit sink
func (s *PackageService) SetAuditSink(sink audit.Sink) {
	s.audit = sink
}

// Create creates a package
func (s *PackageService) Create(ctx context.Context, actor audit.Actor, req PackageRequest) (*PackageResponse, error) {
	name := valueobject.NewLocalizedText(req.En, req.Ar)
	pkg, err := catalog.NewPackage(name, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.apply(pkg, req); err != nil {
		return nil, err
	}
	pkg.Version = 1
	if err := s.packages.Save(ctx, pkg); err != nil {
		return nil, err
	}
	resp := ToPackageResponse(pkg)
	recordAudit(ctx, s.audit, actor, audit.ActionCreate, entityPackage, pkg.ID, resp)
	return &resp, nil
}

// GetByID retrieves a package by ID
func (s *PackageService) GetByID(ctx context.Context, id uuid.UUID) (*PackageResponse, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPackageResponse(pkg)
	return &resp, nil
}

// List retrieves a page of packages
func (s *PackageService) List(ctx context.Context, filter PackageListFilter) (*ListResponse[PackageResponse], error) {
	base := toFilter(filter.Search, filter.Page, filter.PageSize)
	packages, total, err := s.packages.List(ctx, base, filter.ActiveOnly)
	if err != nil {
		return nil, err
	}
	items := make([]PackageResponse, len(packages))
	for i := range packages {
		items[i] = ToPackageResponse(&packages[i])
	}
	return &ListResponse[PackageResponse]{Items: items, Total: total, Page: base.Page, PageSize: base.PageSize}, nil
}

// Update replaces a package's contents
func (s *PackageService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req PackageRequest) (*PackageResponse, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(pkg, req); err != nil {
		return nil, err
	}
	if err := s.packages.Save(ctx, pkg); err != nil {
		return nil, err
	}
	resp := ToPackageResponse(pkg)
	recordAudit(ctx, s.audit, actor, audit.ActionUpdate, entityPackage, pkg.ID, resp)
	return &resp, nil
}

// Delete soft-deletes a package
func (s *PackageService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.packages.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.packages.SoftDelete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.audit, actor, audit.ActionDelete, entityPackage, id, nil)
	return nil
}

func (s *PackageService) apply(pkg *catalog.Package, req PackageRequest) error {
	discount, err := toDiscount(req.Discount, req.DiscountType)
	if err != nil {
		return err
	}
	features := make([]catalog.Feature, len(req.Features))
	for i, f := range req.Features {
		features[i] = catalog.Feature(f)
	}
	if err := pkg.Update(valueobject.NewLocalizedText(req.En, req.Ar), req.Price, discount, features, req.Services); err != nil {
		return err
	}
	if req.IsActive != nil {
		pkg.SetActive(*req.IsActive)
	}
	return nil
}
