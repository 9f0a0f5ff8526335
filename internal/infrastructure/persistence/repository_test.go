package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/identity"
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/agency/planner/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func saveClient(t *testing.T, db *gorm.DB, name string) *client.Client {
	t.Helper()
	c, err := client.NewClient(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(context.Background(), c))
	return c
}

func listFilter() shared.Filter {
	return shared.DefaultFilter()
}

func TestServiceRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormServiceRepository(db)
	owner := saveClient(t, db, "Acme")
	other := saveClient(t, db, "Globex")

	global, err := catalog.NewService(valueobject.NewLocalizedText("Photo shoot", "تصوير"), decimal.NewFromInt(500), true, nil)
	require.NoError(t, err)
	require.NoError(t, global.SetPrice(decimal.NewFromInt(500), valueobject.PercentOff(10)))
	require.NoError(t, repo.Save(ctx, global))

	ownerID, otherID := owner.ID, other.ID
	own, err := catalog.NewService(valueobject.NewLocalizedText("Reels", "ريلز"), decimal.NewFromInt(200), false, &ownerID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, own))

	foreign, err := catalog.NewService(valueobject.NewLocalizedText("Website", "موقع"), decimal.NewFromInt(900), false, &otherID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, foreign))

	t.Run("round trip keeps discount and scope", func(t *testing.T) {
		found, err := repo.FindByID(ctx, global.ID)
		require.NoError(t, err)
		assert.Equal(t, "تصوير", found.Name.Ar)
		assert.True(t, found.Price.Equal(decimal.NewFromInt(500)))
		assert.True(t, found.Discount.Equals(valueobject.PercentOff(10)))
		assert.True(t, found.IsGlobal)
		assert.Nil(t, found.ClientID)

		found, err = repo.FindByID(ctx, own.ID)
		require.NoError(t, err)
		require.NotNil(t, found.ClientID)
		assert.Equal(t, owner.ID, *found.ClientID)
	})

	t.Run("client listing holds global and own services", func(t *testing.T) {
		items, total, err := repo.List(ctx, catalog.ServiceFilter{Filter: listFilter(), ClientID: &ownerID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		ids := []uuid.UUID{items[0].ID, items[1].ID}
		assert.ElementsMatch(t, []uuid.UUID{global.ID, own.ID}, ids)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		f := listFilter()
		f.Search = "WEB"
		items, total, err := repo.List(ctx, catalog.ServiceFilter{Filter: f})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, foreign.ID, items[0].ID)
	})

	t.Run("soft delete hides the row", func(t *testing.T) {
		require.NoError(t, repo.SoftDelete(ctx, foreign.ID))

		_, err := repo.FindByID(ctx, foreign.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDs(ctx, []uuid.UUID{global.ID, foreign.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, global.ID, found[0].ID)

		assert.ErrorIs(t, repo.SoftDelete(ctx, foreign.ID), shared.ErrNotFound)
	})
}

func TestPackageRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPackageRepository(newSQLiteDB(t))

	pkg, err := catalog.NewPackage(valueobject.NewLocalizedText("Starter", "مبتدئ"), decimal.NewFromInt(1500))
	require.NoError(t, err)
	serviceID := uuid.New()
	require.NoError(t, pkg.Update(pkg.Name, pkg.Price, valueobject.AmountOff(100),
		[]catalog.Feature{{En: "4 posts", Ar: "٤ منشورات", Quantity: "4"}}, []uuid.UUID{serviceID}))
	require.NoError(t, repo.Save(ctx, pkg))

	inactive, err := catalog.NewPackage(valueobject.NewLocalizedText("Legacy", "قديم"), decimal.NewFromInt(10))
	require.NoError(t, err)
	inactive.SetActive(false)
	require.NoError(t, repo.Save(ctx, inactive))

	found, err := repo.FindByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Feature{{En: "4 posts", Ar: "٤ منشورات", Quantity: "4"}}, found.Features)
	assert.Equal(t, []uuid.UUID{serviceID}, found.ServiceIDs)
	assert.True(t, found.Discount.Equals(valueobject.AmountOff(100)))

	_, total, err := repo.List(ctx, listFilter(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	items, err := repo.FindByIDs(ctx, []uuid.UUID{inactive.ID})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestContractTermRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormContractTermRepository(newSQLiteDB(t))

	term, err := catalog.NewContractTerm("Payment", "الدفع", "50% upfront", "٥٠٪ مقدماً")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, term))

	f := listFilter()
	f.Search = "pay"
	items, total, err := repo.List(ctx, f)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "الدفع", items[0].KeyAr)
	assert.Equal(t, 1, items[0].Version)
}

func TestClientAndScopedRepositories(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	clients := NewGormClientRepository(db)
	segments := NewGormSegmentRepository(db)
	branches := NewGormBranchRepository(db)

	acme := saveClient(t, db, "Acme")
	globex := saveClient(t, db, "Globex")

	ok, err := clients.Exists(ctx, acme.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, name := range []string{"Students", "Parents"} {
		s, err := client.NewSegment(acme.ID, valueobject.NewLocalizedText(name, ""), "")
		require.NoError(t, err)
		require.NoError(t, segments.Save(ctx, s))
	}
	foreign, err := client.NewSegment(globex.ID, valueobject.NewLocalizedText("Retirees", ""), "")
	require.NoError(t, err)
	require.NoError(t, segments.Save(ctx, foreign))

	items, total, err := segments.ListByClient(ctx, acme.ID, listFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, s := range items {
		assert.Equal(t, acme.ID, s.ClientID)
	}

	found, err := segments.FindByIDs(ctx, []uuid.UUID{foreign.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, globex.ID, found[0].GetClientID())

	branch, err := client.NewBranch(acme.ID, valueobject.NewLocalizedText("Downtown", "وسط البلد"), "Main St 1", "Cairo")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, branch))
	gotBranch, err := branches.FindByID(ctx, branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cairo", gotBranch.City)

	require.NoError(t, clients.SoftDelete(ctx, acme.ID))
	ok, err = clients.Exists(ctx, acme.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Scoped entities outlive a deleted client
	_, err = segments.FindByID(ctx, items[0].ID)
	assert.NoError(t, err)
}

func TestQuotationRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormQuotationRepository(db)
	acme := saveClient(t, db, "Acme")

	q, err := document.NewQuotation("QUO-2025-0001", uuid.New())
	require.NoError(t, err)
	q.SetClient(&acme.ID)
	serviceID := uuid.New()
	override := decimal.NewFromInt(900)
	require.NoError(t, q.Reprice(pricing.Normalized{
		Lines: []pricing.CatalogLine{{
			Kind: pricing.KindService, RefID: serviceID,
			UnitPrice: decimal.NewFromInt(1000), Discount: valueobject.PercentOff(10),
		}},
		CustomLines: []pricing.CustomLine{{
			Label: valueobject.NewLocalizedText("Travel", "سفر"), UnitPrice: decimal.NewFromInt(50),
			Discount: valueobject.NoDiscount(),
		}},
	}, valueobject.AmountOff(20), &override))
	require.NoError(t, repo.Save(ctx, q))

	prospect, err := document.NewQuotation("QUO-2025-0002", uuid.New())
	require.NoError(t, err)
	prospect.SetClientName("Walk-in")
	require.NoError(t, prospect.ChangeStatus(document.QuotationSent))
	require.NoError(t, repo.Save(ctx, prospect))

	t.Run("pricing round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, q.ID)
		require.NoError(t, err)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, serviceID, found.Lines[0].RefID)
		assert.True(t, found.Lines[0].Discount.Equals(valueobject.PercentOff(10)))
		require.Len(t, found.CustomLines, 1)
		assert.Equal(t, "سفر", found.CustomLines[0].Label.Ar)
		assert.True(t, found.DocumentDiscount.Equals(valueobject.AmountOff(20)))
		assert.True(t, found.Subtotal.Equal(decimal.NewFromInt(950)))
		assert.True(t, found.Total.Equal(override))
		assert.True(t, found.IsTotalOverridden)
		require.NotNil(t, found.OverriddenTotal)
		assert.True(t, found.OverriddenTotal.Equal(override))
		assert.Equal(t, q.CreatedBy, found.CreatedBy)
	})

	t.Run("filters by client and status", func(t *testing.T) {
		items, total, err := repo.List(ctx, document.ListFilter{Filter: listFilter(), ClientID: &acme.ID})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, q.ID, items[0].ID)

		items, total, err = repo.List(ctx, document.ListFilter{Filter: listFilter(), Status: string(document.QuotationSent)})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, "Walk-in", items[0].ClientName)
		assert.Nil(t, items[0].ClientID)
	})

	t.Run("unique number", func(t *testing.T) {
		dup, err := document.NewQuotation("QUO-2025-0001", uuid.New())
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrStorage)
	})
}

func TestCampaignPlanRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormCampaignPlanRepository(db)
	acme := saveClient(t, db, "Acme")

	plan, err := document.NewCampaignPlan("PLAN-000001", acme.ID, uuid.New())
	require.NoError(t, err)
	branchID := uuid.New()
	plan.SetReferences([]uuid.UUID{branchID}, nil, nil)
	linkID := uuid.New()
	plan.SetSocialLinks([]uuid.UUID{linkID})
	plan.Swot = document.Swot{Strengths: []string{"brand"}, Threats: []string{"price war"}}
	require.NoError(t, plan.SetObjectives([]document.Objective{{Name: "Awareness", NameAr: "الوعي"}}))
	require.NoError(t, plan.SetStrategy(document.Strategy{
		Budget:   decimal.RequireFromString("2500.50"),
		Timeline: []document.TimelineEntry{{Start: "2025-01", End: "2025-03", ObjectiveEn: "Launch"}},
	}))
	require.NoError(t, repo.Save(ctx, plan))

	found, err := repo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{branchID}, found.BranchIDs)
	assert.Empty(t, found.SegmentIDs)
	assert.NotNil(t, found.SegmentIDs)
	assert.Equal(t, []uuid.UUID{linkID}, found.SocialLinkIDs)
	assert.Equal(t, []string{"brand"}, found.Swot.Strengths)
	assert.Equal(t, "الوعي", found.Objectives[0].NameAr)
	assert.True(t, found.Strategy.Budget.Equal(decimal.RequireFromString("2500.50")))
	assert.Equal(t, "Launch", found.Strategy.Timeline[0].ObjectiveEn)
}

func TestContractRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormContractRepository(db)
	acme := saveClient(t, db, "Acme")

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	period, err := document.NewPeriod(start, start.AddDate(1, 0, 0))
	require.NoError(t, err)
	c, err := document.NewContract("CNT-2025-0001", acme.ID, uuid.New(), period)
	require.NoError(t, err)
	termID := uuid.New()
	c.SetTerms(document.Terms{
		{ID: uuid.New(), Order: 1, TermID: &termID},
		{ID: uuid.New(), Order: 0, IsCustom: true, CustomKey: "Scope", CustomKeyAr: "النطاق"},
	})
	require.NoError(t, c.Activate())
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, document.ContractActive, found.Status)
	assert.True(t, found.Period.Start.Equal(start))
	require.Len(t, found.Terms, 2)
	assert.Equal(t, []uuid.UUID{termID}, found.Terms.TermIDs())
	assert.Equal(t, "Scope", found.Terms.Sorted()[0].CustomKey)

	items, total, err := repo.List(ctx, document.ListFilter{Filter: listFilter(), Status: string(document.ContractActive)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.ID, items[0].ID)
}

func TestGormTransactor(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	tx := NewGormTransactor(db)
	clients := NewGormClientRepository(db)

	c, err := client.NewClient("Rolled back", "")
	require.NoError(t, err)
	err = tx.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, clients.Save(ctx, c))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	_, err = clients.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = tx.Transaction(ctx, func(ctx context.Context) error {
		return clients.Save(ctx, c)
	})
	require.NoError(t, err)
	_, err = clients.FindByID(ctx, c.ID)
	assert.NoError(t, err)
}

func TestGormSequenceStore(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	seq := NewGormSequenceStore(db)

	for want := int64(1); want <= 3; want++ {
		got, err := seq.NextValue(ctx, "QUO-2025")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := seq.NextValue(ctx, "QUO-2026")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	t.Run("rolled back numbers are handed out again", func(t *testing.T) {
		_ = NewGormTransactor(db).Transaction(ctx, func(ctx context.Context) error {
			n, err := seq.NextValue(ctx, "PLAN")
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			return assert.AnError
		})
		n, err := seq.NextValue(ctx, "PLAN")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("generator formats numbers", func(t *testing.T) {
		gen := document.NewNumberGenerator(seq).WithClock(func() time.Time {
			return time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC)
		})
		number, err := gen.ContractNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CNT-2027-0001", number)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newSQLiteDB(t))

	u, err := identity.NewUser("Admin", "s3cret-pass", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByUsername(ctx, " ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, identity.RoleAdmin, found.Role)
	assert.True(t, found.VerifyPassword("s3cret-pass"))

	taken, err := repo.ExistsByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, taken)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	for _, name := range []string{"maria", "marco"} {
		m, err := identity.NewUser(name, "s3cret-pass", identity.RoleManager)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, m))
	}

	filter := listFilter()
	filter.Search = "MAR"
	filter.OrderBy = "username"
	filter.OrderDir = "asc"
	users, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	assert.Equal(t, "marco", users[0].Username)

	filter = listFilter()
	filter.Filters["role"] = identity.RoleAdmin
	users, total, err = repo.List(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, u.ID, users[0].ID)
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAuditRepository(newSQLiteDB(t))
	actor := audit.Actor{UserID: uuid.New(), IP: "10.0.0.1", UserAgent: "test"}
	quotationID := uuid.New()

	require.NoError(t, repo.Create(ctx, audit.NewEntry(actor, audit.ActionCreate, "quotation", quotationID,
		map[string]any{"total": "100"})))
	require.NoError(t, repo.Create(ctx, audit.NewEntry(actor, audit.ActionDelete, "client", uuid.New(), nil)))

	entries, total, err := repo.List(ctx, audit.Filter{Filter: listFilter(), EntityType: "quotation"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, quotationID, entries[0].EntityID)
	assert.Equal(t, "10.0.0.1", entries[0].IP)
	assert.Equal(t, map[string]any{"total": "100"}, entries[0].Changes)

	_, total, err = repo.List(ctx, audit.Filter{Filter: listFilter(), UserID: &actor.UserID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
