package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vetpoint/vetpoint/internal/api/dto"
	"github.com/vetpoint/vetpoint/internal/cache"
	"github.com/vetpoint/vetpoint/internal/config"
	"github.com/vetpoint/vetpoint/internal/domain/client"
	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/lock"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/testutil"
	"github.com/vetpoint/vetpoint/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoyaltyServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service LoyaltyService

	clientStore  *testutil.InMemoryClientStore
	loyaltyStore *testutil.InMemoryLoyaltyStore
	tenantStore  *testutil.InMemoryTenantStore
}

func TestLoyaltyService(t *testing.T) {
	suite.Run(t, new(LoyaltyServiceSuite))
}

func (s *LoyaltyServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()

	s.clientStore = testutil.NewInMemoryClientStore()
	s.loyaltyStore = testutil.NewInMemoryLoyaltyStore()
	s.tenantStore = testutil.NewInMemoryTenantStore()

	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)

	params := ServiceParams{
		Logger:          log,
		Config:          cfg,
		Cache:           cache.NewInMemoryCache(),
		Locks:           lock.NewKeyedMutex(),
		ClientRepo:      s.clientStore,
		LoyaltyRepo:     s.loyaltyStore,
		AppointmentRepo: testutil.NewInMemoryAppointmentStore(),
		TenantRepo:      s.tenantStore,
	}
	s.service = NewLoyaltyService(params)
}

func (s *LoyaltyServiceSuite) seedClient(balance, earned, redeemed int64) *client.Client {
	c := &client.Client{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		FirstName:     "Ana",
		LastName:      "García",
		LoyaltyPoints: balance,
		Loyalty: client.LoyaltyStatus{
			TotalEarned:   earned,
			TotalRedeemed: redeemed,
			Tier:          loyalty.TierForEarned(earned, loyalty.DefaultProgram().Tiers),
		},
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.clientStore.Create(s.ctx, c))
	return c
}

func (s *LoyaltyServiceSuite) TestEarnPoints() {
	c := s.seedClient(0, 0, 0)

	tx, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID:    c.ID,
		Type:        types.TransactionTypeEarnedVisit,
		Points:      10,
		Description: "Consulta de Firulais",
	})
	s.NoError(err)
	s.Equal(int64(10), tx.Points)
	s.Equal(int64(10), tx.BalanceAfter)

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(10), got.LoyaltyPoints)
	s.Equal(int64(10), got.Loyalty.TotalEarned)
	s.Equal(int64(0), got.Loyalty.TotalRedeemed)
	s.Equal(types.LoyaltyTierBronze, got.Loyalty.Tier)
	s.NotNil(got.Loyalty.EnrolledAt)
}

func (s *LoyaltyServiceSuite) TestEnrolledAtSetOnce() {
	c := s.seedClient(0, 0, 0)

	_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: c.ID,
		Type:     types.TransactionTypeEarnedVisit,
		Points:   10,
	})
	s.NoError(err)

	first, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Require().NotNil(first.Loyalty.EnrolledAt)
	enrolledAt := *first.Loyalty.EnrolledAt

	time.Sleep(5 * time.Millisecond)
	_, err = s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: c.ID,
		Type:     types.TransactionTypeEarnedVisit,
		Points:   10,
	})
	s.NoError(err)

	second, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Require().NotNil(second.Loyalty.EnrolledAt)
	s.True(enrolledAt.Equal(*second.Loyalty.EnrolledAt))
}

func (s *LoyaltyServiceSuite) TestBalanceNeverNegative() {
	c := s.seedClient(30, 30, 0)

	// A manual adjustment may exceed the balance; the balance floors at zero
	tx, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID:    c.ID,
		Type:        types.TransactionTypeAdjusted,
		Points:      -50,
		Description: "corrección",
	})
	s.NoError(err)
	s.Equal(int64(0), tx.BalanceAfter)

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(0), got.LoyaltyPoints)
	s.Equal(int64(50), got.Loyalty.TotalRedeemed)
}

func (s *LoyaltyServiceSuite) TestRedeemPoints() {
	c := s.seedClient(300, 300, 0)

	tx, err := s.service.RedeemPoints(s.ctx, c.ID, &dto.RedeemPointsRequest{
		Points:      100,
		Description: "Descuento en consulta",
	})
	s.NoError(err)
	s.Equal(int64(-100), tx.Points)
	s.Equal(int64(200), tx.BalanceAfter)
	s.Equal(types.TransactionTypeRedeemed, tx.Type)

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(200), got.LoyaltyPoints)
	s.Equal(int64(100), got.Loyalty.TotalRedeemed)
	// Tier is derived from lifetime earned points, redeeming does not regress it
	s.Equal(types.LoyaltyTierSilver, got.Loyalty.Tier)
}

func (s *LoyaltyServiceSuite) TestRedeemInsufficientBalance() {
	c := s.seedClient(50, 50, 0)

	_, err := s.service.RedeemPoints(s.ctx, c.ID, &dto.RedeemPointsRequest{
		Points:      100,
		Description: "Descuento",
	})
	s.Error(err)
	s.True(ierr.IsInsufficientBalance(err))

	// Nothing was written
	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(50), got.LoyaltyPoints)

	history, err := s.service.GetHistory(s.ctx, c.ID, 10)
	s.NoError(err)
	s.Len(history, 0)
}

func (s *LoyaltyServiceSuite) TestTierBoundaries() {
	tiers := loyalty.DefaultProgram().Tiers
	s.Equal(types.LoyaltyTierBronze, loyalty.TierForEarned(199, tiers))
	s.Equal(types.LoyaltyTierSilver, loyalty.TierForEarned(200, tiers))
	s.Equal(types.LoyaltyTierSilver, loyalty.TierForEarned(499, tiers))
	s.Equal(types.LoyaltyTierGold, loyalty.TierForEarned(500, tiers))
	s.Equal(types.LoyaltyTierPlatinum, loyalty.TierForEarned(1000, tiers))
}

func (s *LoyaltyServiceSuite) TestTierPromotionOnEarn() {
	c := s.seedClient(190, 190, 0)

	_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: c.ID,
		Type:     types.TransactionTypeEarnedVisit,
		Points:   10,
	})
	s.NoError(err)

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(200), got.Loyalty.TotalEarned)
	s.Equal(types.LoyaltyTierSilver, got.Loyalty.Tier)
}

func (s *LoyaltyServiceSuite) TestIdempotentAward() {
	c := s.seedClient(0, 0, 0)

	op := &loyalty.PointsOperation{
		ClientID:       c.ID,
		Type:           types.TransactionTypeEarnedVisit,
		Points:         10,
		IdempotencyKey: "visit_award-deadbeef",
	}

	first, err := s.service.RecordPoints(s.ctx, op)
	s.NoError(err)

	second, err := s.service.RecordPoints(s.ctx, op)
	s.NoError(err)
	s.Equal(first.ID, second.ID)

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(10), got.LoyaltyPoints)

	history, err := s.service.GetHistory(s.ctx, c.ID, 10)
	s.NoError(err)
	s.Len(history, 1)
}

func (s *LoyaltyServiceSuite) TestUnknownClientLeavesNoOrphanTransaction() {
	_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: "client_missing",
		Type:     types.TransactionTypeEarnedVisit,
		Points:   10,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	history, err := s.service.GetHistory(s.ctx, "client_missing", 10)
	s.NoError(err)
	s.Len(history, 0)
}

func (s *LoyaltyServiceSuite) TestRejectsMalformedProgram() {
	c := s.seedClient(0, 0, 0)

	bad := loyalty.DefaultProgram()
	bad.Tiers.Silver = -1

	_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: c.ID,
		Type:     types.TransactionTypeEarnedVisit,
		Points:   10,
		Program:  bad,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	history, err := s.service.GetHistory(s.ctx, c.ID, 10)
	s.NoError(err)
	s.Len(history, 0)
}

func (s *LoyaltyServiceSuite) TestRejectsZeroPoints() {
	c := s.seedClient(0, 0, 0)

	_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: c.ID,
		Type:     types.TransactionTypeAdjusted,
		Points:   0,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LoyaltyServiceSuite) TestAggregateUpdateFailureKeepsLedgerRow() {
	c := s.seedClient(0, 0, 0)
	s.clientStore.FailUpdates = true

	_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
		ClientID: c.ID,
		Type:     types.TransactionTypeEarnedVisit,
		Points:   10,
	})
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// The ledger row stands as the source of truth for reconciliation
	history, err := s.service.GetHistory(s.ctx, c.ID, 10)
	s.NoError(err)
	s.Len(history, 1)

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(0), got.LoyaltyPoints)
}

func (s *LoyaltyServiceSuite) TestAwardVisitPoints() {
	c := s.seedClient(0, 0, 0)

	tx, err := s.service.AwardVisitPoints(s.ctx, &AwardVisitParams{
		ClientID:      c.ID,
		AppointmentID: "appt_01",
		PetName:       "Firulais",
	})
	s.NoError(err)
	s.Equal(int64(10), tx.Points)
	s.Equal(types.TransactionTypeEarnedVisit, tx.Type)
	s.Equal("Consulta de Firulais", tx.Description)
	s.Equal(types.LoyaltyTxReferenceTypeAppointment, tx.ReferenceType)
	s.Equal("appt_01", tx.ReferenceID)
}

func (s *LoyaltyServiceSuite) TestAwardGroomingPoints() {
	c := s.seedClient(0, 0, 0)

	tx, err := s.service.AwardGroomingPoints(s.ctx, &AwardGroomingParams{
		ClientID:    c.ID,
		ReferenceID: "appt_02",
		PetName:     "Michi",
	})
	s.NoError(err)
	s.Equal(int64(15), tx.Points)
	s.Equal(types.TransactionTypeEarnedGrooming, tx.Type)
}

func (s *LoyaltyServiceSuite) TestAwardPurchasePoints() {
	c := s.seedClient(0, 0, 0)

	tx, err := s.service.AwardPurchasePoints(s.ctx, &AwardPurchaseParams{
		ClientID:    c.ID,
		PurchaseID:  "purchase_01",
		AmountPesos: 350,
	})
	s.NoError(err)
	s.Equal(int64(350), tx.Points)
	s.Equal(types.TransactionTypeEarnedPurchase, tx.Type)
	s.Equal(types.LoyaltyTxReferenceTypePurchase, tx.ReferenceType)
}

func (s *LoyaltyServiceSuite) TestAwardPurchaseRejectsZeroAmount() {
	c := s.seedClient(0, 0, 0)

	_, err := s.service.AwardPurchasePoints(s.ctx, &AwardPurchaseParams{
		ClientID:    c.ID,
		AmountPesos: 0,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LoyaltyServiceSuite) TestGetHistoryNewestFirst() {
	c := s.seedClient(0, 0, 0)

	for i := 0; i < 5; i++ {
		_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
			ClientID: c.ID,
			Type:     types.TransactionTypeEarnedVisit,
			Points:   10,
		})
		s.Require().NoError(err)
	}

	history, err := s.service.GetHistory(s.ctx, c.ID, 3)
	s.NoError(err)
	s.Require().Len(history, 3)
	// Newest first: balance-after decreases down the page
	s.Equal(int64(50), history[0].BalanceAfter)
	s.Equal(int64(40), history[1].BalanceAfter)
	s.Equal(int64(30), history[2].BalanceAfter)
}

func (s *LoyaltyServiceSuite) TestGetNextTier() {
	c := s.seedClient(150, 150, 0)

	resp, err := s.service.GetNextTier(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(150), resp.TotalEarned)
	s.Require().NotNil(resp.NextTier)
	s.Equal(types.LoyaltyTierSilver, resp.NextTier.Tier)
	s.Equal(int64(50), resp.NextTier.PointsNeeded)
}

func (s *LoyaltyServiceSuite) TestGetNextTierAtPlatinum() {
	c := s.seedClient(1200, 1200, 0)

	resp, err := s.service.GetNextTier(s.ctx, c.ID)
	s.NoError(err)
	s.Nil(resp.NextTier)
}

func (s *LoyaltyServiceSuite) TestConcurrentAwardsSerialize() {
	c := s.seedClient(0, 0, 0)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.service.RecordPoints(s.ctx, &loyalty.PointsOperation{
				ClientID: c.ID,
				Type:     types.TransactionTypeEarnedVisit,
				Points:   10,
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.clientStore.GetByID(s.ctx, c.ID)
	s.NoError(err)
	s.Equal(int64(n*10), got.LoyaltyPoints)
	s.Equal(int64(n*10), got.Loyalty.TotalEarned)
}

func (s *LoyaltyServiceSuite) TestPointsCurrencyConversion() {
	amount := s.service.GetCurrencyAmountFromPoints(250, 100)
	s.True(amount.Equal(decimal.NewFromFloat(2.5)))

	points := s.service.GetPointsFromCurrencyAmount(decimal.NewFromFloat(2.5), 100)
	s.Equal(int64(250), points)
}
