package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vetpoint/vetpoint/internal/api/dto"
	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/types"

	"github.com/shopspring/decimal"
)

// LoyaltyService is the single point of mutation for point balances. Every
// mutation appends an audit transaction and then updates the client
// aggregate; the per-client lock serializes the read-then-write sequence.
type LoyaltyService interface {
	// RecordPoints records a signed point delta for a client: appends a
	// ledger transaction and updates the client's balance, totals and tier
	RecordPoints(ctx context.Context, op *loyalty.PointsOperation) (*loyalty.Transaction, error)

	// AwardVisitPoints credits the program's per-visit points for a
	// completed appointment
	AwardVisitPoints(ctx context.Context, params *AwardVisitParams) (*loyalty.Transaction, error)

	// AwardGroomingPoints credits the program's per-grooming points
	AwardGroomingPoints(ctx context.Context, params *AwardGroomingParams) (*loyalty.Transaction, error)

	// AwardPurchasePoints credits points for a product purchase amount
	AwardPurchasePoints(ctx context.Context, params *AwardPurchaseParams) (*loyalty.Transaction, error)

	// RedeemPoints spends points; fails with ErrInsufficientBalance before
	// any write when the balance does not cover the redemption
	RedeemPoints(ctx context.Context, clientID string, req *dto.RedeemPointsRequest) (*loyalty.Transaction, error)

	// AdjustPoints applies a signed manual correction; no sufficiency check,
	// the balance floors at zero
	AdjustPoints(ctx context.Context, clientID string, req *dto.AdjustPointsRequest) (*loyalty.Transaction, error)

	// GetHistory returns the client's last transactions, newest first
	GetHistory(ctx context.Context, clientID string, limit int) ([]*loyalty.Transaction, error)

	// GetNextTier returns the client's progress towards the next tier
	GetNextTier(ctx context.Context, clientID string) (*dto.NextTierResponse, error)

	// Conversion helpers for the program's redemption rate
	GetCurrencyAmountFromPoints(points int64, redemptionRate int64) decimal.Decimal
	GetPointsFromCurrencyAmount(amount decimal.Decimal, redemptionRate int64) int64
}

// AwardVisitParams describes the automatic award for a completed appointment
type AwardVisitParams struct {
	ClientID      string
	AppointmentID string
	PetName       string
	// ActorID is the user credited as the transaction actor, e.g. the user
	// who created the appointment
	ActorID        string
	IdempotencyKey string
	Program        *loyalty.Program
}

// AwardGroomingParams describes the award for a grooming service
type AwardGroomingParams struct {
	ClientID       string
	ReferenceID    string
	PetName        string
	ActorID        string
	IdempotencyKey string
	Program        *loyalty.Program
}

// AwardPurchaseParams describes the award for a product purchase
type AwardPurchaseParams struct {
	ClientID    string
	PurchaseID  string
	AmountPesos int64
	Description string
	ActorID     string
	Program     *loyalty.Program
}

type loyaltyService struct {
	ServiceParams
}

// NewLoyaltyService creates a new instance of LoyaltyService
func NewLoyaltyService(params ServiceParams) LoyaltyService {
	return &loyaltyService{
		ServiceParams: params,
	}
}

func clientLockKey(tenantID, clientID string) string {
	return fmt.Sprintf("client:%s:%s", tenantID, clientID)
}

func (s *loyaltyService) RecordPoints(ctx context.Context, op *loyalty.PointsOperation) (*loyalty.Transaction, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	program := op.Program
	if program == nil {
		program = loyalty.DefaultProgram()
	}
	// Reject malformed config before any write
	if err := program.Validate(); err != nil {
		return nil, err
	}

	// Per-client lock held for the whole read+compute+write sequence: the
	// balance update is read-then-write, not a store-side atomic increment
	key := clientLockKey(types.GetTenantID(ctx), op.ClientID)
	s.Locks.Lock(key)
	defer s.Locks.Unlock(key)

	return s.recordPointsLocked(ctx, op, program)
}

func (s *loyaltyService) recordPointsLocked(ctx context.Context, op *loyalty.PointsOperation, program *loyalty.Program) (*loyalty.Transaction, error) {
	if op.IdempotencyKey != "" {
		existing, err := s.LoyaltyRepo.GetTransactionByIdempotencyKey(ctx, op.IdempotencyKey)
		if err == nil {
			s.Logger.Debugw("skipping duplicate points operation",
				"client_id", op.ClientID,
				"idempotency_key", op.IdempotencyKey,
				"transaction_id", existing.ID,
			)
			return existing, nil
		}
		if !ierr.IsNotFound(err) {
			return nil, err
		}
	}

	// The client is resolved before the ledger append, so an unknown client
	// never leaves an orphan transaction row
	c, err := s.ClientRepo.GetByID(ctx, op.ClientID)
	if err != nil {
		return nil, err
	}

	if op.Type == types.TransactionTypeRedeemed && c.LoyaltyPoints < -op.Points {
		return nil, ierr.NewError("insufficient points balance").
			WithHintf("Balance of %d points does not cover a redemption of %d", c.LoyaltyPoints, -op.Points).
			WithReportableDetails(map[string]any{
				"client_id": op.ClientID,
				"balance":   c.LoyaltyPoints,
				"points":    -op.Points,
			}).
			Mark(ierr.ErrInsufficientBalance)
	}

	newBalance := c.LoyaltyPoints + op.Points
	if newBalance < 0 {
		newBalance = 0
	}

	newEarned := c.Loyalty.TotalEarned
	newRedeemed := c.Loyalty.TotalRedeemed
	if op.Points > 0 {
		newEarned += op.Points
	} else {
		newRedeemed += -op.Points
	}

	// Tier comes from lifetime earned points, never from the balance
	tier := loyalty.TierForEarned(newEarned, program.Tiers)

	actor := op.ActorID
	if actor == "" {
		actor = types.GetUserID(ctx)
	}
	now := time.Now().UTC()

	tx := &loyalty.Transaction{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_TRANSACTION),
		ClientID:       op.ClientID,
		Type:           op.Type,
		Points:         op.Points,
		BalanceAfter:   newBalance,
		ReferenceType:  op.ReferenceType,
		ReferenceID:    op.ReferenceID,
		Description:    op.Description,
		IdempotencyKey: op.IdempotencyKey,
		Metadata:       op.Metadata,
		BaseModel: types.BaseModel{
			TenantID:  types.GetTenantID(ctx),
			Status:    types.StatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: actor,
			UpdatedBy: actor,
		},
	}

	if err := s.LoyaltyRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	c.LoyaltyPoints = newBalance
	c.Loyalty.TotalEarned = newEarned
	c.Loyalty.TotalRedeemed = newRedeemed
	c.Loyalty.Tier = tier
	if c.Loyalty.EnrolledAt == nil {
		c.Loyalty.EnrolledAt = &now
	}

	if err := s.ClientRepo.UpdateLoyalty(ctx, c); err != nil {
		// The ledger row is already durable and is the source of truth; a
		// reconciliation pass can rebuild the aggregate from transactions
		s.Logger.Errorw("loyalty transaction recorded but client aggregate update failed",
			"error", err,
			"client_id", op.ClientID,
			"transaction_id", tx.ID,
		)
		return nil, ierr.WithError(err).
			WithHint("Points were recorded but the client balance could not be updated").
			WithReportableDetails(map[string]any{
				"client_id":      op.ClientID,
				"transaction_id": tx.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	s.Logger.Debugw("recorded points",
		"client_id", op.ClientID,
		"type", op.Type,
		"points", op.Points,
		"balance_after", newBalance,
		"tier", tier,
	)
	return tx, nil
}

func (s *loyaltyService) AwardVisitPoints(ctx context.Context, params *AwardVisitParams) (*loyalty.Transaction, error) {
	program := params.Program
	if program == nil {
		program = loyalty.DefaultProgram()
	}

	return s.RecordPoints(ctx, &loyalty.PointsOperation{
		ClientID:       params.ClientID,
		Type:           types.TransactionTypeEarnedVisit,
		Points:         program.PointsPerVisit,
		Description:    fmt.Sprintf("Consulta de %s", params.PetName),
		ReferenceType:  types.LoyaltyTxReferenceTypeAppointment,
		ReferenceID:    params.AppointmentID,
		ActorID:        params.ActorID,
		IdempotencyKey: params.IdempotencyKey,
		Program:        program,
	})
}

func (s *loyaltyService) AwardGroomingPoints(ctx context.Context, params *AwardGroomingParams) (*loyalty.Transaction, error) {
	program := params.Program
	if program == nil {
		program = loyalty.DefaultProgram()
	}

	return s.RecordPoints(ctx, &loyalty.PointsOperation{
		ClientID:       params.ClientID,
		Type:           types.TransactionTypeEarnedGrooming,
		Points:         program.PointsPerGrooming,
		Description:    fmt.Sprintf("Peluquería de %s", params.PetName),
		ReferenceType:  types.LoyaltyTxReferenceTypeAppointment,
		ReferenceID:    params.ReferenceID,
		ActorID:        params.ActorID,
		IdempotencyKey: params.IdempotencyKey,
		Program:        program,
	})
}

func (s *loyaltyService) AwardPurchasePoints(ctx context.Context, params *AwardPurchaseParams) (*loyalty.Transaction, error) {
	program := params.Program
	if program == nil {
		program = loyalty.DefaultProgram()
	}

	points := params.AmountPesos * program.PointsPerPurchasePeso
	if points <= 0 {
		return nil, ierr.NewError("purchase amount yields no points").
			WithHint("Purchase amount must be positive").
			WithReportableDetails(map[string]any{
				"amount_pesos": params.AmountPesos,
			}).
			Mark(ierr.ErrValidation)
	}

	description := params.Description
	if description == "" {
		description = "Compra en tienda"
	}

	return s.RecordPoints(ctx, &loyalty.PointsOperation{
		ClientID:      params.ClientID,
		Type:          types.TransactionTypeEarnedPurchase,
		Points:        points,
		Description:   description,
		ReferenceType: types.LoyaltyTxReferenceTypePurchase,
		ReferenceID:   params.PurchaseID,
		ActorID:       params.ActorID,
		Program:       program,
	})
}

func (s *loyaltyService) RedeemPoints(ctx context.Context, clientID string, req *dto.RedeemPointsRequest) (*loyalty.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := resolveLoyaltyProgram(ctx, s.ServiceParams)
	if err != nil {
		return nil, err
	}

	return s.RecordPoints(ctx, &loyalty.PointsOperation{
		ClientID:      clientID,
		Type:          types.TransactionTypeRedeemed,
		Points:        -req.Points,
		Description:   req.Description,
		ReferenceType: types.LoyaltyTxReferenceTypeRedemption,
		Program:       program,
	})
}

func (s *loyaltyService) AdjustPoints(ctx context.Context, clientID string, req *dto.AdjustPointsRequest) (*loyalty.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := resolveLoyaltyProgram(ctx, s.ServiceParams)
	if err != nil {
		return nil, err
	}

	return s.RecordPoints(ctx, &loyalty.PointsOperation{
		ClientID:    clientID,
		Type:        types.TransactionTypeAdjusted,
		Points:      req.Points,
		Description: req.Description,
		Program:     program,
	})
}

func (s *loyaltyService) GetHistory(ctx context.Context, clientID string, limit int) ([]*loyalty.Transaction, error) {
	if clientID == "" {
		return nil, ierr.NewError("client_id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}

	return s.LoyaltyRepo.ListTransactions(ctx, &types.LoyaltyTransactionFilter{
		ClientID: clientID,
		Limit:    limit,
	})
}

func (s *loyaltyService) GetNextTier(ctx context.Context, clientID string) (*dto.NextTierResponse, error) {
	c, err := s.ClientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	program, err := resolveLoyaltyProgram(ctx, s.ServiceParams)
	if err != nil {
		return nil, err
	}

	return &dto.NextTierResponse{
		TotalEarned: c.Loyalty.TotalEarned,
		NextTier:    loyalty.NextTierInfo(c.Loyalty.TotalEarned, program.Tiers),
	}, nil
}

func (s *loyaltyService) GetCurrencyAmountFromPoints(points int64, redemptionRate int64) decimal.Decimal {
	return loyalty.PointsToCurrency(points, redemptionRate)
}

func (s *loyaltyService) GetPointsFromCurrencyAmount(amount decimal.Decimal, redemptionRate int64) int64 {
	return amount.Mul(decimal.NewFromInt(redemptionRate)).IntPart()
}
