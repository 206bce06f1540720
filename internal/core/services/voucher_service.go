package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// voucherService drives the voucher workflow. Every mutation is one atomic
// unit executed by the repository; this layer validates, builds the pairs and
// the balance deltas, and never applies partial effects.
type voucherService struct {
	voucherRepo portsrepo.VoucherRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	ledgerSvc   portssvc.LedgerBuilderSvc
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, ledgerSvc portssvc.LedgerBuilderSvc) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo: voucherRepo,
		txnRepo:     txnRepo,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// CreateVoucher enters a new Payment or Receipt voucher together with its
// transaction pair.
func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pair, balanceChanges, err := s.ledgerSvc.BuildTransfer(ctx, portssvc.TransferSpec{
		Amount:        req.Amount,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Channel:       req.Channel,
		ChannelDetail: req.ChannelDetail.ToDomain(),
		TxnDate:       req.Date,
		ActorID:       creatorUserID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	voucher := domain.Voucher{
		VoucherID:          uuid.NewString(),
		VoucherNo:          req.VoucherNo,
		Type:               req.Type,
		FromAccountID:      req.FromAccountID,
		ToAccountID:        req.ToAccountID,
		DebitTransactionID: pair[0].TransactionID,
		PairID:             pair[0].PairID,
		Amount:             req.Amount,
		Channel:            req.Channel,
		VoucherDate:        req.Date,
		ShiftID:            req.ShiftID,
		Category:           req.Category,
		Description:        req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.voucherRepo.SaveVoucher(ctx, voucher, pair, balanceChanges); err != nil {
		logger.Error("Failed to save voucher", slog.String("voucher_no", req.VoucherNo), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID), slog.String("voucher_no", voucher.VoucherNo))
	return &voucher, nil
}

// UpdateVoucher re-runs the voucher's money movement: it reverses the old
// pair, applies a fresh transfer with the updated fields, deletes the old pair
// rows and repoints the voucher, all inside one repository transaction.
func (s *voucherService) UpdateVoucher(ctx context.Context, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	oldPair, err := s.txnRepo.FindTransactionsByPairID(ctx, voucher.PairID)
	if err != nil {
		return nil, err
	}
	if len(oldPair) != 2 {
		logger.Error("Voucher pair is incomplete", slog.String("voucher_id", voucherID), slog.String("pair_id", voucher.PairID), slog.Int("legs", len(oldPair)))
		return nil, fmt.Errorf("%w: voucher %s pair %s has %d legs", apperrors.ErrConsistency, voucherID, voucher.PairID, len(oldPair))
	}

	reversalChanges, err := s.ledgerSvc.BuildReversal(ctx, oldPair)
	if err != nil {
		return nil, err
	}

	updated := *voucher
	if req.FromAccountID != nil {
		updated.FromAccountID = *req.FromAccountID
	}
	if req.ToAccountID != nil {
		updated.ToAccountID = *req.ToAccountID
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Channel != nil {
		updated.Channel = *req.Channel
	}
	if req.Date != nil {
		updated.VoucherDate = *req.Date
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}

	channelDetail := oldPair[0].ChannelDetail
	if req.ChannelDetail != nil {
		channelDetail = req.ChannelDetail.ToDomain()
	}

	newPair, transferChanges, err := s.ledgerSvc.BuildTransfer(ctx, portssvc.TransferSpec{
		Amount:        updated.Amount,
		FromAccountID: updated.FromAccountID,
		ToAccountID:   updated.ToAccountID,
		Channel:       updated.Channel,
		ChannelDetail: channelDetail,
		TxnDate:       updated.VoucherDate,
		ActorID:       userID,
	})
	if err != nil {
		return nil, err
	}

	balanceChanges := mergeBalanceChanges(reversalChanges, transferChanges)

	oldPairID := updated.PairID
	updated.DebitTransactionID = newPair[0].TransactionID
	updated.PairID = newPair[0].PairID
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.voucherRepo.UpdateVoucherWithPair(ctx, updated, oldPairID, newPair, balanceChanges); err != nil {
		logger.Error("Failed to update voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Voucher updated", slog.String("voucher_id", voucherID), slog.String("old_pair_id", oldPairID), slog.String("new_pair_id", updated.PairID))
	return &updated, nil
}

// DeleteVoucher removes one voucher and its pair, reversing the balances.
func (s *voucherService) DeleteVoucher(ctx context.Context, voucherID string, userID string) error {
	return s.BulkDeleteVouchers(ctx, dto.BulkDeleteVouchersRequest{VoucherIDs: []string{voucherID}}, userID)
}

// BulkDeleteVouchers removes a batch of vouchers and their pairs in one
// repository transaction. Any missing voucher or incomplete pair aborts the
// whole batch before anything is touched.
func (s *voucherService) BulkDeleteVouchers(ctx context.Context, req dto.BulkDeleteVouchersRequest, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.VoucherIDs) == 0 {
		return fmt.Errorf("%w: no voucher ids given", apperrors.ErrValidation)
	}

	seen := make(map[string]bool, len(req.VoucherIDs))
	voucherIDs := make([]string, 0, len(req.VoucherIDs))
	pairIDs := make([]string, 0, len(req.VoucherIDs))
	balanceChanges := make(map[string]decimal.Decimal)

	for _, voucherID := range req.VoucherIDs {
		if seen[voucherID] {
			continue
		}
		seen[voucherID] = true

		voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
		if err != nil {
			return err
		}

		pair, err := s.txnRepo.FindTransactionsByPairID(ctx, voucher.PairID)
		if err != nil {
			return err
		}
		if len(pair) != 2 {
			logger.Error("Voucher pair is incomplete", slog.String("voucher_id", voucherID), slog.String("pair_id", voucher.PairID), slog.Int("legs", len(pair)))
			return fmt.Errorf("%w: voucher %s pair %s has %d legs", apperrors.ErrConsistency, voucherID, voucher.PairID, len(pair))
		}

		reversal, err := s.ledgerSvc.BuildReversal(ctx, pair)
		if err != nil {
			return err
		}
		balanceChanges = mergeBalanceChanges(balanceChanges, reversal)
		voucherIDs = append(voucherIDs, voucherID)
		pairIDs = append(pairIDs, voucher.PairID)
	}

	if err := s.voucherRepo.DeleteVouchersWithPairs(ctx, voucherIDs, pairIDs, balanceChanges, userID); err != nil {
		logger.Error("Failed to delete vouchers", slog.Int("count", len(voucherIDs)), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Vouchers deleted", slog.Int("count", len(voucherIDs)))
	return nil
}

// GetVoucherByID retrieves a single voucher.
func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return s.voucherRepo.FindVoucherByID(ctx, voucherID)
}

// ListVouchers retrieves a filtered, paginated voucher list.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, params.Type, params.From, params.To, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}

	return &dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(vouchers),
		NextToken: nextToken,
	}, nil
}

// mergeBalanceChanges sums two delta maps into a fresh map.
func mergeBalanceChanges(a, b map[string]decimal.Decimal) map[string]decimal.Decimal {
	merged := make(map[string]decimal.Decimal, len(a)+len(b))
	for id, delta := range a {
		merged[id] = merged[id].Add(delta)
	}
	for id, delta := range b {
		merged[id] = merged[id].Add(delta)
	}
	return merged
}
