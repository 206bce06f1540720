package services

import (
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
)

// NewServiceContainer wires the repositories into the full service graph.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	shiftSvc := NewShiftService(repos.ShiftRepo)
	ledgerSvc := NewLedgerService(repos.AccountRepo, repos.TransactionRepo)
	voucherSvc := NewVoucherService(repos.VoucherRepo, repos.TransactionRepo, ledgerSvc)
	settlementSvc := NewSettlementService(repos.ShiftRepo, repos.ReadingRepo, ledgerSvc)

	return &portssvc.ServiceContainer{
		Account:    accountSvc,
		Shift:      shiftSvc,
		Ledger:     ledgerSvc,
		Voucher:    voucherSvc,
		Settlement: settlementSvc,
	}
}
