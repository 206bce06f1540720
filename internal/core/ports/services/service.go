package services

// ServiceContainer bundles all service facades for dependency injection into
// the HTTP layer.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Shift      ShiftSvcFacade
	Ledger     LedgerSvcFacade
	Voucher    VoucherSvcFacade
	Settlement SettlementSvcFacade
}
