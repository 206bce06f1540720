package repositories

// RepositoryProvider bundles all repository facades for dependency injection.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	VoucherRepo     VoucherRepositoryFacade
	ShiftRepo       ShiftRepositoryFacade
	ReadingRepo     ReadingRepositoryFacade
}
