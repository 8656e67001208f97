package repository

// Repos agrupa los repositorios atados a una misma transacción (o al pool fuera de ella).
type Repos struct {
	Products    ProductRepository
	Movements   StockMovementRepository
	Sales       SaleRepository
	Reserves    ReserveRepository
	Closures    ClosureRepository
	Withdrawals WithdrawalRepository
	Providers   ProviderRepository
	Jbl         JblRepository
	Rates       RateRepository
}
