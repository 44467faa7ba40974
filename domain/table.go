package domain

// Table names a mongo collection, the memory backend uses the same names
type Table string

const (
	TableItems     = Table("items")
	TableListings  = Table("listings")
	TableSales     = Table("sales")
	TableBalances  = Table("balances")
	TableSequences = Table("sequences")
)
