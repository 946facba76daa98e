package product

// QueryProductsModel represents filter parameters for querying products.
// StockBelow selects products whose stock is strictly less than the given value.
type QueryProductsModel struct {
	Ids        []int64 `json:"ids,omitempty"`
	StockBelow *int    `json:"stockBelow,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}
