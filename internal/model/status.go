package model

// Status represents the stock state of a product.
type Status string

const (
	// StatusAvailable indicates the product is in stock and purchasable.
	StatusAvailable Status = "available"
	// StatusRestoring indicates the product is being refurbished.
	StatusRestoring Status = "restoring"
	// StatusOnTheWay indicates new stock has been ordered and is in transit.
	StatusOnTheWay Status = "on_the_way"
	// StatusOutOfStock indicates the product is temporarily unavailable.
	StatusOutOfStock Status = "out_of_stock"
	// StatusDiscontinued indicates the product will not be restocked.
	StatusDiscontinued Status = "discontinued"
)

// ValidStatuses returns every status value accepted on the wire, in a stable order.
func ValidStatuses() []string {
	return []string{
		string(StatusAvailable),
		string(StatusRestoring),
		string(StatusOnTheWay),
		string(StatusOutOfStock),
		string(StatusDiscontinued),
	}
}

// ParseStatus maps a wire string onto a Status. Unknown values are rejected.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAvailable, StatusRestoring, StatusOnTheWay, StatusOutOfStock, StatusDiscontinued:
		return Status(s), true
	default:
		return "", false
	}
}
