package domain

// UserRecord is a read-only snapshot of a user from the directory store.
// UserID is the lookup key, not a stored column; the store fills it in.
type UserRecord struct {
	UserID  int    `db:"-"`
	Name    string `db:"user_name"`
	Email   string `db:"user_email"`
	Address string `db:"user_address"`
}

// LineItem is one purchased product entry within a transaction.
// SoldBy is present on at least the first item of a transaction.
type LineItem struct {
	ItemName    string  `bson:"item_name"`
	Description string  `bson:"description"`
	Quantity    int     `bson:"quantity"`
	Price       float64 `bson:"price"`
	SoldBy      string  `bson:"sold_by,omitempty"`
}

// TransactionRecord is a read-only snapshot of a transaction document from
// the ledger store.
type TransactionRecord struct {
	TransactionID string     `bson:"transaction_id"`
	Date          string     `bson:"date"`
	OrderNumber   string     `bson:"order_number"`
	PaymentMode   string     `bson:"payment_mode"`
	Items         []LineItem `bson:"items"`
}
