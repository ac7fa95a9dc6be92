package domain

// CartCheckoutProductID is the sentinel product id the frontend sends when a
// whole cart is settled as one gateway transaction. It maps to a nil product
// reference on the derived order line.
const CartCheckoutProductID = "cart_checkout"

// Authorization is the hosted-checkout handle returned by the payment
// gateway when a transaction is initialized.
type Authorization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// MetadataKind tags the shape of the metadata a gateway reports with a
// verified transaction.
type MetadataKind string

const (
	// MetadataProduct means the transaction carries a concrete product
	// id and name attached at initialization time.
	MetadataProduct MetadataKind = "product"
	// MetadataGeneric means no usable product metadata came back; the
	// order gets a single generic line for the full amount.
	MetadataGeneric MetadataKind = "generic"
)

// TransactionMetadata is the structured form of the gateway's metadata
// blob. Product fields are only meaningful when Kind is MetadataProduct.
type TransactionMetadata struct {
	Kind        MetadataKind
	ProductID   string
	ProductName string
}

// VerifiedTransaction is the gateway's final word on a transaction.
// Success=false is a normal outcome (abandoned or failed charge), not an
// error; transport failures are errors instead.
type VerifiedTransaction struct {
	Reference     string
	Success       bool
	Amount        Money
	CustomerEmail string
	Metadata      TransactionMetadata
	RawStatus     string
}
