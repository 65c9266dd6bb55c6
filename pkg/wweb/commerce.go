package wweb

import (
	"context"
	"sync"
)

// Order is the cart attached to an order message.
type Order struct {
	client *Client
	data   Raw

	Products  []*Product `json:"products,omitempty"`
	Subtotal  string     `json:"subtotal"`
	Total     string     `json:"total"`
	Currency  string     `json:"currency"`
	CreatedAt int64      `json:"createdAt"`
}

// NewOrder creates an Order, patching it when data is non-nil.
func NewOrder(client *Client, data Raw) *Order {
	o := &Order{client: client}
	if data != nil {
		o.Patch(data)
	}
	return o
}

// Patch replaces every field with values derived from data.
func (o *Order) Patch(data Raw) Raw {
	*o = Order{client: o.client, data: data}
	if products := data.Maps("products"); products != nil {
		o.Products = make([]*Product, 0, len(products))
		for _, p := range products {
			o.Products = append(o.Products, NewProduct(o.client, p))
		}
	}
	o.Subtotal = data.Text("subtotal")
	o.Total = data.Text("total")
	o.Currency = data.String("currency")
	o.CreatedAt = data.Int64("createdAt")
	return data
}

// Client returns the client the order was built with.
func (o *Order) Client() *Client { return o.client }

// RawData returns the payload the order was last patched from.
func (o *Order) RawData() Raw { return o.data }

// Payment is a payment message.
type Payment struct {
	client *Client
	data   Raw

	ID                          ID     `json:"id"`
	PaymentCurrency             string `json:"paymentCurrency"`
	PaymentAmount1000           int64  `json:"paymentAmount1000"`
	PaymentMessageReceiverJID   string `json:"paymentMessageReceiverJid"`
	PaymentTransactionTimestamp int64  `json:"paymentTransactionTimestamp"`
	PaymentStatus               int    `json:"paymentStatus"`
	PaymentTxnStatus            int    `json:"paymentTxnStatus"`
	PaymentNote                 string `json:"paymentNote,omitempty"`
}

// NewPayment creates a Payment, patching it when data is non-nil.
func NewPayment(client *Client, data Raw) *Payment {
	p := &Payment{client: client}
	if data != nil {
		p.Patch(data)
	}
	return p
}

// Patch replaces every field with values derived from data.
func (p *Payment) Patch(data Raw) Raw {
	*p = Payment{client: p.client, data: data}
	p.ID = data.ID("id")
	p.PaymentCurrency = data.String("paymentCurrency")
	p.PaymentAmount1000 = data.Int64("paymentAmount1000")
	p.PaymentMessageReceiverJID = data.Serialized("paymentMessageReceiverJid")
	p.PaymentTransactionTimestamp = data.Int64("paymentTransactionTimestamp")
	p.PaymentStatus = data.Int("paymentStatus")
	p.PaymentTxnStatus = data.Int("paymentTxnStatus")
	p.PaymentNote = data.Map("paymentNoteMsg").String("body")
	return data
}

// Client returns the client the payment was built with.
func (p *Payment) Client() *Client { return p.client }

// RawData returns the payload the payment was last patched from.
func (p *Payment) RawData() Raw { return p.data }

// Product is a catalog item referenced by an order or product message.
type Product struct {
	client *Client
	data   Raw

	ID           string `json:"id"`
	Price        string `json:"price"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Currency     string `json:"currency"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`

	mu       sync.Mutex
	metadata *ProductMetadata
	fetched  bool
}

// NewProduct creates a Product, patching it when data is non-nil.
func NewProduct(client *Client, data Raw) *Product {
	p := &Product{client: client}
	if data != nil {
		p.Patch(data)
	}
	return p
}

// Patch replaces every field with values derived from data and drops any
// cached metadata.
func (p *Product) Patch(data Raw) Raw {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data = data
	p.ID = data.Text("id")
	p.Price = data.Text("price")
	p.ThumbnailURL = data.String("thumbnailUrl")
	p.Currency = data.String("currency")
	p.Name = data.String("name")
	p.Quantity = data.Int("quantity")
	p.metadata, p.fetched = nil, false
	return data
}

// Client returns the client the product was built with.
func (p *Product) Client() *Client { return p.client }

// RawData returns the payload the product was last patched from.
func (p *Product) RawData() Raw { return p.data }

// GetData fetches the catalog metadata once and caches the outcome, nil
// included.
func (p *Product) GetData(ctx context.Context) (*ProductMetadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fetched {
		return p.metadata, nil
	}
	data, err := p.client.callRaw(ctx, fnGetProductMetadata, p.ID)
	if err != nil {
		return nil, err
	}
	if data != nil {
		p.metadata = NewProductMetadata(p.client, data)
	}
	p.fetched = true
	return p.metadata, nil
}

// ProductMetadata is the catalog entry of a product.
type ProductMetadata struct {
	client *Client
	data   Raw

	ID          string `json:"id"`
	RetailerID  string `json:"retailer_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewProductMetadata creates a ProductMetadata, patching it when data is
// non-nil.
func NewProductMetadata(client *Client, data Raw) *ProductMetadata {
	m := &ProductMetadata{client: client}
	if data != nil {
		m.Patch(data)
	}
	return m
}

// Patch replaces every field with values derived from data.
func (m *ProductMetadata) Patch(data Raw) Raw {
	*m = ProductMetadata{client: m.client, data: data}
	m.ID = data.Text("id")
	m.RetailerID = data.Text("retailer_id")
	m.Name = data.String("name")
	m.Description = data.String("description")
	return data
}

// Client returns the client the metadata was built with.
func (m *ProductMetadata) Client() *Client { return m.client }

// RawData returns the payload the metadata was last patched from.
func (m *ProductMetadata) RawData() Raw { return m.data }
