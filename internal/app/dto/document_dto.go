package dto

import "time"

// DocumentUpload is a decoded multipart upload.
type DocumentUpload struct {
	FileName string
	Content  []byte
}

type DocumentFields struct {
	CompanyName   *string  `json:"company_name,omitempty"`
	Budget        *float64 `json:"budget,omitempty"`
	Industry      *string  `json:"industry,omitempty"`
	EmployeeCount *int     `json:"employee_count,omitempty"`
}

type DocumentResult struct {
	FileName string         `json:"file_name,omitempty"`
	MimeType string         `json:"mime_type"`
	Text     string         `json:"text"`
	Fields   DocumentFields `json:"fields"`
	Language string         `json:"language,omitempty"`
}

// WebhookEvent is the raw Stripe delivery.
type WebhookEvent struct {
	Payload   []byte
	Signature string
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

// Subscription mirrors the billing state of a user.
type Subscription struct {
	UserID           string    `db:"user_id"`
	StripeCustomerID string    `db:"stripe_customer_id"`
	SubscriptionID   string    `db:"stripe_subscription_id"`
	Status           string    `db:"status"`
	Tier             string    `db:"tier"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ExpenseCategoryTotal is one row of the expense analysis.
type ExpenseCategoryTotal struct {
	Category string  `json:"category" db:"category"`
	Currency string  `json:"currency" db:"currency"`
	Total    float64 `json:"total" db:"total"`
	Count    int     `json:"count" db:"count"`
}
