package domain

type Product struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	ImagePath   string  `db:"image_path" json:"image_path,omitempty"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

type VerifiedDevice struct {
	ID         int64  `db:"id" json:"id"`
	DeviceID   string `db:"device_id" json:"device_id"`
	Name       string `db:"name" json:"name"`
	Phone      string `db:"phone" json:"phone"`
	VerifiedAt string `db:"verified_at" json:"verified_at"`
}

// Onboarded reports whether the device completed onboarding, not just
// the code challenge.
func (d VerifiedDevice) Onboarded() bool { return d.Name != "" && d.Phone != "" }

type PhoneUser struct {
	ID        int64  `db:"id" json:"id"`
	Phone     string `db:"phone" json:"phone"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type ExternalUser struct {
	ID         int64  `db:"id" json:"id"`
	ExternalID string `db:"external_id" json:"external_id"`
	Email      string `db:"email" json:"email"`
	Name       string `db:"name" json:"name"`
	Phone      string `db:"phone" json:"phone"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type PendingVerification struct {
	ID        int64  `db:"id"`
	SubjectID string `db:"subject_id"`
	Code      string `db:"code"`
	CreatedAt string `db:"created_at"`
}

const (
	MessageTypeVerification = "verification"
	MessageTypeInquiry      = "inquiry"
)

type Inquiry struct {
	ID             int64  `db:"id" json:"id"`
	CustomerName   string `db:"customer_name" json:"customer_name"`
	CustomerPhone  string `db:"customer_phone" json:"customer_phone"`
	ProductName    string `db:"product_name" json:"product_name"`
	ProductID      int64  `db:"product_id" json:"product_id,omitempty"`
	Quantity       *int64 `db:"quantity" json:"quantity,omitempty"`
	CollectionDate string `db:"collection_date" json:"collection_date,omitempty"`
	CollectionTime string `db:"collection_time" json:"collection_time,omitempty"`
	CreatedAt      string `db:"created_at" json:"created_at"`
}

type OwnerMessage struct {
	ID        int64  `db:"id" json:"id"`
	Type      string `db:"type" json:"type"`
	Title     string `db:"title" json:"title"`
	Content   string `db:"content" json:"content"`
	Metadata  string `db:"metadata" json:"metadata,omitempty"`
	IsRead    bool   `db:"is_read" json:"is_read"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
