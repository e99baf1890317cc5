package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateOfferRequest is the request body for posting an offer.
type CreateOfferRequest struct {
	GiveCurrency   string   `json:"give_currency" binding:"required,len=3"`
	GiveAmount     float64  `json:"give_amount" binding:"required,gt=0"`
	GetCurrency    string   `json:"get_currency" binding:"required,len=3"`
	GetAmount      float64  `json:"get_amount" binding:"required,gt=0"`
	PaymentMethods []string `json:"payment_methods" binding:"required,min=1,dive,min=1,max=50"`
	Location       string   `json:"location" binding:"omitempty,max=100"`
	Comment        *string  `json:"comment,omitempty" binding:"omitempty,max=500"`
	TTLHours       int      `json:"ttl_hours" binding:"omitempty,gt=0,lte=720"`
}

// AcceptOfferRequest is the request body for opening a transaction.
type AcceptOfferRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,min=1,max=50"`
}

// UpdateTransactionStatusRequest carries the requested target status.
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitProofRequest carries the uploaded proof-of-payment URL.
type SubmitProofRequest struct {
	ProofURL string `json:"proof_url" binding:"required,safe_url"`
}

// PostMessageRequest is the request body for a chat message.
type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// KYCUpdateRequest is a partial update; absent fields are left unchanged.
type KYCUpdateRequest struct {
	FirstName       *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName        *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	DateOfBirth     *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Phone           *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Address         *string `json:"address,omitempty" binding:"omitempty,max=200"`
	City            *string `json:"city,omitempty" binding:"omitempty,max=100"`
	PostalCode      *string `json:"postal_code,omitempty" binding:"omitempty,max=20"`
	Country         *string `json:"country,omitempty" binding:"omitempty,max=100"`
	DocumentType    *string `json:"document_type,omitempty" binding:"omitempty,max=50"`
	DocumentURL     *string `json:"document_url,omitempty" binding:"omitempty,safe_url"`
	SelfieURL       *string `json:"selfie_url,omitempty" binding:"omitempty,safe_url"`
	AddressProofURL *string `json:"address_proof_url,omitempty" binding:"omitempty,safe_url"`
}

// VerifyPhoneRequest carries the one-time code.
type VerifyPhoneRequest struct {
	Code string `json:"code" binding:"required,min=4,max=10"`
}

// VerifyKYCRequest is the admin approval body; the note is optional.
type VerifyKYCRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// RejectKYCRequest is the admin rejection body; the reason is mandatory.
type RejectKYCRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SetLanguageRequest sets the user's preferred UI language.
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required,min=2,max=8"`
}

// ListResponse wraps a paginated collection.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewListResponse builds the pagination envelope.
func NewListResponse(items interface{}, total int64, page, pageSize int) ListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return ListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
