package domain

// NotificationKind identifies a best-effort user notification.
type NotificationKind string

const (
	NotificationTransactionStatusChanged NotificationKind = "transaction_status_changed"
	NotificationKYCStatusChanged         NotificationKind = "kyc_status_changed"
	NotificationNewMessage               NotificationKind = "new_message"
	NotificationPhoneCode                NotificationKind = "phone_code"
)

// Notification is the payload handed to the dispatcher. Delivery is
// fire-and-forget: no acknowledgement, no guarantee.
type Notification struct {
	Kind    NotificationKind  `json:"kind"`
	UserID  string            `json:"user_id"`
	Payload map[string]string `json:"payload,omitempty"`
}
