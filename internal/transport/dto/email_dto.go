package dto

// SendEmailsRequest defines the structure for POST /emails/send/.
type SendEmailsRequest struct {
	CustomerIDs []int64 `json:"customer_ids" validate:"required,min=1,dive,min=1"`
	Subject     string  `json:"subject" validate:"required,max=200"`
	Body        string  `json:"body" validate:"required"`
}

type EmailRecipient struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
}

type EmailSkip struct {
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason"`
}

type EmailFailure struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	Error      string `json:"error"`
}

// SendEmailsResponse reports the outcome for every requested customer.
type SendEmailsResponse struct {
	OK           bool             `json:"ok"`
	FromEmail    string           `json:"from_email"`
	SentCount    int              `json:"sent_count"`
	SkippedCount int              `json:"skipped_count"`
	FailedCount  int              `json:"failed_count"`
	Sent         []EmailRecipient `json:"sent"`
	Skipped      []EmailSkip      `json:"skipped"`
	Failed       []EmailFailure   `json:"failed"`
}
