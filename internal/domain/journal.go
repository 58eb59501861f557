package domain

import "time"

// SubmissionStatus é o estado de uma tentativa de envio no diário.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

// SubmissionEntry registra uma tentativa de envio de transação em lote.
// IdempotencyKey é o mesmo valor enviado ao backend no header Idempotency-Key.
type SubmissionEntry struct {
	ID                 string           `json:"id"`
	DraftID            string           `json:"draftId"`
	IdempotencyKey     string           `json:"idempotencyKey"`
	UserID             int64            `json:"userId"`
	TransactionType    TransactionType  `json:"transactionType"`
	ItemCount          int              `json:"itemCount"`
	Payload            []byte           `json:"-"`
	Status             SubmissionStatus `json:"status"`
	TransactionGroupID string           `json:"transactionGroupId,omitempty"`
	ErrorMessage       string           `json:"errorMessage,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}
