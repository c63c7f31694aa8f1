package types

import "fmt"

// SubmissionError describes why a trade was rejected by the acceptance
// endpoint or by client-side validation before sending.
type SubmissionError struct {
	Code    string           // one of the Err* codes below
	Message string           // human-readable description
	Trade   *TradeSubmission // offending trade, if any
}

func (e *SubmissionError) Error() string {
	if e.Trade != nil {
		return fmt.Sprintf("trade rejected (%s): %s [date=%s start=%s]", e.Code, e.Message, e.Trade.Date, e.Trade.StartTime)
	}

	return fmt.Sprintf("submission rejected (%s): %s", e.Code, e.Message)
}

// Validation error codes for trade submissions.
const (
	ErrMissingTimestamps   = "MISSING_TIMESTAMPS"
	ErrNonPositiveQuantity = "NON_POSITIVE_QUANTITY"
	ErrNonPositivePrice    = "NON_POSITIVE_PRICE"
)

// Validate checks the fields the acceptance endpoint requires.
func (t *TradeSubmission) Validate() *SubmissionError {
	if t.Date == "" || t.StartTime == "" || t.EndTime == "" {
		return &SubmissionError{
			Code:    ErrMissingTimestamps,
			Message: "date, startTime and end_time are required",
			Trade:   t,
		}
	}

	if t.Quantity <= 0 {
		return &SubmissionError{
			Code:    ErrNonPositiveQuantity,
			Message: "quantity must be greater than zero",
			Trade:   t,
		}
	}

	if t.Price <= 0 {
		return &SubmissionError{
			Code:    ErrNonPositivePrice,
			Message: "price must be greater than zero",
			Trade:   t,
		}
	}

	return nil
}
