package domain

// PaymentVerdict is the provider's classification of a transaction. Any
// status the provider reports outside these three is treated as failed.
type PaymentVerdict string

const (
	PaymentSuccess PaymentVerdict = "SUCCESS"
	PaymentPending PaymentVerdict = "PENDING"
	PaymentFailed  PaymentVerdict = "FAILED"
)

// ClassifyReportedStatus maps a status string delivered by the provider
// (webhook body or status API) onto a verdict, failing closed on anything
// unrecognised.
func ClassifyReportedStatus(status string) PaymentVerdict {
	switch status {
	case "SUCCESS", "PAYMENT_SUCCESS":
		return PaymentSuccess
	case "PENDING", "PAYMENT_PENDING":
		return PaymentPending
	default:
		return PaymentFailed
	}
}
