package common

const (
	RentStatusUnpaid  = "unpaid"
	RentStatusPartial = "partial"
	RentStatusPaid    = "paid"

	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"

	PaymentMethodOnHand = "on hand"
	PaymentMethodOnline = "online"

	ComplaintStatusOpen       = "open"
	ComplaintStatusInProgress = "in progress"
	ComplaintStatusResolved   = "resolved"

	RoleAdmin   = "admin"
	RoleStudent = "student"

	ReconcileResultApproved        = "approved"
	ReconcileResultPaymentNotFound = "payment_not_found"
	ReconcileResultNumberMismatch  = "number_mismatch"
	ReconcileResultAmountMismatch  = "amount_mismatch"
	ReconcileResultError           = "error"

	// TopicSettlement is the in-process pubsub topic committed settlement
	// events are published on.
	TopicSettlement = "settlement"

	// AmountTolerance is the allowed discrepancy between the amount claimed
	// on a payment request and the amount reported by the wallet feed.
	// Feeds occasionally round to whole currency units.
	AmountTolerance = 1.0

	RentMonthLayout = "2006-01"
)
