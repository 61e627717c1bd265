package notification

// Message kinds handed to the Notifier
const (
	KindCommitment = "commitment"
	KindWithdrawal = "withdrawal"
	KindResolution = "resolution"
	KindLifecycle  = "lifecycle"
)

// Message templates
const (
	msgCommitmentFmt = "%d CU committed to %s on prediction %s"
	msgWithdrawalFmt = "%s on prediction %s: %d CU burned, %d CU refunded"
	msgResolutionFmt = "Prediction %s resolved %s, %d commitments settled"
	msgExpiredFmt    = "%d predictions closed to new commitments"
	msgActivatedFmt  = "Prediction %s is open for commitments"
)

// Log messages
const (
	LogMsgSubscribed      = "Notification dispatcher subscribed"
	LogMsgDecodeFailed    = "Notification payload could not be decoded"
	LogMsgDeliveryFailed  = "Notification delivery failed"
	LogMsgNotificationOut = "Notification"
)
