package shared

import "time"

const (
	UserID    = "user_id"
	UserRole  = "user_role"
	SessionID = "session_id"

	// AnswerUnanswered is the sentinel stored for a question the student
	// skipped. It never matches a correct answer.
	AnswerUnanswered = "unanswered"

	// CodePrefix prefixes every generated redemption code.
	CodePrefix = "MRW-"

	// SubscriptionWindow is how long a redeemed code unlocks content for.
	SubscriptionWindow = 30 * 24 * time.Hour

	BranchGeneral       = "general"
	BranchComprehensive = "comprehensive"
	BranchExternalFile  = "external-file"
)
