package domain

import "time"

type NotificationType string

const (
	// NotificationApplyJob carries a job application and expects an
	// approve/decline response from the receiving employer.
	NotificationApplyJob NotificationType = "applyJob"
	// NotificationInfoOnly is a plain message with no response cycle.
	NotificationInfoOnly NotificationType = "infoOnly"
)

// Notification coordinates a job application (or contact request) between a
// sender and a recipient. Response is set at most once; after that the record
// is immutable apart from per-viewer visibility.
type Notification struct {
	ID          int64
	RecipientID int64
	SenderID    int64
	Type        NotificationType
	Message     string
	// Match records whether the job title matched the applicant's desired
	// position at submission time.
	Match       bool
	CVRef       string
	CoverLetter string
	Response    *string
	// Deleting a notification hides it for that party only; the row is
	// removed once neither party can see it.
	VisibleToSender    bool
	VisibleToRecipient bool
	CreatedAt          time.Time
}

// Resolved reports whether an employer response has been recorded.
func (n *Notification) Resolved() bool {
	return n.Response != nil && *n.Response != ""
}
