package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"job-portal/internal/auth"
	"job-portal/internal/domain"
	"job-portal/internal/repository"
	"job-portal/internal/storage"
)

var (
	// ErrMissingCV is returned when an application is submitted without a CV.
	ErrMissingCV = errors.New("a CV attachment is required")
	// ErrAlreadyResolved is returned when responding to a notification that
	// already carries a response.
	ErrAlreadyResolved = errors.New("notification already resolved")
	// ErrNotAllowed indicates the actor lacks the capability or ownership for
	// the operation.
	ErrNotAllowed = errors.New("operation not allowed")
	// ErrTransport wraps failures of the notification or attachment stores.
	// State is left unchanged when it is returned.
	ErrTransport = errors.New("transport failure")
)

const (
	approveMessage = "Your CV has been approved. We will contact you for confirmation."
	declineMessage = "Your CV has been declined. Thank you for applying."
)

// Attachment is an uploaded CV file.
type Attachment struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// ApplicationService drives the job-application workflow: a job seeker's
// submission produces a pending notification for the job's owner, the owner
// resolves it exactly once, and either party can drop it from their own view.
type ApplicationService interface {
	Submit(ctx context.Context, jobID int64, applicant *auth.Claims, cv *Attachment, coverLetter string) (*domain.Notification, error)
	Respond(ctx context.Context, notificationID int64, actor *auth.Claims, approved bool) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID int64, actor *auth.Claims) error
	ListFor(ctx context.Context, subjectID int64) ([]domain.Notification, error)
	GetFor(ctx context.Context, notificationID, subjectID int64) (*domain.Notification, error)
	Contact(ctx context.Context, employeeID int64, employer *auth.Claims) (*domain.Notification, error)
}

type applicationService struct {
	notifications repository.NotificationRepository
	jobs          repository.JobRepository
	users         repository.UserRepository
	attachments   storage.Service
	uploadOpts    storage.UploadOptions
}

func NewApplicationService(
	notifications repository.NotificationRepository,
	jobs repository.JobRepository,
	users repository.UserRepository,
	attachments storage.Service,
	uploadOpts storage.UploadOptions,
) ApplicationService {
	return &applicationService{
		notifications: notifications,
		jobs:          jobs,
		users:         users,
		attachments:   attachments,
		uploadOpts:    uploadOpts,
	}
}

func (s *applicationService) Submit(ctx context.Context, jobID int64, applicant *auth.Claims, cv *Attachment, coverLetter string) (*domain.Notification, error) {
	if applicant == nil || !auth.Can(applicant.Role, auth.CapApplyToJobs) {
		return nil, ErrNotAllowed
	}
	if cv == nil || cv.Content == nil {
		return nil, ErrMissingCV
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, transportError("load job", err)
	}

	// Upload before creating the notification: a failed upload leaves no
	// half-submitted application behind.
	cvRef, err := s.uploadCV(ctx, cv)
	if err != nil {
		return nil, transportError("upload cv", err)
	}

	name := applicant.Name
	if name == "" {
		name = "A job seeker"
	}
	notification := &domain.Notification{
		RecipientID: job.OwnerID,
		SenderID:    applicant.UserID,
		Type:        domain.NotificationApplyJob,
		Message:     fmt.Sprintf("%s applied for %q", name, job.Title),
		Match:       MatchesPosition(job.Title, applicant.Position),
		CVRef:       cvRef,
		CoverLetter: coverLetter,
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		// The upload already succeeded; remove the object so a failed
		// submission leaves no orphaned attachment behind.
		s.removeAttachment(ctx, cvRef)
		return nil, transportError("create notification", err)
	}
	return notification, nil
}

func (s *applicationService) Respond(ctx context.Context, notificationID int64, actor *auth.Claims, approved bool) (*domain.Notification, error) {
	if actor == nil || !auth.Can(actor.Role, auth.CapRespondToCV) {
		return nil, ErrNotAllowed
	}

	notification, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, transportError("load notification", err)
	}
	if notification.RecipientID != actor.UserID || notification.Type != domain.NotificationApplyJob {
		return nil, ErrNotAllowed
	}
	if notification.Resolved() {
		// Client-side fast path; the store below is the real authority.
		return nil, ErrAlreadyResolved
	}

	message := declineMessage
	if approved {
		message = approveMessage
	}
	if err := s.notifications.SetResponse(ctx, notificationID, message); err != nil {
		if errors.Is(err, repository.ErrResponseAlreadySet) {
			return nil, ErrAlreadyResolved
		}
		return nil, transportError("set response", err)
	}

	notification.Response = &message
	return notification, nil
}

func (s *applicationService) Delete(ctx context.Context, notificationID int64, actor *auth.Claims) error {
	if actor == nil {
		return ErrNotAllowed
	}

	notification, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return transportError("load notification", err)
	}
	if err := s.notifications.HideFor(ctx, notificationID, actor.UserID); err != nil {
		return transportError("delete notification", err)
	}

	// Once neither party can see the notification the store purges the row;
	// its CV object is then unreachable and can be removed too.
	if notification.CVRef != "" {
		if _, err := s.notifications.Get(ctx, notificationID); err != nil {
			s.removeAttachment(ctx, notification.CVRef)
		}
	}
	return nil
}

func (s *applicationService) ListFor(ctx context.Context, subjectID int64) ([]domain.Notification, error) {
	notifications, err := s.notifications.ListFor(ctx, subjectID)
	if err != nil {
		return nil, transportError("list notifications", err)
	}
	return notifications, nil
}

// GetFor loads a single notification on behalf of a party to it. Hidden or
// foreign notifications report not found, matching what ListFor would show.
func (s *applicationService) GetFor(ctx context.Context, notificationID, subjectID int64) (*domain.Notification, error) {
	notification, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, transportError("load notification", err)
	}
	switch {
	case notification.RecipientID == subjectID && notification.VisibleToRecipient:
	case notification.SenderID == subjectID && notification.VisibleToSender:
	default:
		return nil, errors.New("notification not found")
	}
	return notification, nil
}

func (s *applicationService) Contact(ctx context.Context, employeeID int64, employer *auth.Claims) (*domain.Notification, error) {
	if employer == nil || !auth.Can(employer.Role, auth.CapContactEmployee) {
		return nil, ErrNotAllowed
	}

	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, transportError("load employee", err)
	}
	if employee.Role != domain.RoleJobSeeker {
		return nil, ErrNotAllowed
	}

	name := employer.Name
	if name == "" {
		name = "An employer"
	}
	notification := &domain.Notification{
		RecipientID: employee.ID,
		SenderID:    employer.UserID,
		Type:        domain.NotificationInfoOnly,
		Message:     fmt.Sprintf("%s wants to contact you about a position", name),
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		return nil, transportError("create notification", err)
	}
	return notification, nil
}

func (s *applicationService) uploadCV(ctx context.Context, cv *Attachment) (string, error) {
	ext := path.Ext(cv.FileName)
	key := fmt.Sprintf("cv-%s%s", uuid.NewString(), ext)
	return s.attachments.Upload(ctx, key, cv.Content, cv.ContentType, s.uploadOpts)
}

// removeAttachment deletes a stored CV object. Failures are not surfaced; the
// notification state is already consistent and the object carries no reference
// back to it.
func (s *applicationService) removeAttachment(ctx context.Context, ref string) {
	bucket, key, err := storage.ParseRef(ref)
	if err != nil {
		return
	}
	_ = s.attachments.DeletePrefix(ctx, bucket, key)
}

// MatchesPosition reports whether the job title contains the applicant's
// desired position, case-insensitively. An empty desired position never
// matches.
func MatchesPosition(jobTitle, desiredPosition string) bool {
	position := strings.ToLower(strings.TrimSpace(desiredPosition))
	if position == "" {
		return false
	}
	return strings.Contains(strings.ToLower(jobTitle), position)
}

// transportError marks a store failure as retryable. Not-found errors pass
// through untouched so they keep their 404 mapping.
func transportError(op string, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		return err
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrTransport, err))
}
