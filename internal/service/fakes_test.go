package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"job-portal/internal/domain"
	"job-portal/internal/mailer"
	"job-portal/internal/repository"
	"job-portal/internal/storage"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[int64]*domain.Notification
	nextID        int64
	createErr     error
	setErr        error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[int64]*domain.Notification{}}
}

func (r *fakeNotificationRepo) Init(ctx context.Context) error { return nil }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Unix(1_700_000_000, 0).Add(time.Duration(r.nextID) * time.Second)
	n.VisibleToSender = true
	n.VisibleToRecipient = true
	copied := *n
	r.notifications[n.ID] = &copied
	return n.ID, nil
}

func (r *fakeNotificationRepo) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification not found")
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) ListFor(ctx context.Context, subjectID int64) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notifications {
		if (n.RecipientID == subjectID && n.VisibleToRecipient) ||
			(n.SenderID == subjectID && n.VisibleToSender) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNotificationRepo) SetResponse(ctx context.Context, id int64, response string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	n, ok := r.notifications[id]
	if !ok {
		return fmt.Errorf("notification not found")
	}
	if n.Response != nil {
		return repository.ErrResponseAlreadySet
	}
	n.Response = &response
	return nil
}

func (r *fakeNotificationRepo) HideFor(ctx context.Context, id int64, viewerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok || (n.SenderID != viewerID && n.RecipientID != viewerID) {
		return fmt.Errorf("notification not found")
	}
	if n.SenderID == viewerID {
		n.VisibleToSender = false
	}
	if n.RecipientID == viewerID {
		n.VisibleToRecipient = false
	}
	if !n.VisibleToSender && !n.VisibleToRecipient {
		delete(r.notifications, id)
	}
	return nil
}

var _ repository.NotificationRepository = (*fakeNotificationRepo)(nil)

type fakeJobRepo struct {
	mu     sync.Mutex
	jobs   map[int64]*domain.Job
	nextID int64
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[int64]*domain.Job{}}
}

func (r *fakeJobRepo) Init(ctx context.Context) error { return nil }

func (r *fakeJobRepo) Create(ctx context.Context, job *domain.Job) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = r.nextID
	job.CreatedAt = time.Unix(1_700_000_000, 0).Add(time.Duration(r.nextID) * time.Second)
	job.UpdatedAt = job.CreatedAt
	copied := *job
	r.jobs[job.ID] = &copied
	return job.ID, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, id int64, patch domain.JobPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job not found")
	}
	job.Title = patch.Title
	job.Company = patch.Company
	job.Location = patch.Location
	job.Description = patch.Description
	job.Contact = patch.Contact
	job.Salary = patch.Salary
	return nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) Get(ctx context.Context, id int64) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found")
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepo) List(ctx context.Context) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Job
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeJobRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Job, error) {
	all, _ := r.List(ctx)
	var out []domain.Job
	for _, job := range all {
		if job.OwnerID == ownerID {
			out = append(out, job)
		}
	}
	return out, nil
}

var _ repository.JobRepository = (*fakeJobRepo)(nil)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return 0, fmt.Errorf("user already exists")
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	user.PasswordHash = passwordHash
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeVerificationRepo struct {
	mu    sync.Mutex
	codes map[string]struct {
		code      string
		expiresAt int64
	}
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{codes: map[string]struct {
		code      string
		expiresAt int64
	}{}}
}

func (r *fakeVerificationRepo) Init(ctx context.Context) error { return nil }

func (r *fakeVerificationRepo) Put(ctx context.Context, email, code string, expiresAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[email] = struct {
		code      string
		expiresAt int64
	}{code, expiresAt}
	return nil
}

func (r *fakeVerificationRepo) Get(ctx context.Context, email string) (string, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.codes[email]
	if !ok {
		return "", 0, fmt.Errorf("verification code not found")
	}
	return entry.code, entry.expiresAt, nil
}

func (r *fakeVerificationRepo) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, email)
	return nil
}

// storedCode lets tests read back the code that would have been emailed.
func (r *fakeVerificationRepo) storedCode(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[email].code
}

var _ repository.VerificationRepository = (*fakeVerificationRepo)(nil)

type fakeStorage struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
}

func (s *fakeStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string, opts storage.UploadOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	full := key
	if prefix := strings.Trim(opts.KeyPrefix, "/"); prefix != "" {
		full = prefix + "/" + key
	}
	ref := fmt.Sprintf("s3://%s/%s", opts.Bucket, full)
	s.uploads = append(s.uploads, ref)
	return ref, nil
}

func (s *fakeStorage) GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.example.com/%s", bucket, key), nil
}

func (s *fakeStorage) DeletePrefix(ctx context.Context, bucket, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, fmt.Sprintf("s3://%s/%s", bucket, prefix))
	return nil
}

// deleted reports the refs removed so far.
func (s *fakeStorage) deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

var _ storage.Service = (*fakeStorage)(nil)

type fakeMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (m *fakeMailer) Enqueue(msg mailer.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *fakeMailer) sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.messages...)
}

var _ mailer.Sender = (*fakeMailer)(nil)
