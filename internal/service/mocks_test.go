package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"workconnect/internal/mail"
	"workconnect/internal/model"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) CreateWithProfile(ctx context.Context, nu model.NewUser) (model.User, error) {
	args := m.Called(ctx, nu)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserStore) MarkEmailVerified(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockResetStore struct {
	mock.Mock
}

func (m *mockResetStore) ReplaceReset(ctx context.Context, reset model.PasswordReset) error {
	return m.Called(ctx, reset).Error(0)
}

func (m *mockResetStore) ConsumeReset(ctx context.Context, token string, passwordHash string, now time.Time) (int64, error) {
	args := m.Called(ctx, token, passwordHash, now)
	return args.Get(0).(int64), args.Error(1)
}

// outbox records sent mail.
type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return o.err
}

func (o *outbox) messages() []mail.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]mail.Message(nil), o.sent...)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) all() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.sent...)
}

type mockApplicationStore struct {
	mock.Mock
}

func (m *mockApplicationStore) Apply(ctx context.Context, na model.NewApplication, now time.Time) (model.ApplicationParties, error) {
	args := m.Called(ctx, na, now)
	return args.Get(0).(model.ApplicationParties), args.Error(1)
}

// Transition runs check against the stubbed parties the way the repository
// does inside its transaction.
func (m *mockApplicationStore) Transition(ctx context.Context, applicationID int64, actorUserID int64, next model.ApplicationStatus, notes string, check func(model.ApplicationParties) error) (model.ApplicationParties, error) {
	args := m.Called(ctx, applicationID, actorUserID, next, notes)
	parties := args.Get(0).(model.ApplicationParties)
	if err := args.Error(1); err != nil {
		return model.ApplicationParties{}, err
	}
	if err := check(parties); err != nil {
		return model.ApplicationParties{}, err
	}
	parties.Status = next
	return parties, nil
}

func (m *mockApplicationStore) Parties(ctx context.Context, applicationID int64) (model.ApplicationParties, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).(model.ApplicationParties), args.Error(1)
}

func (m *mockApplicationStore) ForSeeker(ctx context.Context, seekerUserID int64) ([]model.Application, error) {
	args := m.Called(ctx, seekerUserID)
	return args.Get(0).([]model.Application), args.Error(1)
}

func (m *mockApplicationStore) ForEmployer(ctx context.Context, employerUserID int64, filter model.ApplicationFilter) ([]model.Application, error) {
	args := m.Called(ctx, employerUserID, filter)
	return args.Get(0).([]model.Application), args.Error(1)
}

func (m *mockApplicationStore) History(ctx context.Context, applicationID int64) ([]model.StatusChange, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]model.StatusChange), args.Error(1)
}

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) Search(ctx context.Context, filter model.JobFilter, now time.Time) ([]model.Job, int, error) {
	args := m.Called(ctx, filter, now)
	return args.Get(0).([]model.Job), args.Int(1), args.Error(2)
}

func (m *mockJobStore) Featured(ctx context.Context, limit int, now time.Time) ([]model.Job, error) {
	args := m.Called(ctx, limit, now)
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *mockJobStore) FindByID(ctx context.Context, id int64) (model.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *mockJobStore) EmployerUserID(ctx context.Context, jobID int64) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobStore) Categories(ctx context.Context, now time.Time) ([]model.Category, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockJobStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobStore) ByEmployer(ctx context.Context, employerUserID int64) ([]model.Job, error) {
	args := m.Called(ctx, employerUserID)
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *mockJobStore) Saved(ctx context.Context, seekerUserID int64) ([]model.Job, error) {
	args := m.Called(ctx, seekerUserID)
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *mockJobStore) Save(ctx context.Context, seekerUserID int64, jobID int64) error {
	return m.Called(ctx, seekerUserID, jobID).Error(0)
}

func (m *mockJobStore) Unsave(ctx context.Context, seekerUserID int64, jobID int64) error {
	return m.Called(ctx, seekerUserID, jobID).Error(0)
}

func (m *mockJobStore) Create(ctx context.Context, nj model.NewJob) (int64, error) {
	args := m.Called(ctx, nj)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobStore) Close(ctx context.Context, employerUserID int64, jobID int64) error {
	return m.Called(ctx, employerUserID, jobID).Error(0)
}

type mockPictureStore struct {
	mock.Mock
}

func (m *mockPictureStore) SetProfilePicture(ctx context.Context, userID int64, path string) (string, error) {
	args := m.Called(ctx, userID, path)
	return args.String(0), args.Error(1)
}

func (m *mockPictureStore) Employer(ctx context.Context, userID int64) (model.EmployerProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.EmployerProfile), args.Error(1)
}

func (m *mockPictureStore) SetCompanyLogo(ctx context.Context, userID int64, path string) (string, error) {
	args := m.Called(ctx, userID, path)
	return args.String(0), args.Error(1)
}
