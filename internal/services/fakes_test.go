package services

import (
	"cmp"
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"study-log-backend/internal/models"
	"study-log-backend/internal/repository"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var errStoreDown = errors.New("connection refused")

type memUsers struct {
	mu    sync.Mutex
	users []models.User
	err   error
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == user.Name {
			return repository.ErrDuplicate
		}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByName(_ context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.users), nil
}

func (m *memUsers) NameExists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.users, func(u models.User) bool { return u.Name == name }), nil
}

// memRecords keeps one record per (user, date) like the real stores
type memRecords struct {
	mu      sync.Mutex
	records []models.StudyRecord
	err     error
}

func (m *memRecords) ListAll(context.Context) ([]models.StudyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := slices.Clone(m.records)
	slices.SortFunc(out, func(a, b models.StudyRecord) int { return cmp.Compare(b.Date, a.Date) })
	return out, nil
}

func (m *memRecords) ListByUser(ctx context.Context, userID string) ([]models.StudyRecord, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(r models.StudyRecord) bool { return r.UserID != userID }), nil
}

func (m *memRecords) UpsertBatch(_ context.Context, records []models.StudyRecord) ([]models.StudyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	saved := make([]models.StudyRecord, 0, len(records))
	for _, r := range records {
		i := slices.IndexFunc(m.records, func(s models.StudyRecord) bool {
			return s.UserID == r.UserID && s.Date == r.Date
		})
		if i >= 0 {
			r.ID = m.records[i].ID
			m.records[i] = r
		} else {
			m.records = append(m.records, r)
		}
		saved = append(saved, r)
	}
	return saved, nil
}

type memComments struct {
	mu       sync.Mutex
	comments []models.Comment
}

func (m *memComments) Create(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memComments) ListByUser(_ context.Context, userID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for i := len(m.comments) - 1; i >= 0; i-- {
		if m.comments[i].UserID == userID {
			out = append(out, m.comments[i])
		}
	}
	return out, nil
}

type recordingListener struct {
	mu    sync.Mutex
	users []string
}

func (l *recordingListener) SubmissionSaved(_ context.Context, userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users = append(l.users, userID)
}

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failOn   error
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn != nil {
		return c.failOn
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	putErr  error
	presign *s3.PutObjectInput
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.presign = in
	return &v4.PresignedHTTPRequest{
		URL:    "https://upload.example.com/" + *in.Key + "?X-Amz-Signature=abc",
		Method: "PUT",
	}, nil
}
