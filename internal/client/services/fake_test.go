package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/snapshot"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeGateway implements gateway.Gateway for service tests.
type fakeGateway struct {
	users   []models.User
	records []models.Record

	// per-method error injection
	listUsersErr   error
	listRecordsErr error
	statusErr      error
	insertUserErr  error
	deleteUserErr  error
	countErr       error

	// writeErrs are consumed one per InsertRecord/UpdateRecord call,
	// letting a test fail the first write and pass the retry.
	writeErrs []error

	insertedRecords []gateway.RecordPayload
	updatedRecords  []gateway.RecordPayload
	updatedIDs      []string
	insertedUsers   []gateway.UserPayload
	deletedUserIDs  []string
	viewIncrements  []string
	statusUpdates   map[string]models.Status

	countByAuthor map[string]int

	credUser models.User
	credHash string
	credErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		statusUpdates: make(map[string]models.Status),
		countByAuthor: make(map[string]int),
	}
}

func (f *fakeGateway) nextWriteErr() error {
	if len(f.writeErrs) == 0 {
		return nil
	}
	err := f.writeErrs[0]
	f.writeErrs = f.writeErrs[1:]
	return err
}

func (f *fakeGateway) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.listUsersErr != nil {
		return nil, f.listUsersErr
	}
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeGateway) ListRecords(ctx context.Context) ([]models.Record, error) {
	if f.listRecordsErr != nil {
		return nil, f.listRecordsErr
	}
	return append([]models.Record(nil), f.records...), nil
}

func (f *fakeGateway) InsertRecord(ctx context.Context, p gateway.RecordPayload) error {
	if err := f.nextWriteErr(); err != nil {
		return err
	}
	f.insertedRecords = append(f.insertedRecords, p)
	return nil
}

func (f *fakeGateway) UpdateRecord(ctx context.Context, id string, p gateway.RecordPayload) error {
	if err := f.nextWriteErr(); err != nil {
		return err
	}
	f.updatedRecords = append(f.updatedRecords, p)
	f.updatedIDs = append(f.updatedIDs, id)
	return nil
}

func (f *fakeGateway) UpdateRecordStatus(ctx context.Context, id string, status models.Status) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeGateway) IncrementViews(ctx context.Context, id string) error {
	f.viewIncrements = append(f.viewIncrements, id)
	return nil
}

func (f *fakeGateway) InsertUser(ctx context.Context, p gateway.UserPayload) error {
	if f.insertUserErr != nil {
		return f.insertUserErr
	}
	f.insertedUsers = append(f.insertedUsers, p)
	return nil
}

func (f *fakeGateway) DeleteUser(ctx context.Context, id string) error {
	if f.deleteUserErr != nil {
		return f.deleteUserErr
	}
	f.deletedUserIDs = append(f.deletedUserIDs, id)
	return nil
}

func (f *fakeGateway) CountRecordsByAuthor(ctx context.Context, authorID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countByAuthor[authorID], nil
}

func (f *fakeGateway) GetUserCredentials(ctx context.Context, username string) (models.User, string, error) {
	if f.credErr != nil {
		return models.User{}, "", f.credErr
	}
	return f.credUser, f.credHash, nil
}

// fakeStore implements storage.Store.
type fakeStore struct {
	uploadErr error
	uploads   []string // keys
	url       string
}

func (f *fakeStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	if f.url != "" {
		return f.url, nil
	}
	return "https://files.test/" + key, nil
}

func (f *fakeStore) ResolvePublicURL(key string) string {
	return "https://files.test/" + key
}

func newSync(gw *fakeGateway) *snapshot.Synchronizer {
	return snapshot.NewSynchronizer(gw, testLogger())
}

func schemaMismatchErr(column string) error {
	return &gateway.Error{
		Kind:   gateway.KindSchemaMismatch,
		Op:     "insert record",
		Column: column,
		Err:    errors.New("column does not exist"),
	}
}
