package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(gw *fakeGateway) *UserService {
	return NewUserService(gw, newSync(gw), testLogger())
}

func validInput() NewUserInput {
	return NewUserInput{
		Username: "dung",
		Password: "s3cret",
		FullName: "Dung Pham",
		Role:     models.RoleContributor,
		Unit:     "TBT",
	}
}

func TestUserAdd_OK(t *testing.T) {
	gw := newFakeGateway()
	svc := newUserService(gw)

	require.NoError(t, svc.Add(context.Background(), adminUser, validInput()))

	require.Len(t, gw.insertedUsers, 1)
	p := gw.insertedUsers[0]
	assert.Equal(t, "dung", p.Username)

	// Stored as a bcrypt hash, never plaintext.
	assert.NotEqual(t, "s3cret", p.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("s3cret")))
}

func TestUserAdd_NonAdminRejected(t *testing.T) {
	gw := newFakeGateway()
	svc := newUserService(gw)

	for _, u := range []models.User{contribUser, viewerUser} {
		err := svc.Add(context.Background(), u, validInput())
		assert.True(t, errors.Is(err, common.ErrorUnauthorized), "role %s", u.Role)
	}
	assert.Empty(t, gw.insertedUsers)
}

func TestUserAdd_Validation(t *testing.T) {
	gw := newFakeGateway()
	svc := newUserService(gw)

	err := svc.Add(context.Background(), adminUser, NewUserInput{Unit: "NOWHERE"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	var verrs models.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, want := range []string{"username", "password", "full_name", "role", "unit"} {
		assert.True(t, fields[want], "expected field error for %q", want)
	}
	assert.Empty(t, gw.insertedUsers)
}

func TestUserAdd_DuplicateUsername(t *testing.T) {
	gw := newFakeGateway()
	gw.insertUserErr = &gateway.Error{
		Kind: gateway.KindValidation,
		Op:   "insert user",
		Err:  errors.New("duplicate key value violates unique constraint"),
	}
	svc := newUserService(gw)

	err := svc.Add(context.Background(), adminUser, validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `username "dung" is already taken`)
}

func TestUserDelete_SelfAlwaysRejected(t *testing.T) {
	gw := newFakeGateway()
	// Even with zero authored records.
	svc := newUserService(gw)

	err := svc.Delete(context.Background(), adminUser, adminUser.ID)
	assert.True(t, errors.Is(err, ErrDeleteSelf))
	assert.Empty(t, gw.deletedUserIDs)
}

func TestUserDelete_AuthorOfRecordsRejectedWithCount(t *testing.T) {
	gw := newFakeGateway()
	gw.countByAuthor["victim"] = 3
	svc := newUserService(gw)

	err := svc.Delete(context.Background(), adminUser, "victim")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserHasRecords))
	assert.Contains(t, err.Error(), "author of 3 records")
	assert.Empty(t, gw.deletedUserIDs)
}

func TestUserDelete_OK(t *testing.T) {
	gw := newFakeGateway()
	svc := newUserService(gw)

	require.NoError(t, svc.Delete(context.Background(), adminUser, "victim"))
	assert.Equal(t, []string{"victim"}, gw.deletedUserIDs)
}

func TestUserDelete_NonAdminRejected(t *testing.T) {
	gw := newFakeGateway()
	svc := newUserService(gw)

	err := svc.Delete(context.Background(), contribUser, "victim")
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}
