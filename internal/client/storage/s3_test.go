package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeStorageKey(t *testing.T) {
	key := MakeStorageKey("report.pdf")

	assert.True(t, strings.HasPrefix(key, "attachments/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	other := MakeStorageKey("report.pdf")
	assert.NotEqual(t, key, other, "keys must be unique per upload")
}

func TestResolvePublicURL_TrimsTrailingSlash(t *testing.T) {
	s := &S3Store{cfg: S3Config{Bucket: "kaizen-files", BaseEndpoint: "http://127.0.0.1:9000/"}}
	assert.Equal(t, "http://127.0.0.1:9000/kaizen-files/attachments/x.pdf",
		s.ResolvePublicURL("attachments/x.pdf"))
}

func TestClassifyUpload(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"missing bucket", "NoSuchBucket", ErrBucketMissing},
		{"denied", "AccessDenied", ErrPermissionDenied},
		{"forbidden", "Forbidden", ErrPermissionDenied},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyUpload(&smithy.GenericAPIError{Code: tc.code, Message: "nope"})
			assert.True(t, errors.Is(err, tc.want))
		})
	}
}

func TestClassifyUpload_OtherErrorsWrapped(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := classifyUpload(cause)

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrBucketMissing))
	assert.False(t, errors.Is(err, ErrPermissionDenied))
}
