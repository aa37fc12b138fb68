package reconciliation

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"order-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchiver_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "archive").Return(true, nil)

		require.NoError(t, NewArchiver(client, "archive", "order-sync", nil).EnsureBucket(ctx))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "archive").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "archive", mock.Anything).Return(nil)

		require.NoError(t, NewArchiver(client, "archive", "order-sync", nil).EnsureBucket(ctx))
		client.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "archive").Return(false, assert.AnError)

		err := NewArchiver(client, "archive", "order-sync", nil).EnsureBucket(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestArchiver_Archive(t *testing.T) {
	client := new(mocks.Client)
	a := NewArchiver(client, "archive", "order-sync", nil)
	report := sampleReport("run-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	uploaded := map[string][]byte{}
	client.On("PutObject", mock.Anything, "archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			assert.Equal(t, int64(len(data)), args.Get(4).(int64))
			assert.Equal(t, "application/json", args.Get(5).(minio.PutObjectOptions).ContentType)
			uploaded[args.String(2)] = data
		}).
		Return(minio.UploadInfo{}, nil)

	require.NoError(t, a.Archive(context.Background(), report, []string{"A1", "X1"}))

	require.Contains(t, uploaded, "order-sync/runs/run-1.json")
	require.Contains(t, uploaded, "order-sync/cache/run-1.json")

	var gotReport map[string]any
	require.NoError(t, json.Unmarshal(uploaded["order-sync/runs/run-1.json"], &gotReport))
	assert.Equal(t, "run-1", gotReport["id"])

	var snap cacheSnapshot
	require.NoError(t, json.Unmarshal(uploaded["order-sync/cache/run-1.json"], &snap))
	assert.Equal(t, []string{"A1", "X1"}, snap.ShippedOrders)
	assert.Equal(t, "run-1", snap.RunID)
}

func TestArchiver_ArchiveWithoutSnapshot(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "archive", "runs/run-1.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	a := NewArchiver(client, "archive", "", nil)
	require.NoError(t, a.Archive(context.Background(), sampleReport("run-1", time.Now()), nil))
	client.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestArchiver_ArchiveUploadError(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	err := NewArchiver(client, "archive", "p", nil).Archive(context.Background(), sampleReport("run-1", time.Now()), []string{"A"})
	assert.ErrorIs(t, err, assert.AnError)
	client.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestArchiver_Report(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "archive", "p/runs/run-1.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`{"id":"run-1"}`)), nil)
	client.On("GetObject", mock.Anything, "archive", "p/runs/run-2.json", mock.Anything).
		Return(nil, assert.AnError)

	a := NewArchiver(client, "archive", "p", nil)

	data, err := a.Report(context.Background(), "run-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"run-1"}`, string(data))

	_, err = a.Report(context.Background(), "run-2")
	assert.ErrorIs(t, err, assert.AnError)
}
