package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityapi/internal/server"
	"activityapi/internal/shared"
)

const testToken = "client-test-token"

func newTestClient(t *testing.T, token string) (*Client, *server.MemoryStore) {
	t.Helper()
	store := server.NewMemoryStore()
	srv := httptest.NewServer(server.NewHandler(server.Options{Store: store, AdminToken: testToken}))
	t.Cleanup(srv.Close)
	c := New(&shared.ClientConfig{BaseURL: srv.URL + "/", AdminToken: token, Timeout: 5 * time.Second})
	return c, store
}

func TestClientInfo(t *testing.T) {
	c, _ := newTestClient(t, "")
	info, err := c.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "activity-api", info.Service)
	assert.Equal(t, "ok", info.Status)
	assert.Len(t, info.Endpoints, 6)
}

func TestClientStatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, testToken)

	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, c.UpsertStatus(ctx, shared.StatusUpsertRequest{
			Section: shared.Some(shared.SectionBuilding),
			Title:   shared.Some(title),
		}))
	}
	list, err := c.ListStatus(ctx)
	require.NoError(t, err)
	require.Len(t, list[shared.SectionBuilding], 3)
	assert.NotNil(t, list[shared.SectionLearning])

	ids := []int64{list[shared.SectionBuilding][2].ID, list[shared.SectionBuilding][0].ID, list[shared.SectionBuilding][1].ID}
	require.NoError(t, c.ReorderStatus(ctx, shared.SectionBuilding, ids))

	list, err = c.ListStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C", list[shared.SectionBuilding][0].Title)

	first := list[shared.SectionBuilding][0].ID
	require.NoError(t, c.UpsertStatus(ctx, shared.StatusUpsertRequest{
		ID:          shared.Some(first),
		Description: shared.Some("now with notes"),
	}))
	require.NoError(t, c.DeleteStatus(ctx, list[shared.SectionBuilding][1].ID))

	list, err = c.ListStatus(ctx)
	require.NoError(t, err)
	require.Len(t, list[shared.SectionBuilding], 2)
	assert.Equal(t, "now with notes", list[shared.SectionBuilding][0].Description)
}

func TestClientLogs(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, testToken)

	require.NoError(t, c.CreateLog(ctx, "tech", "one"))
	require.NoError(t, c.CreateLog(ctx, "life", "two"))

	entries, err := c.ListLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "two", entries[0].Message)

	entries, err = c.ListLogs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	c, store := newTestClient(t, "wrong")
	err := c.CreateLog(ctx, "tech", "nope")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.Zero(t, store.CallCount())

	c, _ = newTestClient(t, testToken)
	err = c.UpsertStatus(ctx, shared.StatusUpsertRequest{Section: shared.Some(shared.Section("other")), Title: shared.Some("x")})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "Invalid section")

	err = c.DeleteStatus(ctx, 0)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}
