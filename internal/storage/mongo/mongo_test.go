package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается в ENV MONGO_URL, каждый тест работает в своей БД.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("MONGO_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

func newStorage(t *testing.T) *RecordsStorage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	st, err := New(ctx, os.Getenv("MONGO_URL"), "t_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func TestIntegration_UpsertAndRead(t *testing.T) {
	st := newStorage(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	_, err := st.Record(ctx, "userProfile:c1")
	require.ErrorIs(t, err, storage.ErrNotFoundRecord)

	require.NoError(t, st.PutRecord(ctx, "userProfile:c1", "v1", time.Hour))
	require.NoError(t, st.PutRecord(ctx, "userProfile:c1", "v2", time.Hour))

	v, err := st.Record(ctx, "userProfile:c1")
	require.NoError(t, err)
	require.Equal(t, "v2", v)

	n, err := st.records.CountDocuments(ctx, map[string]any{})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

// Истёкшая запись не читается ещё до срабатывания TTL-монитора.
func TestIntegration_ExpiredIsNotFound(t *testing.T) {
	st := newStorage(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	base := time.Now()
	st.now = func() time.Time { return base }
	require.NoError(t, st.PutRecord(ctx, "k", "v", time.Minute))

	st.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err := st.Record(ctx, "k")
	require.ErrorIs(t, err, storage.ErrNotFoundRecord)
}

func TestDatabaseFromURI(t *testing.T) {
	t.Parallel()

	require.Equal(t, "profiles", databaseFromURI("mongodb://h:27017/profiles", "x"))
	require.Equal(t, "x", databaseFromURI("mongodb://h:27017", "x"))
	require.Equal(t, defaultDBName, databaseFromURI("mongodb://h:27017/", ""))
}
