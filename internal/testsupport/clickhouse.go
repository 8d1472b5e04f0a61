package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/adapters/clickhouse"
)

// NewTestClickHouse connects to ClickHouse from the environment
func NewTestClickHouse(t *testing.T) *clickhouse.Client {
	t.Helper()

	client, err := clickhouse.NewClient(context.Background(), ClickHouseConfigFromEnv(t))
	if err != nil {
		t.Fatalf("failed to connect to clickhouse: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// TempTableName returns a unique table name dropped when the test ends
func TempTableName(t *testing.T, client *clickhouse.Client) string {
	t.Helper()

	table := fmt.Sprintf("tmp_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = client.Conn().Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
	})
	return table
}
