package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/bills/pkg/config"
)

//nolint:paralleltest
func TestNew(t *testing.T) {
	t.Setenv("AUTH_SERVICE_URL", "http://auth.local")
	t.Setenv("STORE_URL", "http://store.local")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	c, err := config.New(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, 8080, c.HTTP.Port)
	require.Equal(t, config.StoreDriverHTTP, c.Store.Driver)
	require.Equal(t, "http://store.local", c.Store.URL)
	require.Equal(t, 10*time.Second, c.Store.Timeout)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	require.Equal(t, "bill-submitted", c.Kafka.BillSubmittedTopic)
	require.Equal(t, 24*time.Hour, c.Jobs.DraftTTL)
	require.Equal(t, time.Minute, c.Auth.SessionTTL)
	require.True(t, c.KafkaEnabled())
}

//nolint:paralleltest
func TestNew_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "AUTH_SERVICE_URL=http://auth.local\nSTORE_DRIVER=none\nHTTP_PORT=9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Cleanup(func() {
		_ = os.Unsetenv("AUTH_SERVICE_URL")
		_ = os.Unsetenv("STORE_DRIVER")
		_ = os.Unsetenv("HTTP_PORT")
	})

	c, err := config.New(path)
	require.NoError(t, err)
	require.Equal(t, 9090, c.HTTP.Port)
	require.Equal(t, config.StoreDriverNone, c.Store.Driver)
	require.False(t, c.KafkaEnabled())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name:    "http driver without url",
			cfg:     config.Config{Store: config.Store{Driver: config.StoreDriverHTTP}},
			wantErr: true,
		},
		{
			name: "postgres driver without bucket",
			cfg: config.Config{
				Store:    config.Store{Driver: config.StoreDriverPostgres},
				Postgres: config.Postgres{DSN: "postgres://localhost/bills"},
			},
			wantErr: true,
		},
		{
			name: "postgres driver",
			cfg: config.Config{
				Store:    config.Store{Driver: config.StoreDriverPostgres},
				Postgres: config.Postgres{DSN: "postgres://localhost/bills"},
				S3:       config.S3{BucketURL: "http://s3.local/receipts"},
			},
		},
		{
			name: "offline",
			cfg:  config.Config{Store: config.Store{Driver: config.StoreDriverNone}},
		},
		{
			name:    "unknown driver",
			cfg:     config.Config{Store: config.Store{Driver: "firebase"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
