package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
http:
  address: ":8080"
database:
  host: "db"
  port: 5432
  user: "u"
  password: "p"
  name: "flightbooking"
  ssl_mode: "disable"
kafka:
  brokers: ["k1:9092", "k2:9092"]
  booking_events_topic: "booking.events"
flights:
  base_url: "http://flights:3001"
  timeout_seconds: 5
booking:
  pnr_attempts: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=flightbooking sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "http://flights:3001", cfg.Flights.BaseURL)
	assert.Equal(t, 7, cfg.Booking.PNRAttempts)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("does-not-exist.yaml")
	assert.Error(t, err)
}
