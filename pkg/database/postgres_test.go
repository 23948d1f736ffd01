package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-records/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "records",
		Password: "secret",
		Name:     "campus_records",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5432 user=records password=secret dbname=campus_records sslmode=disable", dsn)
}
