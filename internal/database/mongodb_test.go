package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongo_EmptyURI(t *testing.T) {
	client, err := ConnectMongo(context.Background(), "", time.Second)
	require.Error(t, err)
	require.Nil(t, client)
}

func TestConnectMongo_BadScheme(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "postgres://localhost:5432", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo connect")
}
