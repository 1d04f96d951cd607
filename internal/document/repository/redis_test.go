package repository

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/swetasamaddar-clear/document-finder/internal/document"
)

func TestRedisRepo_AppendRead(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepo(client, "test:documents")
	ctx := context.Background()

	require.NoError(t, repo.AppendRow(ctx, []string{"t1", "http://a.com", "Foo", "cats, pets"}))
	require.NoError(t, repo.AppendRow(ctx, []string{"t2", "http://b.com", "Bar", "dogs"}))

	rows, err := repo.ReadRows(ctx)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		document.HeaderRow,
		{"t1", "http://a.com", "Foo", "cats, pets"},
		{"t2", "http://b.com", "Bar", "dogs"},
	}, rows)

	n, err := m.List("test:documents")
	require.NoError(t, err)
	require.Len(t, n, 2)
}

func TestRedisRepo_CorruptElement(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Push("documents", "not-json")
	require.NoError(t, err)

	repo := NewRedisRepo(redis.NewClient(&redis.Options{Addr: m.Addr()}), "")
	_, err = repo.ReadRows(context.Background())
	require.Error(t, err)
}

func TestRedisRepo_ServerDown(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	m.Close()

	repo := NewRedisRepo(client, "")
	require.Error(t, repo.AppendRow(context.Background(), []string{"t", "u", "t", "g"}))
}
