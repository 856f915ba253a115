package web

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelsync/pkg/github"
)

func countingFactory(built map[string]int) ClientFactory {
	return func(token string) (github.APIClient, error) {
		if token == "broken" {
			return nil, errors.New("cannot build client")
		}
		built[token]++
		return &fakeClient{}, nil
	}
}

func TestClientPool_ReusesClientPerToken(t *testing.T) {
	built := map[string]int{}
	pool := newClientPool(4, countingFactory(built))

	a1, err := pool.get("token-a")
	require.NoError(t, err)
	a2, err := pool.get("token-a")
	require.NoError(t, err)
	b, err := pool.get("token-b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, map[string]int{"token-a": 1, "token-b": 1}, built)
}

func TestClientPool_BuildErrorIsNotKept(t *testing.T) {
	built := map[string]int{}
	pool := newClientPool(4, countingFactory(built))

	_, err := pool.get("broken")
	require.Error(t, err)
	assert.Empty(t, pool.clients)
}

func TestClientPool_EmptiesWhenFull(t *testing.T) {
	built := map[string]int{}
	pool := newClientPool(2, countingFactory(built))

	for _, token := range []string{"a", "b", "c"} {
		_, err := pool.get(token)
		require.NoError(t, err)
	}
	assert.Len(t, pool.clients, 1)

	_, err := pool.get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, built["a"])
}

func TestNewClientFactory_SameTokenSameClient(t *testing.T) {
	factory := NewClientFactory("http://127.0.0.1:1/")

	first, err := factory("token-a")
	require.NoError(t, err)
	second, err := factory("token-a")
	require.NoError(t, err)
	other, err := factory("token-b")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.IsType(t, &github.Client{}, first)
}
