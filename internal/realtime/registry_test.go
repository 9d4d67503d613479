package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(memberID string, registry *Registry, bufferSize int) *Client {
	// conn == nil: pump-ы не запускаются, канал Send читается напрямую
	return NewClient(memberID, nil, registry, bufferSize)
}

func TestRegistry_PushReachesAllConnections(t *testing.T) {
	registry := NewRegistry()

	// Два соединения одного участника (две вкладки)
	first := newTestClient("alice", registry, 8)
	second := newTestClient("alice", registry, 8)
	registry.Register("alice", first)
	registry.Register("alice", second)

	other := newTestClient("bob", registry, 8)
	registry.Register("bob", other)

	registry.Push("alice", "payload")

	assert.Equal(t, "payload", <-first.Send)
	assert.Equal(t, "payload", <-second.Send)
	assert.Empty(t, other.Send, "Чужой участник ничего не получает")
}

func TestRegistry_PushToUnknownMemberIsNoop(t *testing.T) {
	registry := NewRegistry()
	assert.NotPanics(t, func() {
		registry.Push("ghost", "payload")
	})
}

func TestRegistry_UnregisterPrunesEmptyEntry(t *testing.T) {
	registry := NewRegistry()

	client := newTestClient("alice", registry, 8)
	registry.Register("alice", client)
	require.Equal(t, 1, registry.MemberCount())
	require.Equal(t, 1, registry.ConnectionCount("alice"))

	registry.Unregister("alice", client)
	assert.Zero(t, registry.MemberCount(), "Пустая запись участника удаляется из карты")
	assert.Zero(t, registry.ConnectionCount("alice"))

	select {
	case <-client.Done():
	default:
		t.Fatal("После выселения done должен быть закрыт")
	}
}

func TestRegistry_SlowClientIsEvicted(t *testing.T) {
	registry := NewRegistry()

	slow := newTestClient("alice", registry, 1)
	healthy := newTestClient("alice", registry, 8)
	registry.Register("alice", slow)
	registry.Register("alice", healthy)

	// Первый push заполняет буфер медленного клиента, второй его выселяет
	registry.Push("alice", "one")
	registry.Push("alice", "two")

	assert.Equal(t, 1, registry.ConnectionCount("alice"), "Захлебнувшееся соединение выселено")

	select {
	case <-slow.Done():
	default:
		t.Fatal("Выселенный клиент должен получить сигнал done")
	}

	// Здоровое соединение получило оба сообщения
	assert.Equal(t, "one", <-healthy.Send)
	assert.Equal(t, "two", <-healthy.Send)
}

func TestRegistry_DoubleUnregisterIsSafe(t *testing.T) {
	registry := NewRegistry()
	client := newTestClient("alice", registry, 8)
	registry.Register("alice", client)

	assert.NotPanics(t, func() {
		registry.Unregister("alice", client)
		registry.Unregister("alice", client)
	})
}

func TestRegistry_ConcurrentPushAndChurn(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := newTestClient("alice", registry, 4)
			registry.Register("alice", client)
			registry.Push("alice", "payload")
			registry.Unregister("alice", client)
		}()
	}
	wg.Wait()

	assert.Zero(t, registry.ConnectionCount("alice"))
}
