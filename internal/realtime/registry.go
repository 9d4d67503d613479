package realtime

import (
	"sync"

	"fittrack_backend/internal/logger"
)

// Registry - процессный реестр открытых live-соединений участников.
// Один участник может держать несколько соединений (вкладки, устройства).
// Реестр не персистентный и не разделяется между процессами: клиент без
// открытого соединения просто пропускает push и догоняет пропущенное
// через опрос неподтвержденных уведомлений при реконнекте.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register добавляет соединение участника в реестр. O(1).
func (r *Registry) Register(memberID string, client *Client) {
	r.mu.Lock()
	set, ok := r.clients[memberID]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[memberID] = set
	}
	set[client] = struct{}{}
	total := len(set)
	r.mu.Unlock()

	logger.Debug("realtime client registered", "member_id", memberID, "connections", total)
}

// Unregister убирает соединение; пустая запись участника удаляется сразу,
// чтобы карта не росла за время жизни процесса.
func (r *Registry) Unregister(memberID string, client *Client) {
	r.mu.Lock()
	if set, ok := r.clients[memberID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(r.clients, memberID)
		}
	}
	r.mu.Unlock()

	client.shutdown()
}

// Push доставляет payload во все открытые соединения участника.
// Best-effort: мертвое или захлебнувшееся соединение выселяется само,
// ошибка никогда не поднимается к вызывающему.
func (r *Registry) Push(memberID string, payload any) {
	r.mu.RLock()
	set, ok := r.clients[memberID]
	if !ok {
		r.mu.RUnlock()
		return
	}
	targets := make([]*Client, 0, len(set))
	for client := range set {
		targets = append(targets, client)
	}
	r.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- payload:
		default:
			// Буфер переполнен - соединение считается мертвым
			logger.Warn("realtime client evicted: send buffer full", "member_id", memberID)
			r.Unregister(memberID, client)
		}
	}
}

// ConnectionCount возвращает число открытых соединений участника
func (r *Registry) ConnectionCount(memberID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[memberID])
}

// MemberCount возвращает число участников хотя бы с одним соединением
func (r *Registry) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
