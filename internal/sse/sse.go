package sse

import "sync"

// Hub — рассылка событий запуска по его id.
// Хранит последние события, чтобы поздний подписчик получил начало запуска.
type Hub struct {
	mu      sync.Mutex
	topics  map[string]*topic
	history int
}

type topic struct {
	subs    []chan string
	history []string
	closed  bool
}

// NewHub создаёт hub, помнящий до history последних событий на id
func NewHub(history int) *Hub {
	return &Hub{topics: map[string]*topic{}, history: history}
}

func (h *Hub) topic(id string) *topic {
	t, ok := h.topics[id]
	if !ok {
		t = &topic{}
		h.topics[id] = t
	}
	return t
}

// Subscribe подписывает клиента на id: возвращает накопленные события,
// канал новых событий (закрывается по Close) и функцию-unsubscribe
func (h *Hub) Subscribe(id string) ([]string, <-chan string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.topic(id)
	past := append([]string(nil), t.history...)

	ch := make(chan string, 16)
	if t.closed {
		close(ch)
		return past, ch, func() {}
	}
	t.subs = append(t.subs, ch)

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, c := range t.subs {
			if c == ch {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				break
			}
		}
	}
	return past, ch, cancel
}

// Publish отсылает сообщение всем подписчикам id
func (h *Hub) Publish(id, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.topic(id)
	if t.closed {
		return
	}
	t.history = append(t.history, msg)
	if h.history > 0 && len(t.history) > h.history {
		t.history = t.history[len(t.history)-h.history:]
	}

	for _, ch := range t.subs {
		select {
		case ch <- msg:
		default:
			// игнорируем, если канал забит
		}
	}
}

// Remove забывает id вместе с историей; подписчики получают закрытый канал
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.topics[id]; ok && !t.closed {
		for _, ch := range t.subs {
			close(ch)
		}
	}
	delete(h.topics, id)
}

// Len — число id, о которых помнит hub
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics)
}

// Close завершает поток id: каналы подписчиков закрываются, новые события игнорируются
func (h *Hub) Close(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[id]
	if !ok || t.closed {
		return
	}
	t.closed = true
	for _, ch := range t.subs {
		close(ch)
	}
	t.subs = nil
}
