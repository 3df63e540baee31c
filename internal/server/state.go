package server

import (
	"context"
	"sync"
	"time"

	"polyroot/internal/optimizer"
)

// RunParams — параметры запуска метода
type RunParams struct {
	Coeffs    []float64 `json:"coeffs"`
	Func      string    `json:"func"`
	Method    string    `json:"method"`
	X0        float64   `json:"x0"`
	A         float64   `json:"a"`
	B         float64   `json:"b"`
	Delta     float64   `json:"delta"`
	MaxIter   *int      `json:"maxIter"`
	Tolerance string    `json:"tolerance"`
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
}

// RunState — состояние одного запуска
type RunState struct {
	ID        string
	Params    RunParams
	CreatedAt time.Time
	Cancel    context.CancelFunc

	mu       sync.Mutex
	iters    []optimizer.Iter
	result   optimizer.Result
	err      string
	done     bool
	released bool
	finished chan struct{}
}

func newRunState(id string, p RunParams, cancel context.CancelFunc) *RunState {
	return &RunState{
		ID:        id,
		Params:    p,
		CreatedAt: time.Now(),
		Cancel:    cancel,
		finished:  make(chan struct{}),
	}
}

func (rs *RunState) addIter(it optimizer.Iter) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.iters = append(rs.iters, it)
}

func (rs *RunState) finish(res optimizer.Result, err error) {
	rs.mu.Lock()
	rs.result = res
	rs.done = true
	if err != nil {
		rs.err = err.Error()
	}
	rs.mu.Unlock()
}

// release — поток событий закрыт, запуск можно вытеснять из памяти
func (rs *RunState) release() {
	rs.mu.Lock()
	rs.released = true
	rs.mu.Unlock()
	close(rs.finished)
}

func (rs *RunState) evictable() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.released
}

// Iters — копия итераций на текущий момент
func (rs *RunState) Iters() []optimizer.Iter {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]optimizer.Iter(nil), rs.iters...)
}

// Snapshot — результат, ошибка и признак завершения
func (rs *RunState) Snapshot() (optimizer.Result, string, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.result, rs.err, rs.done
}

// Finished закрывается, когда запуск завершён и его поток событий закрыт
func (rs *RunState) Finished() <-chan struct{} {
	return rs.finished
}

// runStore — запуски по id; хранит не больше max, вытесняя самые старые завершённые
type runStore struct {
	mu    sync.Mutex
	max   int
	runs  map[string]*RunState
	order []string
}

func (s *runStore) save(rs *RunState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs == nil {
		s.runs = map[string]*RunState{}
	}
	s.runs[rs.ID] = rs
	s.order = append(s.order, rs.ID)
}

// prune удаляет завершённые запуски сверх лимита и возвращает их id.
// Идущие запуски не трогаются, даже если лимит превышен.
func (s *runStore) prune() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	kept := s.order[:0]
	excess := len(s.runs) - s.max
	for _, id := range s.order {
		if excess > 0 && s.runs[id].evictable() {
			delete(s.runs, id)
			evicted = append(evicted, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return evicted
}

func (s *runStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

func (s *runStore) get(id string) *RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}
