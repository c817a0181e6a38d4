package service

import "sync"

// dispatcher runs every task on one goroutine, in submission order. It is the
// single owner of whatever state its tasks touch.
type dispatcher struct {
	tasks    chan func()
	quit     chan struct{}
	stopOnce sync.Once
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		tasks: make(chan func(), 64),
		quit:  make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *dispatcher) loop() {
	for {
		select {
		case fn := <-d.tasks:
			fn()
		case <-d.quit:
			return
		}
	}
}

// post queues fn and returns immediately. It reports false once stopped.
// Never call post or do from inside a task.
func (d *dispatcher) post(fn func()) bool {
	select {
	case <-d.quit:
		return false
	default:
	}
	select {
	case d.tasks <- fn:
		return true
	case <-d.quit:
		return false
	}
}

// do runs fn on the owner goroutine and waits for it to finish.
func (d *dispatcher) do(fn func()) bool {
	done := make(chan struct{})
	if !d.post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-d.quit:
		// The task may have run just before the loop exited.
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

// stop ends the loop. Queued tasks that have not started are dropped.
func (d *dispatcher) stop() {
	d.stopOnce.Do(func() { close(d.quit) })
}

// subscribers is a registry of state callbacks. Callbacks run outside the
// registry lock, so they may unsubscribe themselves.
type subscribers[T any] struct {
	mu     sync.Mutex
	nextId int
	fns    map[int]func(T)
	order  []int
}

func newSubscribers[T any]() *subscribers[T] {
	return &subscribers[T]{fns: make(map[int]func(T))}
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	id := s.nextId
	s.fns[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fns, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *subscribers[T]) notify(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
