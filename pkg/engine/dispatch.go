package engine

import "sync"

// subscriberBuffer is the per-subscription channel capacity. A subscriber
// that falls further behind holds up delivery to everyone.
const subscriberBuffer = 256

type subscriber struct {
	ch   chan Snapshot
	done chan struct{}
	once sync.Once
}

// Subscribe returns a channel that receives every snapshot emitted after the
// call, and a cancel function. The channel is closed by cancel or by Close.
func (e *Engine) Subscribe() (<-chan Snapshot, func()) {
	sub := &subscriber{
		ch:   make(chan Snapshot, subscriberBuffer),
		done: make(chan struct{}),
	}

	e.subMu.Lock()
	if e.subsClosed {
		e.subMu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	e.subs[sub] = struct{}{}
	e.subMu.Unlock()

	return sub.ch, func() { e.unsubscribe(sub) }
}

func (e *Engine) unsubscribe(sub *subscriber) {
	sub.once.Do(func() {
		// Unblock a dispatcher parked on this subscriber before taking the lock.
		close(sub.done)
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if _, ok := e.subs[sub]; ok {
			delete(e.subs, sub)
			close(sub.ch)
		}
	})
}

// emit queues a snapshot for delivery and returns it. Callers hold e.mu.
func (e *Engine) emit(ev Event) Snapshot {
	e.seq++
	e.event = ev
	s := e.snapshot(ev)
	e.queue = append(e.queue, s)
	select {
	case e.wake <- struct{}{}:
	default:
	}
	return s
}

// dispatch delivers queued snapshots in order until Close.
func (e *Engine) dispatch() {
	defer close(e.exited)
	for {
		select {
		case <-e.wake:
			e.deliver(e.drain(), false)
		case <-e.quit:
			e.deliver(e.drain(), true)
			e.closeSubscribers()
			return
		}
	}
}

func (e *Engine) drain() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	batch := e.queue
	e.queue = nil
	return batch
}

func (e *Engine) deliver(batch []Snapshot, closing bool) {
	for _, s := range batch {
		for _, fn := range e.observers {
			fn(s)
		}

		e.subMu.RLock()
		for sub := range e.subs {
			if closing {
				select {
				case sub.ch <- s:
				default:
				}
				continue
			}
			select {
			case sub.ch <- s:
			case <-sub.done:
			case <-e.quit:
			}
		}
		e.subMu.RUnlock()
	}
}

func (e *Engine) closeSubscribers() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for sub := range e.subs {
		delete(e.subs, sub)
		close(sub.ch)
	}
	e.subsClosed = true
}
