package store

import "sync"

// notifier fans out change signals to subscribers. Stores publish after
// every committed mutation so consumers can re-read their snapshot.
type notifier struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// Subscribe returns a channel that receives a signal after each change.
// The channel is buffered; a slow consumer coalesces signals instead of
// blocking the store.
func (n *notifier) Subscribe() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan struct{}, 1)
	n.subs = append(n.subs, ch)
	return ch
}

func (n *notifier) publish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
