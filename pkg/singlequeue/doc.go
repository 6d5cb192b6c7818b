// Package singlequeue provides a typed event channel with at most one
// listener and an unbounded FIFO backlog that holds events while no listener
// is attached.
//
// Producers never block and never lose events before a consumer exists,
// for example during startup races. Once a listener is attached, delivery is
// direct and the backlog stays empty.
//
// # Usage
//
//	q := singlequeue.New[string]()
//
//	q.Emit("first")
//	q.Emit("second")
//	q.PendingCount() // 2
//
//	// Flushes "first" then "second" before returning.
//	_ = q.Subscribe(func(s string) error {
//		fmt.Println(s)
//		return nil
//	})
//	q.PendingCount() // 0
//
//	q.Emit("third") // delivered immediately
//
//	q.Unsubscribe()
//	q.Emit("fourth") // queued until the next Subscribe
//
// # States
//
// The queue has two states, switched only by Subscribe and Unsubscribe:
//   - detached: Emit appends to the backlog
//   - attached: Emit calls the listener before returning
//
// Subscribe replaces any attached listener; there is never more than one.
//
// # Error Handling
//
// A failing listener never changes the state. When the listener returns an
// error or panics:
//   - the event counts as consumed and is not queued again
//   - the listener stays attached
//   - the Emit or Subscribe call that performed the delivery returns the
//     error, wrapped in ErrListenerFailed or ErrListenerPanic
//
// A failure during the Subscribe flush stops the flush. The events after the
// failed one stay queued and are delivered ahead of the next emitted event:
//
//	if err := q.Subscribe(consumer); err != nil {
//		log.Printf("flush stopped, %d events queued: %v", q.PendingCount(), err)
//	}
//
// Callers that need redelivery keep the event themselves and Emit it again.
//
// # Concurrency
//
// All methods are safe for concurrent use. Deliveries are serialized: Emit
// and Subscribe wait for a delivery running on another goroutine to finish,
// so a Subscribe flushes exactly the backlog present when it attaches and
// receives the flush errors itself.
//
// The listener may call Emit, Subscribe or Unsubscribe re-entrantly. Such
// calls do not wait: a re-entrant Emit appends to the backlog and a
// re-entrant Subscribe swaps the listener; the delivery already running
// delivers what follows, in order, before its own call returns.
//
// The backlog is deliberately unbounded. Use WithBacklogWarning to get a log
// line when it grows while no listener is attached.
package singlequeue
