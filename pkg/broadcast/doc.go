// Package broadcast provides a typed, multi-subscriber event channel with
// synchronous fan-out.
//
// A Broadcaster delivers each emitted event to every current subscriber, in
// registration order, before Emit returns. There is no replay: an event
// emitted while nobody is subscribed is lost, and a late subscriber never
// sees past events.
//
// # Usage
//
//	type BuildFinished struct {
//		Bundle   string
//		Duration time.Duration
//	}
//
//	builds := broadcast.New[BuildFinished]()
//
//	sub := builds.Subscribe(func(e BuildFinished) error {
//		fmt.Printf("bundled %s in %s\n", e.Bundle, e.Duration)
//		return nil
//	})
//	defer sub.Unsubscribe()
//
//	if err := builds.Emit(BuildFinished{Bundle: "app.js", Duration: 420 * time.Millisecond}); err != nil {
//		log.Println(err)
//	}
//
// # Subscriptions
//
// Go func values are not comparable, so Subscribe returns a *Subscription
// handle instead of relying on listener identity. The handle is what
// Unsubscribe matches on:
//
//	a := builds.Subscribe(reload)
//	b := builds.Subscribe(reload) // second, independent registration
//
//	builds.Unsubscribe(a) // reload is still registered once, through b
//	builds.Unsubscribe(a) // no-op
//
// # Emission Semantics
//
// Emit snapshots the subscriber list when it starts:
//   - listeners subscribed during a fan-out are not called by that Emit
//   - listeners unsubscribed during a fan-out, before their turn, are skipped
//   - listeners may call Subscribe, Unsubscribe or Emit re-entrantly
//
// # Error Handling
//
// A listener that returns an error or panics stops the fan-out. The remaining
// listeners are not called for that event and Emit returns the failure:
//
//	err := builds.Emit(evt)
//	switch {
//	case errors.Is(err, broadcast.ErrListenerPanic):
//		// a listener panicked; the panic value is in the message
//	case errors.Is(err, broadcast.ErrListenerFailed):
//		// errors.Is also matches the listener's own error
//	}
//
// Failing listeners stay subscribed.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Listeners run without any
// internal lock held, on the goroutine that called Emit.
package broadcast
