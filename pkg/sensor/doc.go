// Package sensor exposes a machine's current state as a text sensor.
//
// A Sensor subscribes to every state change of one statemachine.Machine and
// reports the new state to its publishers and to in-process subscribers.
// It reports the current state once on Start, then on every on_set, which
// includes forced Set calls and self-sets.
//
//	s := sensor.New(m, sensor.WithPublisher(sensor.NewRedisPublisher(client)))
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//	defer s.Stop()
//
//	sub := s.Subscribe(ctx)
//	for u := range sub.Updates() {
//	    fmt.Println(u.State)
//	}
//
// Subscribers never block the machine. A subscriber whose buffer is full misses
// the update and is dropped.
package sensor
