// Package definition loads declarative state machine definitions from YAML.
//
// The format mirrors the firmware configuration the engine was designed for:
//
//	name: door
//	initial_state: closed
//	diagram: true
//	states:
//	  - closed
//	  - name: open
//	    on_enter: [beep]
//	    on_leave: log
//	inputs:
//	  - name: toggle
//	    action: log
//	    transitions:
//	      - closed -> open
//	      - from: open
//	        to: closed
//	        guard: nobody_inside
//	        action: [latch]
//
// States and inputs are either plain names or maps. Transitions are listed
// under the input that triggers them, either as "FROM -> TO" or as a map with
// from, to, guard, before, action and after keys. Declaration order is the
// order inputs and their transitions appear in the file.
//
// Actions and guards are referenced by name and resolved against a Registry
// supplied for one Load call. Loading validates everything up front; a
// Blueprint then creates machines with all hooks attached:
//
//	reg := definition.NewRegistry().
//	    Hook("beep", beepHook).
//	    Guard("nobody_inside", pirGuard)
//
//	bp, err := definition.LoadFile("door.yaml", definition.WithRegistry(reg))
//	m, err := bp.NewMachine(statemachine.WithLogger(log))
package definition
