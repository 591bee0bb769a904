package life

import (
	"fmt"
	"iter"
)

// FrameSink consumes rendered frames in order. Closing the sink is left to
// whoever opened it.
type FrameSink interface {
	SendFrame(frame []byte) error
}

// RenderFunc turns a state into a pixel buffer for a FrameSink.
type RenderFunc func(*State) ([]byte, error)

// Run returns a lazy sequence of ticks+1 states: initial followed by each
// successive Step. Each state is computed only when the consumer asks for
// it; stopping early simply stops the stepping.
func Run(initial *State, ticks int) (iter.Seq[*State], error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: nil initial state", ErrInvalidArgument)
	}
	if ticks < 0 {
		return nil, fmt.Errorf("%w: negative tick count %d", ErrInvalidArgument, ticks)
	}
	return func(yield func(*State) bool) {
		cur := initial
		if !yield(cur) {
			return
		}
		for i := 0; i < ticks; i++ {
			cur = cur.Step()
			if !yield(cur) {
				return
			}
		}
	}, nil
}

// RunAndRecord runs ticks steps from initial, rendering every state
// (initial included) and sending it to sink. The first render or sink error
// stops the run and is returned. The final state is returned on success.
func RunAndRecord(initial *State, ticks int, render RenderFunc, sink FrameSink) (*State, error) {
	if render == nil || sink == nil {
		return nil, fmt.Errorf("%w: render and sink are required", ErrInvalidArgument)
	}
	seq, err := Run(initial, ticks)
	if err != nil {
		return nil, err
	}
	var last *State
	for state := range seq {
		frame, err := render(state)
		if err != nil {
			return nil, fmt.Errorf("render generation %d: %w", state.Generation(), err)
		}
		if err := sink.SendFrame(frame); err != nil {
			return nil, fmt.Errorf("send generation %d: %w", state.Generation(), err)
		}
		last = state
	}
	return last, nil
}
