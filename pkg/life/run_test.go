package life

import (
	"errors"
	"testing"
)

func TestRunYieldsTicksPlusOne(t *testing.T) {
	initial, err := RandomSeeded(Classic(Wrap), []int{12, 12}, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, ticks := range []int{0, 1, 7} {
		seq, err := Run(initial, ticks)
		if err != nil {
			t.Fatal(err)
		}
		var states []*State
		for s := range seq {
			states = append(states, s)
		}
		if len(states) != ticks+1 {
			t.Fatalf("ticks=%d: got %d states", ticks, len(states))
		}
		if states[0] != initial {
			t.Fatalf("ticks=%d: first state is not the initial state", ticks)
		}
		for i, s := range states {
			if s.Generation() != i {
				t.Fatalf("state %d has generation %d", i, s.Generation())
			}
		}
		want, _ := initial.After(ticks)
		if !states[len(states)-1].Equal(want) {
			t.Fatalf("ticks=%d: last state differs from After", ticks)
		}
	}
}

func TestRunStopsWhenConsumerStops(t *testing.T) {
	initial, _ := RandomSeeded(Classic(Wrap), []int{8, 8}, 2)
	seq, err := Run(initial, 1_000_000)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("consumed %d states", n)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	initial, _ := RandomSeeded(Classic(Wrap), []int{4, 4}, 3)
	if _, err := Run(initial, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := Run(nil, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

type fakeSink struct {
	frames [][]byte
	failAt int
	err    error
	closed int
}

func (f *fakeSink) SendFrame(frame []byte) error {
	if f.err != nil && len(f.frames) == f.failAt {
		return f.err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeSink) Close() error {
	f.closed++
	return nil
}

func populationFrame(s *State) ([]byte, error) {
	return []byte{byte(s.Generation()), byte(s.Population())}, nil
}

func TestRunAndRecordSendsEveryState(t *testing.T) {
	initial, _ := RandomSeeded(Classic(Wrap), []int{10, 10}, 4)
	sink := &fakeSink{}
	final, err := RunAndRecord(initial, 5, populationFrame, sink)
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.frames) != 6 {
		t.Fatalf("sent %d frames, want 6", len(sink.frames))
	}
	for i, f := range sink.frames {
		if int(f[0]) != i {
			t.Fatalf("frame %d carries generation %d", i, f[0])
		}
	}
	want, _ := initial.After(5)
	if !final.Equal(want) || final.Generation() != 5 {
		t.Fatal("final state does not match five steps")
	}
	if sink.closed != 0 {
		t.Fatal("RunAndRecord must not close the sink")
	}
}

func TestRunAndRecordZeroTicks(t *testing.T) {
	initial, _ := RandomSeeded(Classic(Wrap), []int{3, 3}, 4)
	sink := &fakeSink{}
	final, err := RunAndRecord(initial, 0, populationFrame, sink)
	if err != nil {
		t.Fatal(err)
	}
	if final != initial || len(sink.frames) != 1 {
		t.Fatalf("got %d frames and final=%p, want 1 frame and the initial state", len(sink.frames), final)
	}
}

func TestRunAndRecordStopsOnSinkError(t *testing.T) {
	errBoom := errors.New("encoder exited")
	initial, _ := RandomSeeded(Classic(Wrap), []int{10, 10}, 4)
	sink := &fakeSink{failAt: 3, err: errBoom}
	final, err := RunAndRecord(initial, 50, populationFrame, sink)
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want sink error", err)
	}
	if final != nil {
		t.Fatal("no final state on failure")
	}
	if len(sink.frames) != 3 {
		t.Fatalf("sent %d frames before failure, want 3", len(sink.frames))
	}
}

func TestRunAndRecordStopsOnRenderError(t *testing.T) {
	errRender := errors.New("bad frame")
	initial, _ := RandomSeeded(Classic(Wrap), []int{6, 6}, 4)
	sink := &fakeSink{}
	calls := 0
	render := func(s *State) ([]byte, error) {
		calls++
		if s.Generation() == 2 {
			return nil, errRender
		}
		return []byte{0}, nil
	}
	if _, err := RunAndRecord(initial, 10, render, sink); !errors.Is(err, errRender) {
		t.Fatalf("err = %v, want render error", err)
	}
	if calls != 3 || len(sink.frames) != 2 {
		t.Fatalf("render calls=%d frames=%d, want 3/2", calls, len(sink.frames))
	}
	if _, err := RunAndRecord(initial, -1, render, sink); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative ticks err = %v", err)
	}
}
