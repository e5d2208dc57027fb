package loop

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/mhdeeb/geo-art/material"
)

type fakeSource struct {
	mu sync.Mutex
	pb Playback
}

func (s *fakeSource) Playback() Playback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pb
}

func (s *fakeSource) Advance(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pb.Time = t
}

type fakeMaterials struct {
	mu    sync.Mutex
	times []float64
}

func (m *fakeMaterials) SetTime(t float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.times = append(m.times, t)
}

func (m *fakeMaterials) Snapshot() material.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return material.Frame{Seq: uint64(len(m.times))}
}

type renderFunc func(material.Frame) error

func (f renderFunc) Render(fr material.Frame) error { return f(fr) }

type countingRecorder struct {
	mu     sync.Mutex
	frames []uint64
}

func (r *countingRecorder) Capture(f material.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f.Seq)
	return nil
}

func nopRender(material.Frame) error { return nil }

func TestTickAdvancesAndWraps(t *testing.T) {
	src := &fakeSource{pb: Playback{Animate: true, Time: 59, Speed: 1, TMin: 0, TMax: 60}}
	mats := &fakeMaterials{}
	l := New(src, mats, renderFunc(nopRender))

	t0 := time.Unix(100, 0)
	l.Tick(t0)
	if got := src.Playback().Time; got != 59 {
		t.Fatalf("first tick time = %v, want 59 (zero delta)", got)
	}
	l.Tick(t0.Add(2500 * time.Millisecond))
	if got := src.Playback().Time; math.Abs(got-1.5) > 1e-9 {
		t.Errorf("time after overflow = %v, want 1.5", got)
	}
	if n := len(mats.times); n != 2 || mats.times[1] != src.Playback().Time {
		t.Errorf("materials times = %v", mats.times)
	}
}

func TestTickSpeed(t *testing.T) {
	src := &fakeSource{pb: Playback{Animate: true, Time: 10, Speed: -2, TMin: 0, TMax: 60}}
	l := New(src, &fakeMaterials{}, renderFunc(nopRender))
	t0 := time.Unix(0, 0)
	l.Tick(t0)
	l.Tick(t0.Add(6 * time.Second))
	if got := src.Playback().Time; got != 58 {
		t.Errorf("time = %v, want 58", got)
	}
}

func TestTickResetsNonFiniteTime(t *testing.T) {
	for _, bad := range []float64{math.Inf(1), math.NaN()} {
		src := &fakeSource{pb: Playback{Animate: true, Time: bad, Speed: 1, TMin: 5, TMax: 60}}
		l := New(src, &fakeMaterials{}, renderFunc(nopRender))
		t0 := time.Unix(0, 0)
		l.Tick(t0)
		if got := src.Playback().Time; got != 5 {
			t.Fatalf("time after tick from %v = %v, want 5", bad, got)
		}
		l.Tick(t0.Add(time.Second))
		if got := src.Playback().Time; got != 6 {
			t.Errorf("time after second tick from %v = %v, want 6", bad, got)
		}
	}
}

func TestTickPaused(t *testing.T) {
	src := &fakeSource{pb: Playback{Animate: false, Time: 20, Speed: 1, TMin: 0, TMax: 60}}
	mats := &fakeMaterials{}
	l := New(src, mats, renderFunc(nopRender))
	t0 := time.Unix(0, 0)
	l.Tick(t0)
	l.Tick(t0.Add(time.Second))
	if got := src.Playback().Time; got != 20 {
		t.Errorf("paused time = %v, want 20", got)
	}
	if len(mats.times) != 2 {
		t.Errorf("paused loop rendered %d frames, want 2", len(mats.times))
	}
}

func TestTickReentrancySkipped(t *testing.T) {
	src := &fakeSource{pb: Playback{Animate: true, Time: 0, Speed: 1, TMin: 0, TMax: 60}}
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	l := New(src, &fakeMaterials{}, renderFunc(func(material.Frame) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Tick(time.Unix(0, 0))
	}()
	<-entered
	inner := l.Tick(time.Unix(1, 0))
	close(release)
	<-done

	if inner {
		t.Error("re-entrant Tick() = true, want false")
	}
	st := l.Stats()
	if st.Skipped != 1 || st.Frames != 1 {
		t.Errorf("Stats() = %+v, want 1 frame and 1 skipped", st)
	}
}

func TestTickRenderErrorContinues(t *testing.T) {
	src := &fakeSource{pb: Playback{Time: 0, TMin: 0, TMax: 60}}
	l := New(src, &fakeMaterials{}, renderFunc(func(material.Frame) error {
		return errors.New("device lost")
	}))
	for i := range 3 {
		if !l.Tick(time.Unix(int64(i), 0)) {
			t.Fatalf("Tick(%d) = false", i)
		}
	}
	if st := l.Stats(); st.Errors != 3 || st.Frames != 3 {
		t.Errorf("Stats() = %+v, want 3 frames and 3 errors", st)
	}
}

func TestRecording(t *testing.T) {
	src := &fakeSource{pb: Playback{Time: 0, TMin: 0, TMax: 60}}
	rec := &countingRecorder{}
	l := New(src, &fakeMaterials{}, renderFunc(nopRender), WithRecorder(rec))

	l.Tick(time.Unix(0, 0))
	if !l.ToggleRecording() {
		t.Fatal("ToggleRecording() = false, want true")
	}
	l.Tick(time.Unix(1, 0))
	l.Tick(time.Unix(2, 0))
	l.SetRecording(false)
	l.Tick(time.Unix(3, 0))

	if len(rec.frames) != 2 {
		t.Errorf("captured %d frames, want 2", len(rec.frames))
	}
}

func TestStartStop(t *testing.T) {
	src := &fakeSource{pb: Playback{Animate: true, Speed: 1, TMin: 0, TMax: 60}}
	l := New(src, &fakeMaterials{}, renderFunc(nopRender), WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for l.Stats().Frames < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if l.State() != Running {
		t.Errorf("State() = %v, want running", l.State())
	}
	if err := l.Start(ctx); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start() error = %v, want ErrRunning", err)
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
	if l.State() != Idle {
		t.Errorf("State() after stop = %v, want idle", l.State())
	}
	if l.Stats().Frames < 3 {
		t.Errorf("Frames = %d, want at least 3", l.Stats().Frames)
	}
}
