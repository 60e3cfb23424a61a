package detect

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/synth"
)

type stubStream struct {
	closed int
}

func (s *stubStream) Frame(ctx context.Context) (*Frame, error) {
	return &Frame{Data: []byte("frame"), ContentType: "image/jpeg"}, nil
}

func (s *stubStream) Close() error {
	s.closed++
	return nil
}

type stubCamera struct {
	stream *stubStream
	err    error
}

func (c *stubCamera) Open(ctx context.Context) (Stream, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.stream, nil
}

// scriptDetector replays a fixed sequence of results, then repeats the last
// entry forever.
type scriptDetector struct {
	results []*Detection
	errs    []error
	calls   int
}

func (d *scriptDetector) Detect(ctx context.Context, frame *Frame) (*Detection, error) {
	i := d.calls
	if i >= len(d.results) {
		i = len(d.results) - 1
	}
	d.calls++
	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.results[i], nil
}

func expressions(scores ...float64) map[synth.Mood]float64 {
	m := map[synth.Mood]float64{}
	for i, s := range scores {
		m[synth.Moods[i]] = s
	}
	return m
}

func testLoop(camera Camera, detector Detector) *Loop {
	cfg := shared.DetectorConfig{LockThreshold: 0.6, PollIntervalMS: 1}
	return NewLoop(camera, detector, cfg, shared.NewLogger(io.Discard))
}

func TestDominant(t *testing.T) {
	t.Run("highest score wins", func(t *testing.T) {
		d := Detection{Expressions: map[synth.Mood]float64{
			synth.MoodHappy: 0.2,
			synth.MoodSad:   0.7,
		}}
		mood, score := d.Dominant()
		if mood != synth.MoodSad || score != 0.7 {
			t.Errorf("expected (sad, 0.7), got (%s, %v)", mood, score)
		}
	})

	t.Run("ties resolve to earlier label", func(t *testing.T) {
		d := Detection{Expressions: map[synth.Mood]float64{
			synth.MoodSad:   0.5,
			synth.MoodAngry: 0.5,
		}}
		mood, _ := d.Dominant()
		if mood != synth.MoodSad {
			t.Errorf("expected sad to win the tie, got %s", mood)
		}
	})
}

func TestScan(t *testing.T) {
	t.Run("locks once an expression clears the threshold", func(t *testing.T) {
		stream := &stubStream{}
		detector := &scriptDetector{results: []*Detection{
			{Expressions: expressions(0.6), Age: 24},
			{Expressions: map[synth.Mood]float64{synth.MoodSad: 0.85}, Age: 24.6},
		}}
		loop := testLoop(&stubCamera{stream: stream}, detector)

		obs, err := loop.Scan(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if obs.Mood != synth.MoodSad {
			t.Errorf("expected sad, got %s", obs.Mood)
		}
		if obs.Age != 25 {
			t.Errorf("expected rounded age 25, got %d", obs.Age)
		}
		if obs.Confidence != 0.85 {
			t.Errorf("expected confidence 0.85, got %v", obs.Confidence)
		}
		if detector.calls != 2 {
			t.Errorf("expected the threshold-equal cycle to keep polling, got %d calls", detector.calls)
		}
		if loop.Session() != SessionLocked {
			t.Errorf("expected locked session, got %s", loop.Session())
		}
		if stream.closed != 1 {
			t.Errorf("expected stream closed once, got %d", stream.closed)
		}
	})

	t.Run("swallows failed cycles and empty frames", func(t *testing.T) {
		stream := &stubStream{}
		detector := &scriptDetector{
			results: []*Detection{
				nil,
				nil,
				{Expressions: expressions(0.9), Age: 30},
			},
			errs: []error{errors.New("inference timeout"), nil, nil},
		}
		loop := testLoop(&stubCamera{stream: stream}, detector)

		obs, err := loop.Scan(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if obs.Mood != synth.MoodHappy {
			t.Errorf("expected happy, got %s", obs.Mood)
		}
		if detector.calls != 3 {
			t.Errorf("expected 3 cycles, got %d", detector.calls)
		}
	})

	t.Run("acquisition failure leaves the session off", func(t *testing.T) {
		loop := testLoop(&stubCamera{err: errors.New("permission denied")}, &scriptDetector{})

		_, err := loop.Scan(context.Background())
		if !errors.Is(err, shared.ErrCameraUnavailable) {
			t.Errorf("expected ErrCameraUnavailable, got %v", err)
		}
		if loop.Session() != SessionOff {
			t.Errorf("expected off session, got %s", loop.Session())
		}
	})

	t.Run("second scan while streaming is rejected", func(t *testing.T) {
		stream := &stubStream{}
		loop := testLoop(&stubCamera{stream: stream}, &scriptDetector{results: []*Detection{nil}})

		go loop.Scan(context.Background())

		deadline := time.Now().Add(time.Second)
		for loop.Session() != SessionStreaming {
			if time.Now().After(deadline) {
				t.Fatal("scan never reached streaming")
			}
			time.Sleep(time.Millisecond)
		}

		if _, err := loop.Scan(context.Background()); !errors.Is(err, shared.ErrSessionBusy) {
			t.Errorf("expected ErrSessionBusy, got %v", err)
		}

		loop.Reset()
	})

	t.Run("cancellation releases the stream", func(t *testing.T) {
		stream := &stubStream{}
		loop := testLoop(&stubCamera{stream: stream}, &scriptDetector{results: []*Detection{nil}})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := loop.Scan(ctx)
			done <- err
		}()

		deadline := time.Now().Add(time.Second)
		for loop.Session() != SessionStreaming {
			if time.Now().After(deadline) {
				t.Fatal("scan never reached streaming")
			}
			time.Sleep(time.Millisecond)
		}
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if loop.Session() != SessionOff {
			t.Errorf("expected off session, got %s", loop.Session())
		}
		if stream.closed != 1 {
			t.Errorf("expected stream closed once, got %d", stream.closed)
		}
	})
}

func TestOverride(t *testing.T) {
	t.Run("uses fallback age before any detection", func(t *testing.T) {
		loop := testLoop(&stubCamera{}, &scriptDetector{})

		obs := loop.Override(synth.MoodAngry)
		if obs.Mood != synth.MoodAngry {
			t.Errorf("expected angry, got %s", obs.Mood)
		}
		if obs.Age != DefaultOverrideAge {
			t.Errorf("expected fallback age %d, got %d", DefaultOverrideAge, obs.Age)
		}
		if loop.Session() != SessionLocked {
			t.Errorf("expected locked session, got %s", loop.Session())
		}
	})

	t.Run("prefers the last detected age", func(t *testing.T) {
		loop := testLoop(&stubCamera{}, &scriptDetector{})
		loop.lastAge = 42

		if obs := loop.Override(synth.MoodHappy); obs.Age != 42 {
			t.Errorf("expected last detected age 42, got %d", obs.Age)
		}
	})

	t.Run("cancels a scan in flight and keeps the lock", func(t *testing.T) {
		stream := &stubStream{}
		loop := testLoop(&stubCamera{stream: stream}, &scriptDetector{results: []*Detection{nil}})

		done := make(chan error, 1)
		go func() {
			_, err := loop.Scan(context.Background())
			done <- err
		}()

		deadline := time.Now().Add(time.Second)
		for loop.Session() != SessionStreaming {
			if time.Now().After(deadline) {
				t.Fatal("scan never reached streaming")
			}
			time.Sleep(time.Millisecond)
		}

		obs := loop.Override(synth.MoodNeutral)
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancelled scan, got %v", err)
		}

		if loop.Session() != SessionLocked {
			t.Errorf("expected the override lock to survive, got %s", loop.Session())
		}
		if last, err := loop.Last(); err != nil || last != obs {
			t.Errorf("expected override to be the last observation")
		}
		if stream.closed != 1 {
			t.Errorf("expected stream closed once, got %d", stream.closed)
		}
	})
}

func TestLast(t *testing.T) {
	loop := testLoop(&stubCamera{}, &scriptDetector{})

	if _, err := loop.Last(); !errors.Is(err, shared.ErrNoObservation) {
		t.Errorf("expected ErrNoObservation, got %v", err)
	}
}
