package detect

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibescan/internal/shared"
	"github.com/desertthunder/vibescan/internal/synth"
	"golang.org/x/time/rate"
)

// Loop owns one camera session at a time and runs the poll-detect-lock cycle.
type Loop struct {
	camera    Camera
	detector  Detector
	threshold float64
	limiter   *rate.Limiter
	logger    *log.Logger

	mu      sync.Mutex
	state   SessionState
	lastAge uint
	lastObs *Observation
	cancel  context.CancelFunc
}

// NewLoop creates a detection loop. Zero-valued config fields fall back to
// [DefaultLockThreshold] and [DefaultPollInterval].
func NewLoop(camera Camera, detector Detector, cfg shared.DetectorConfig, logger *log.Logger) *Loop {
	threshold := cfg.LockThreshold
	if threshold <= 0 {
		threshold = DefaultLockThreshold
	}

	interval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Loop{
		camera:    camera,
		detector:  detector,
		threshold: threshold,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		logger:    logger,
		state:     SessionOff,
	}
}

// Session reports the current session state.
func (l *Loop) Session() SessionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Last returns the most recent locked observation.
func (l *Loop) Last() (*Observation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastObs == nil {
		return nil, shared.ErrNoObservation
	}
	return l.lastObs, nil
}

// Scan acquires the camera and polls until an expression clears the lock
// threshold, the context is cancelled, or the camera fails. Only one scan may
// run at a time; a second call while one is in flight fails with
// [shared.ErrSessionBusy]. The stream is released on every exit path.
func (l *Loop) Scan(ctx context.Context) (*Observation, error) {
	l.mu.Lock()
	if l.state == SessionBusy || l.state == SessionStreaming {
		l.mu.Unlock()
		return nil, shared.ErrSessionBusy
	}
	l.state = SessionBusy
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	stream, err := l.camera.Open(ctx)
	if err != nil {
		l.settle()
		return nil, fmt.Errorf("%w: %v", shared.ErrCameraUnavailable, err)
	}
	defer stream.Close()

	l.setState(SessionStreaming)
	l.logger.Debug("stream acquired", "threshold", l.threshold)

	for {
		if err := l.limiter.Wait(ctx); err != nil {
			l.settle()
			return nil, err
		}

		frame, err := stream.Frame(ctx)
		if err != nil {
			l.settle()
			return nil, err
		}

		detection, err := l.detector.Detect(ctx, frame)
		if err != nil {
			// a failed cycle is not a failed scan, keep polling
			l.logger.Warn("detection cycle failed", "error", err)
			continue
		}
		if detection == nil {
			continue
		}

		age := uint(math.Round(detection.Age))
		l.mu.Lock()
		l.lastAge = age
		l.mu.Unlock()

		mood, score := detection.Dominant()
		if score <= l.threshold {
			continue
		}

		obs := &Observation{
			Mood:       mood,
			Age:        age,
			Confidence: score,
			LockedAt:   time.Now(),
		}

		l.mu.Lock()
		l.state = SessionLocked
		l.lastObs = obs
		l.cancel = nil
		l.mu.Unlock()

		l.logger.Info("mood locked", "mood", mood, "confidence", fmt.Sprintf("%.2f", score), "age", age)
		return obs, nil
	}
}

// Override locks a user-chosen mood immediately, cancelling any scan in
// flight. The age falls back to the last detected value, or
// [DefaultOverrideAge] when nothing has been detected yet.
func (l *Loop) Override(mood synth.Mood) *Observation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	age := l.lastAge
	if age == 0 {
		age = DefaultOverrideAge
	}

	obs := &Observation{
		Mood:       mood,
		Age:        age,
		Confidence: 1,
		LockedAt:   time.Now(),
	}

	l.state = SessionLocked
	l.lastObs = obs
	l.logger.Info("mood overridden", "mood", mood, "age", age)
	return obs
}

// Reset returns a locked or idle session to off so another scan can start.
// A scan in flight is cancelled first.
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.state = SessionOff
}

func (l *Loop) setState(s SessionState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// settle winds an aborted scan back to off without clobbering a lock that an
// override installed while the final cycle was still draining.
func (l *Loop) settle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != SessionLocked {
		l.state = SessionOff
	}
	l.cancel = nil
}
