package sensor

import (
	"context"
	"time"

	"github.com/jannathh/Scentify-Project/internal/domain"
)

// DefaultProfile ramps to a reading that completes sensing and matches on MQ-3.
var DefaultProfile = domain.Readings{MQ3: 120, MQ4: 45, MQ135: 150}

// Simulator ramps every subscription linearly from zero to Target over Steps
// ticks, then keeps repeating Target.
type Simulator struct {
	Target   domain.Readings
	Steps    int
	Interval time.Duration
}

func NewSimulator(interval time.Duration) *Simulator {
	return &Simulator{Target: DefaultProfile, Steps: 10, Interval: interval}
}

// Subscribe starts a private ramp for the caller. Unsubscribe never blocks.
func (s *Simulator) Subscribe(ctx context.Context, onSnapshot func(domain.Readings), _ func(error)) (func(), error) {
	steps := max(s.Steps, 1)
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for step := 1; ; step++ {
			select {
			case <-sctx.Done():
				return
			case <-ticker.C:
			}
			if sctx.Err() != nil {
				return
			}
			onSnapshot(s.at(min(step, steps), steps))
		}
	}()

	return cancel, nil
}

func (s *Simulator) at(step, steps int) domain.Readings {
	f := float64(step) / float64(steps)
	return domain.Readings{
		MQ3:   s.Target.MQ3 * f,
		MQ4:   s.Target.MQ4 * f,
		MQ135: s.Target.MQ135 * f,
	}
}
