package ecs

// maxCatchUpSteps bounds the work done after a long stall so the loop cannot spiral.
const maxCatchUpSteps = 8

// FixedStep turns variable frame times into a whole number of fixed ticks.
type FixedStep struct {
	Step float64
	acc  float64
}

func NewFixedStep(hz float64) *FixedStep {
	if hz <= 0 {
		hz = 64
	}
	return &FixedStep{Step: 1 / hz}
}

// Advance accumulates dt seconds and returns how many ticks are due.
func (f *FixedStep) Advance(dt float64) int {
	if f == nil || f.Step <= 0 || dt <= 0 {
		return 0
	}
	f.acc += dt
	n := 0
	for f.acc >= f.Step && n < maxCatchUpSteps {
		f.acc -= f.Step
		n++
	}
	if f.acc >= f.Step {
		f.acc = 0
	}
	return n
}

// Run advances by dt and runs the scheduler once per due tick with the world delta set to Step.
func (f *FixedStep) Run(w *World, s *Scheduler, dt float64) int {
	n := f.Advance(dt)
	for i := 0; i < n; i++ {
		w.SetDelta(f.Step)
		s.Update(w)
	}
	return n
}

// Reset drops any accumulated time.
func (f *FixedStep) Reset() {
	if f == nil {
		return
	}
	f.acc = 0
}
