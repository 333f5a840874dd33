package match

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
	"github.com/milk9111/pong/ecs/entity"
	"github.com/milk9111/pong/ecs/system"
	"github.com/milk9111/pong/prefabs"
)

// Options selects the match variant.
type Options struct {
	// Physics steps the ball through Chipmunk instead of the analytic resolver.
	Physics bool
	// CPU hands the right paddle to the script named in game.yaml.
	CPU bool
	// Audio loads the hit clips. Headless front-ends leave it off.
	Audio bool
	// Seed for the bounce perturbation; 0 picks one from the clock.
	Seed int64
	// Keys replaces the keyboard poll used by the input system.
	Keys system.KeyPressed
}

// Match owns one world and the two schedulers that drive it.
type Match struct {
	Spec  *prefabs.GameSpec
	World *ecs.World
	// Frame runs once per rendered frame; Fixed runs at the fixed tick rate.
	Frame *ecs.Scheduler
	Fixed *ecs.Scheduler
	Step  *ecs.FixedStep

	Physics  *system.PhysicsSystem
	PaddleAI *system.PaddleAISystem

	opts Options
}

func New(opts Options) (*Match, error) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	w := ecs.NewWorld()
	fieldOpts := entity.FieldOptions{Options: entity.Options{Audio: opts.Audio}}
	if opts.CPU {
		fieldOpts.CPUScript = spec.CPUScript
	}
	if _, err := entity.SpawnField(w, spec, fieldOpts); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := &Match{
		Spec:     spec,
		World:    w,
		Step:     ecs.NewFixedStep(spec.FixedHz),
		PaddleAI: system.NewPaddleAISystem(),
		opts:     opts,
	}

	input := system.NewInputSystem()
	if opts.Keys != nil {
		input = system.NewInputSystemWith(opts.Keys)
	}
	m.Frame = ecs.NewScheduler(
		input,
		m.PaddleAI,
		system.NewPaddleMotionSystem(),
		system.NewAudioSystem(),
	)

	hw, hh := entity.FieldBounds(w)
	scoring := system.NewScoringSystem(hw*2, hh*2)
	if opts.Physics {
		restBallsWithImpulse(w)
		m.Physics = system.NewPhysicsSystem()
		m.Fixed = ecs.NewScheduler(m.Physics, scoring, system.NewCollisionSoundSystem())
	} else {
		rng := rand.New(rand.NewSource(seed))
		m.Fixed = ecs.NewScheduler(
			system.NewVelocitySystem(),
			system.NewCollisionSystem(rng),
			scoring,
			system.NewCollisionSoundSystem(),
		)
	}

	return m, nil
}

// restBallsWithImpulse zeroes the velocity of every ball waiting on a launch impulse so the
// impulse alone sets it moving.
func restBallsWithImpulse(w *ecs.World) {
	ecs.ForEach3(w, component.BallComponent.Kind(), component.ImpulseComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, _ *component.Ball, imp *component.Impulse, vel *component.Velocity) {
		if !imp.Applied {
			vel.X, vel.Y = 0, 0
		}
	})
}

// Update runs the frame systems over dt and then every fixed tick that is due.
func (m *Match) Update(dt float64) {
	m.World.SetDelta(dt)
	m.Frame.Update(m.World)
	m.Step.Run(m.World, m.Fixed, dt)
}

// Close releases the audio players loaded for this match. The match must not be updated afterwards.
func (m *Match) Close() error {
	var errs []error
	ecs.ForEach(m.World, component.AudioComponent.Kind(), func(e ecs.Entity, a *component.Audio) {
		for i, p := range a.Players {
			if p == nil {
				continue
			}
			if err := p.Close(); err != nil {
				errs = append(errs, fmt.Errorf("match: close clip %q on %s: %w", a.Names[i], e, err))
			}
			a.Players[i] = nil
		}
	})
	return errors.Join(errs...)
}

// Reset clears the scores and relaunches the ball.
func (m *Match) Reset() {
	system.ResetMatch(m.World)
	m.Step.Reset()
}

// Score returns both players' points and the winner, 0 while the match is running.
func (m *Match) Score() (score1, score2, winner int) {
	e, ok := m.World.First(component.ScoreBoardComponent.Kind())
	if !ok {
		return 0, 0, 0
	}
	board, _ := ecs.Get(m.World, e, component.ScoreBoardComponent.Kind())
	return board.Score1, board.Score2, board.Winner
}

// Reload rebuilds the match from the prefabs on disk and carries the score over.
// On failure the current match is kept.
func (m *Match) Reload() (*Match, error) {
	next, err := New(m.opts)
	if err != nil {
		return m, err
	}

	s1, s2, winner := m.Score()
	if e, ok := next.World.First(component.ScoreBoardComponent.Kind()); ok {
		board, _ := ecs.Get(next.World, e, component.ScoreBoardComponent.Kind())
		board.Score1, board.Score2, board.Winner = s1, s2, winner
	}
	if winner != 0 {
		for _, ball := range next.World.Query(component.BallComponent.Kind()) {
			system.ParkBall(next.World, ball)
		}
	}
	log.Printf("match: reloaded prefabs (score %d-%d)", s1, s2)
	return next, nil
}
