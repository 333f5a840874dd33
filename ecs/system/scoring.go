package system

import (
	"log"
	"math"

	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

// ScoringSystem awards a point when the ball strikes a goal wall or leaves the field,
// then respawns the ball towards the player who conceded.
type ScoringSystem struct {
	halfWidth  float64
	halfHeight float64
}

func NewScoringSystem(fieldWidth, fieldHeight float64) *ScoringSystem {
	return &ScoringSystem{halfWidth: fieldWidth / 2, halfHeight: fieldHeight / 2}
}

func (s *ScoringSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, evt := range w.Events().OfType(ecs.EventCollision) {
		ce, ok := evt.Data.(ecs.CollisionEvent)
		if !ok {
			continue
		}
		goal, ok := ecs.Get(w, ce.Collider, component.GoalComponent.Kind())
		if !ok {
			continue
		}
		s.concede(w, ce.Ball, goal.Defender)
		// The ball has been respawned; later events this tick refer to its old position.
		return
	}

	ecs.ForEach2(w, component.BallComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Ball, t *component.Transform) {
		if math.Abs(t.X) <= s.halfWidth && math.Abs(t.Y) <= s.halfHeight {
			return
		}
		defender := component.PaddleRight
		if t.X < 0 {
			defender = component.PaddleLeft
		}
		log.Printf("scoring: ball %s escaped the field at (%.1f, %.1f)", e, t.X, t.Y)
		s.concede(w, e, defender)
	})
}

func (s *ScoringSystem) concede(w *ecs.World, ball ecs.Entity, defender component.PaddleSide) {
	board := scoreBoard(w)
	if board == nil || board.Winner != 0 {
		return
	}

	scorer := 1
	if defender == component.PaddleLeft {
		scorer = 2
		board.Score2++
	} else {
		board.Score1++
	}

	w.Events().Push(ecs.Event{
		Type: ecs.EventGoal,
		Data: ecs.GoalEvent{Scorer: scorer, Score1: board.Score1, Score2: board.Score2},
	})

	if board.WinScore > 0 && (board.Score1 >= board.WinScore || board.Score2 >= board.WinScore) {
		board.Winner = scorer
		w.Events().Push(ecs.Event{Type: ecs.EventMatchOver, Data: scorer})
		ParkBall(w, ball)
		return
	}

	RespawnBall(w, ball, defender == component.PaddleLeft)
}

func scoreBoard(w *ecs.World) *component.ScoreBoard {
	e, ok := w.First(component.ScoreBoardComponent.Kind())
	if !ok {
		return nil
	}
	board, _ := ecs.Get(w, e, component.ScoreBoardComponent.Kind())
	return board
}

// RespawnBall puts the ball back in the centre and launches it horizontally towards one side.
func RespawnBall(w *ecs.World, ball ecs.Entity, towardLeft bool) {
	b, ok := ecs.Get(w, ball, component.BallComponent.Kind())
	if !ok {
		return
	}
	b.Parked = false
	if t, ok := ecs.Get(w, ball, component.TransformComponent.Kind()); ok {
		t.X, t.Y = 0, 0
	}
	if vel, ok := ecs.Get(w, ball, component.VelocityComponent.Kind()); ok {
		*vel = b.LaunchVelocity(towardLeft)
	}
}

// ParkBall stops the ball in the centre until the match is reset.
func ParkBall(w *ecs.World, ball ecs.Entity) {
	b, ok := ecs.Get(w, ball, component.BallComponent.Kind())
	if !ok {
		return
	}
	b.Parked = true
	if t, ok := ecs.Get(w, ball, component.TransformComponent.Kind()); ok {
		t.X, t.Y = 0, 0
	}
	if vel, ok := ecs.Get(w, ball, component.VelocityComponent.Kind()); ok {
		vel.X, vel.Y = 0, 0
	}
}

// ResetMatch clears the scores and relaunches every ball.
func ResetMatch(w *ecs.World) {
	if board := scoreBoard(w); board != nil {
		board.Score1, board.Score2, board.Winner = 0, 0, 0
	}
	for _, ball := range w.Query(component.BallComponent.Kind()) {
		RespawnBall(w, ball, false)
	}
}
