package system

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/pong/collision"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
	"github.com/milk9111/pong/ecs/entity"
	"github.com/milk9111/pong/prefabs"
)

const testStep = 1.0 / 64

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func newBall(t *testing.T, w *ecs.World, x, y, vx, vy float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{X: vx, Y: vy})
	mustAdd(t, w, e, component.CircleColliderComponent.Kind(), &component.CircleCollider{Radius: 5})
	mustAdd(t, w, e, component.BallComponent.Kind(), &component.Ball{LaunchX: 0.5, LaunchY: 0.5, LaunchSpeed: 180})
	return e
}

func newBox(t *testing.T, w *ecs.World, x, y, hw, hh float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	mustAdd(t, w, e, component.BoxColliderComponent.Kind(), &component.BoxCollider{HalfWidth: hw, HalfHeight: hh})
	return e
}

func newPaddle(t *testing.T, w *ecs.World, side component.PaddleSide, x, y float64) ecs.Entity {
	t.Helper()
	e := newBox(t, w, x, y, 5, 20)
	mustAdd(t, w, e, component.PaddleComponent.Kind(), &component.Paddle{Side: side, Speed: 300, Top: 110, Bottom: -110, UpKey: "W", DownKey: "S"})
	mustAdd(t, w, e, component.InputComponent.Kind(), &component.Input{})
	return e
}

func newScoreBoard(t *testing.T, w *ecs.World, winScore int) *component.ScoreBoard {
	t.Helper()
	board := &component.ScoreBoard{WinScore: winScore}
	mustAdd(t, w, ecs.CreateEntity(w), component.ScoreBoardComponent.Kind(), board)
	return board
}

func TestPaddleMotionClampsToBounds(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		input component.Input
		steps int
		want  float64
	}{
		{name: "moves_up", start: 0, input: component.Input{Up: true}, steps: 1, want: 300 * testStep},
		{name: "clamps_top", start: 108, input: component.Input{Up: true}, steps: 1, want: 110},
		{name: "clamps_bottom", start: -100, input: component.Input{Down: true}, steps: 10, want: -110},
		{name: "both_keys_cancel", start: 12, input: component.Input{Up: true, Down: true}, steps: 3, want: 12},
		{name: "idle", start: -7, steps: 5, want: -7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			w.SetDelta(testStep)
			e := newPaddle(t, w, component.PaddleLeft, -150, tc.start)
			input, _ := ecs.Get(w, e, component.InputComponent.Kind())
			*input = tc.input

			sys := NewPaddleMotionSystem()
			for i := 0; i < tc.steps; i++ {
				sys.Update(w)
			}

			tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			if math.Abs(tr.Y-tc.want) > 1e-9 {
				t.Fatalf("expected y=%v, got %v", tc.want, tr.Y)
			}
		})
	}
}

func TestVelocityIntegratesOverStep(t *testing.T) {
	w := ecs.NewWorld()
	w.SetDelta(0.5)
	e := newBall(t, w, 10, -10, 4, -8)

	NewVelocitySystem().Update(w)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 12 || tr.Y != -14 {
		t.Fatalf("expected (12, -14), got (%v, %v)", tr.X, tr.Y)
	}
}

func TestCollisionSystemPaddleStrike(t *testing.T) {
	w := ecs.NewWorld()
	ball := newBall(t, w, 143, 0, 180, 90)
	paddle := newPaddle(t, w, component.PaddleRight, 150, 0)

	NewCollisionSystem(nil).Update(w)

	events := w.Events().OfType(ecs.EventCollision)
	if len(events) != 1 {
		t.Fatalf("expected 1 collision event, got %d", len(events))
	}
	ce := events[0].Data.(ecs.CollisionEvent)
	if ce.Ball != ball || ce.Collider != paddle || collision.Side(ce.Side) != collision.SideLeft {
		t.Fatalf("unexpected event %+v", ce)
	}

	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if vel.X != -180 || vel.Y != 90 {
		t.Fatalf("expected (-180, 90), got (%v, %v)", vel.X, vel.Y)
	}
}

func TestCollisionSystemIgnoresSeparatedShapes(t *testing.T) {
	w := ecs.NewWorld()
	ball := newBall(t, w, 175, 0, 180, 90)
	newPaddle(t, w, component.PaddleRight, 150, 0)

	NewCollisionSystem(nil).Update(w)

	if n := len(w.Events().Items()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if vel.X != 180 || vel.Y != 90 {
		t.Fatalf("velocity changed to (%v, %v)", vel.X, vel.Y)
	}
}

func TestCollisionSystemNoDoubleBounce(t *testing.T) {
	w := ecs.NewWorld()
	ball := newBall(t, w, 143, 0, -180, 90)
	newPaddle(t, w, component.PaddleRight, 150, 0)

	sys := NewCollisionSystem(nil)
	sys.Update(w)
	sys.Update(w)

	if n := len(w.Events().OfType(ecs.EventCollision)); n != 2 {
		t.Fatalf("expected a collision event per tick, got %d", n)
	}
	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if vel.X != -180 {
		t.Fatalf("ball already leaving should keep vx=-180, got %v", vel.X)
	}
}

func TestCollisionSystemResetsNonFiniteVelocity(t *testing.T) {
	w := ecs.NewWorld()
	ball := newBall(t, w, 0, 0, math.NaN(), math.Inf(1))

	NewCollisionSystem(nil).Update(w)

	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if vel.X != 90 || vel.Y != 90 {
		t.Fatalf("expected launch velocity (90, 90), got (%v, %v)", vel.X, vel.Y)
	}
}

func TestCollisionSystemCorner(t *testing.T) {
	w := ecs.NewWorld()
	// Ball just above the paddle's top edge, moving down.
	ball := newBall(t, w, 150, 23, 50, -100)
	newPaddle(t, w, component.PaddleRight, 150, 0)

	NewCollisionSystem(fixedSource(0.5)).Update(w)

	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if vel.X != 50 {
		t.Fatalf("horizontal velocity should be untouched, got %v", vel.X)
	}
	if vel.Y != 100.5 {
		t.Fatalf("expected vy=100.5, got %v", vel.Y)
	}
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func goalWall(t *testing.T, w *ecs.World, defender component.PaddleSide, x float64) ecs.Entity {
	t.Helper()
	e := newBox(t, w, x, 0, 5, 150)
	mustAdd(t, w, e, component.WallComponent.Kind(), &component.Wall{Name: "goal"})
	mustAdd(t, w, e, component.GoalComponent.Kind(), &component.Goal{Defender: defender})
	return e
}

func TestScoringOnGoalStrike(t *testing.T) {
	w := ecs.NewWorld()
	board := newScoreBoard(t, w, 0)
	ball := newBall(t, w, 172, 40, 180, 90)
	right := goalWall(t, w, component.PaddleRight, 180)

	w.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: ecs.CollisionEvent{Ball: ball, Collider: right, Side: int(collision.SideLeft)}})
	NewScoringSystem(370, 300).Update(w)

	if board.Score1 != 1 || board.Score2 != 0 {
		t.Fatalf("expected 1-0, got %d-%d", board.Score1, board.Score2)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if tr.X != 0 || tr.Y != 0 {
		t.Fatalf("ball should respawn at the centre, got (%v, %v)", tr.X, tr.Y)
	}
	if vel.X <= 0 {
		t.Fatalf("ball should launch towards the right player, got vx=%v", vel.X)
	}
	goals := w.Events().OfType(ecs.EventGoal)
	if len(goals) != 1 || goals[0].Data.(ecs.GoalEvent).Scorer != 1 {
		t.Fatalf("expected a goal event for player 1, got %+v", goals)
	}
}

func TestScoringIgnoresPlainWalls(t *testing.T) {
	w := ecs.NewWorld()
	board := newScoreBoard(t, w, 0)
	ball := newBall(t, w, 0, 140, 90, 90)
	top := newBox(t, w, 0, 150, 185, 5)

	w.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: ecs.CollisionEvent{Ball: ball, Collider: top, Side: int(collision.SideBottom)}})
	NewScoringSystem(370, 300).Update(w)

	if board.Score1 != 0 || board.Score2 != 0 {
		t.Fatalf("no goal expected, got %d-%d", board.Score1, board.Score2)
	}
}

func TestScoringOutOfBounds(t *testing.T) {
	w := ecs.NewWorld()
	board := newScoreBoard(t, w, 0)
	ball := newBall(t, w, -300, 10, -180, 0)

	NewScoringSystem(370, 300).Update(w)

	if board.Score2 != 1 {
		t.Fatalf("expected player 2 to score, got %d-%d", board.Score1, board.Score2)
	}
	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if vel.X >= 0 {
		t.Fatalf("ball should launch towards the left player, got vx=%v", vel.X)
	}
}

func TestScoringParksBallAtWinScore(t *testing.T) {
	w := ecs.NewWorld()
	board := newScoreBoard(t, w, 1)
	ball := newBall(t, w, 172, 0, 180, 0)
	right := goalWall(t, w, component.PaddleRight, 180)

	w.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: ecs.CollisionEvent{Ball: ball, Collider: right}})
	sys := NewScoringSystem(370, 300)
	sys.Update(w)

	if board.Winner != 1 {
		t.Fatalf("expected player 1 to win, got %d", board.Winner)
	}
	b, _ := ecs.Get(w, ball, component.BallComponent.Kind())
	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if !b.Parked || vel.X != 0 || vel.Y != 0 {
		t.Fatalf("ball should be parked, got parked=%v vel=(%v, %v)", b.Parked, vel.X, vel.Y)
	}
	if len(w.Events().OfType(ecs.EventMatchOver)) != 1 {
		t.Fatal("expected a match over event")
	}

	// Further goals are ignored until reset.
	sys.Update(w)
	if board.Score1 != 1 {
		t.Fatalf("score changed after match end: %d", board.Score1)
	}

	ResetMatch(w)
	if board.Score1 != 0 || board.Winner != 0 || b.Parked {
		t.Fatalf("reset did not clear the match: %+v parked=%v", board, b.Parked)
	}
}

func TestCollisionSoundPicksClip(t *testing.T) {
	tests := []struct {
		name   string
		paddle bool
		want   []bool
	}{
		{name: "paddle", paddle: true, want: []bool{true, false}},
		{name: "wall", paddle: false, want: []bool{false, true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ball := newBall(t, w, 0, 0, 0, 0)
			audioComp := &component.Audio{
				Names:   []string{"paddle_hit", "wall_hit"},
				Players: make([]*audio.Player, 2),
				Volume:  []float64{1, 1},
				Play:    make([]bool, 2),
				Stop:    make([]bool, 2),
			}
			mustAdd(t, w, ball, component.AudioComponent.Kind(), audioComp)

			var other ecs.Entity
			if tc.paddle {
				other = newPaddle(t, w, component.PaddleLeft, -150, 0)
			} else {
				other = newBox(t, w, 0, 150, 185, 5)
			}
			w.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: ecs.CollisionEvent{Ball: ball, Collider: other}})

			NewCollisionSoundSystem().Update(w)
			for i, want := range tc.want {
				if audioComp.Play[i] != want {
					t.Fatalf("clip %s: expected play=%v", audioComp.Names[i], want)
				}
			}

			// Players are not loaded in tests; the audio system still clears the request.
			NewAudioSystem().Update(w)
			for i := range audioComp.Play {
				if audioComp.Play[i] {
					t.Fatalf("clip %s still flagged", audioComp.Names[i])
				}
			}
		})
	}
}

func TestInputSystemReadsKeys(t *testing.T) {
	w := ecs.NewWorld()
	left := newPaddle(t, w, component.PaddleLeft, -150, 0)
	cpu := newPaddle(t, w, component.PaddleRight, 150, 0)
	mustAdd(t, w, cpu, component.PaddleAIComponent.Kind(), &component.PaddleAI{Script: "cpu_paddle.tengo"})

	held := map[ebiten.Key]bool{ebiten.KeyW: true}
	NewInputSystemWith(func(k ebiten.Key) bool { return held[k] }).Update(w)

	in, _ := ecs.Get(w, left, component.InputComponent.Kind())
	if !in.Up || in.Down {
		t.Fatalf("expected left paddle up, got %+v", in)
	}
	cpuIn, _ := ecs.Get(w, cpu, component.InputComponent.Kind())
	if cpuIn.Up || cpuIn.Down {
		t.Fatalf("keyboard should not drive the cpu paddle, got %+v", cpuIn)
	}
}

func TestKeyByName(t *testing.T) {
	if k, ok := KeyByName(" w "); !ok || k != ebiten.KeyW {
		t.Fatalf("expected W, got %v %v", k, ok)
	}
	if _, ok := KeyByName("F13"); ok {
		t.Fatal("expected unknown key")
	}
}

func spawnField(t *testing.T, opts entity.FieldOptions) *ecs.World {
	t.Helper()
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	if _, err := entity.SpawnField(w, spec, opts); err != nil {
		t.Fatal(err)
	}
	return w
}

func paddleOn(t *testing.T, w *ecs.World, side component.PaddleSide) ecs.Entity {
	t.Helper()
	for _, e := range w.Query(component.PaddleComponent.Kind()) {
		if p, _ := ecs.Get(w, e, component.PaddleComponent.Kind()); p.Side == side {
			return e
		}
	}
	t.Fatalf("no paddle on side %d", side)
	return 0
}

func TestPaddleAIFollowsApproachingBall(t *testing.T) {
	tests := []struct {
		name     string
		ballY    float64
		ballVX   float64
		paddleY  float64
		wantUp   bool
		wantDown bool
	}{
		{name: "approaching_above", ballY: 60, ballVX: 90, wantUp: true},
		{name: "approaching_below", ballY: -60, ballVX: 90, wantDown: true},
		{name: "inside_dead_zone", ballY: 2, ballVX: 90},
		{name: "receding_recentres", ballY: 60, ballVX: -90, paddleY: 50, wantDown: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := spawnField(t, entity.FieldOptions{CPUScript: "cpu_paddle.tengo"})
			ball, _ := w.First(component.BallComponent.Kind())
			bt, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
			bv, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
			bt.Y = tc.ballY
			bv.X = tc.ballVX

			cpu := paddleOn(t, w, component.PaddleRight)
			pt, _ := ecs.Get(w, cpu, component.TransformComponent.Kind())
			pt.Y = tc.paddleY

			NewPaddleAISystem().Update(w)

			in, _ := ecs.Get(w, cpu, component.InputComponent.Kind())
			if in.Up != tc.wantUp || in.Down != tc.wantDown {
				t.Fatalf("expected up=%v down=%v, got %+v", tc.wantUp, tc.wantDown, in)
			}
		})
	}
}

func TestPaddleAIMissingScript(t *testing.T) {
	w := spawnField(t, entity.FieldOptions{CPUScript: "missing.tengo"})
	cpu := paddleOn(t, w, component.PaddleRight)

	sys := NewPaddleAISystem()
	sys.Update(w)
	sys.Update(w)

	in, _ := ecs.Get(w, cpu, component.InputComponent.Kind())
	if in.Up || in.Down {
		t.Fatalf("missing script should leave the paddle idle, got %+v", in)
	}
	if !sys.failed["missing.tengo"] {
		t.Fatal("expected the failure to be cached")
	}
}

type collisionCounter struct {
	count int
}

func (c *collisionCounter) Update(w *ecs.World) {
	c.count += len(w.Events().OfType(ecs.EventCollision))
}

func TestFixedTickKeepsBallInField(t *testing.T) {
	tests := []struct {
		name    string
		physics bool
	}{
		{name: "resolver"},
		{name: "physics", physics: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := spawnField(t, entity.FieldOptions{})
			counter := &collisionCounter{}
			var sched *ecs.Scheduler
			if tc.physics {
				sched = ecs.NewScheduler(NewPhysicsSystem(), NewScoringSystem(370, 300), counter)
			} else {
				sched = ecs.NewScheduler(NewVelocitySystem(), NewCollisionSystem(nil), NewScoringSystem(370, 300), counter)
			}

			ball, _ := w.First(component.BallComponent.Kind())
			w.SetDelta(testStep)
			for i := 0; i < 64*6; i++ {
				sched.Update(w)
				tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
				if math.Abs(tr.X) > 190 || math.Abs(tr.Y) > 160 {
					t.Fatalf("tick %d: ball escaped to (%v, %v)", i, tr.X, tr.Y)
				}
			}
			if counter.count == 0 {
				t.Fatal("expected the ball to strike something")
			}
		})
	}
}

func newPhysicsBall(t *testing.T, w *ecs.World, vx, vy, maxSpeed float64) ecs.Entity {
	t.Helper()
	e := newBall(t, w, 0, 0, vx, vy)
	b, _ := ecs.Get(w, e, component.BallComponent.Kind())
	b.MaxSpeed = maxSpeed
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 5, Mass: 1, Elasticity: 1})
	return e
}

func TestPhysicsClampsBallSpeed(t *testing.T) {
	tests := []struct {
		name      string
		vx, vy    float64
		maxSpeed  float64
		wantSpeed float64
	}{
		{name: "horizontal", vx: 1000, maxSpeed: 400, wantSpeed: 400},
		{name: "diagonal", vx: 600, vy: -800, maxSpeed: 250, wantSpeed: 250},
		{name: "under_cap", vx: 90, vy: 90, maxSpeed: 400, wantSpeed: math.Hypot(90, 90)},
		{name: "no_cap", vx: 3000, maxSpeed: 0, wantSpeed: 3000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			w.SetDelta(testStep)
			ball := newPhysicsBall(t, w, tc.vx, tc.vy, tc.maxSpeed)

			NewPhysicsSystem().Update(w)

			vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
			if got := math.Hypot(vel.X, vel.Y); math.Abs(got-tc.wantSpeed) > 1e-9 {
				t.Fatalf("expected speed %v, got %v (%v, %v)", tc.wantSpeed, got, vel.X, vel.Y)
			}
			// The cap scales the velocity; it never turns it.
			if tc.vx != 0 && math.Signbit(vel.X) != math.Signbit(tc.vx) {
				t.Fatalf("direction changed: vx %v -> %v", tc.vx, vel.X)
			}
		})
	}
}

func TestPhysicsAppliesImpulseOnce(t *testing.T) {
	w := ecs.NewWorld()
	w.SetDelta(testStep)
	ball := newPhysicsBall(t, w, 0, 0, 0)
	imp := &component.Impulse{X: 90, Y: -30}
	mustAdd(t, w, ball, component.ImpulseComponent.Kind(), imp)

	sys := NewPhysicsSystem()
	sys.Update(w)

	if !imp.Applied {
		t.Fatal("impulse should be marked applied after the first step")
	}
	vel, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	if math.Abs(vel.X-90) > 1e-9 || math.Abs(vel.Y+30) > 1e-9 {
		t.Fatalf("expected (90, -30) after the impulse, got (%v, %v)", vel.X, vel.Y)
	}

	for i := 0; i < 10; i++ {
		sys.Update(w)
	}
	if math.Abs(vel.X-90) > 1e-9 || math.Abs(vel.Y+30) > 1e-9 {
		t.Fatalf("impulse was applied again: velocity (%v, %v)", vel.X, vel.Y)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
	if want := 90 * testStep * 11; math.Abs(tr.X-want) > 1e-6 {
		t.Fatalf("expected x=%v after 11 steps, got %v", want, tr.X)
	}
}
