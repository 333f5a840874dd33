package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pong/collision"
	"github.com/milk9111/pong/common"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

const (
	collisionTypeBall cp.CollisionType = iota + 1
	collisionTypeSolid
)

const physicsIterations = 10

// PhysicsSystem steps the field through Chipmunk instead of the analytic resolver.
// Transform and Velocity stay authoritative: they are pushed into the space before
// every step and read back afterwards.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities   map[ecs.Entity]*bodyInfo
	ballShapes map[*cp.Shape]ecs.Entity
	shapes     map[*cp.Shape]ecs.Entity
	contacts   []contact
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
	last   cp.Vector
}

type contact struct {
	ball   ecs.Entity
	other  ecs.Entity
	normal cp.Vector
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:      newSpace(),
		entities:   make(map[ecs.Entity]*bodyInfo),
		ballShapes: make(map[*cp.Shape]ecs.Entity),
		shapes:     make(map[*cp.Shape]ecs.Entity),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = physicsIterations
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	dt := w.Delta()
	if dt <= 0 {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.pushState(w)
	ps.applyImpulses(w)

	ps.contacts = ps.contacts[:0]
	ps.space.Step(dt)

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypeBall, collisionTypeSolid)
	handler.UserData = ps
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		ball, ballIsA := sys.ballShapes[shapeA]
		other := shapeB
		if !ballIsA {
			var okB bool
			ball, okB = sys.ballShapes[shapeB]
			if !okB {
				return true
			}
			other = shapeA
		}
		otherEntity, ok := sys.shapes[other]
		if !ok {
			return true
		}

		// Normal points from the ball towards what it struck.
		n := arb.Normal()
		if !ballIsA {
			n = n.Neg()
		}
		sys.contacts = append(sys.contacts, contact{ball: ball, other: otherEntity, normal: n})
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		isBall := ecs.Has(w, e, component.BallComponent.Kind())
		info := ps.createBodyInfo(*transform, bodyComp, isBall)
		if info == nil {
			log.Printf("physics: entity %s has no usable collider", e)
			continue
		}
		ps.entities[e] = info
		ps.shapes[info.shape] = e
		if isBall {
			ps.ballShapes[info.shape] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp *component.PhysicsBody, isBall bool) *bodyInfo {
	center := cp.Vector{X: transform.X, Y: transform.Y}
	width, height, radius := bodyComp.Width, bodyComp.Height, bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		return nil
	}

	var shape *cp.Shape
	var body *cp.Body
	static := bodyComp.Static && !bodyComp.Kinematic

	switch {
	case static:
		body = ps.space.StaticBody
		if radius > 0 {
			shape = cp.NewCircle(body, radius, center)
		} else {
			shape = cp.NewBox2(body, cp.NewBBForExtents(center, width/2, height/2), 0)
		}
	case bodyComp.Kinematic:
		body = cp.NewKinematicBody()
		body.SetPosition(center)
		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, height, 0)
		}
		ps.space.AddBody(body)
	default:
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if radius > 0 {
			moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, width, height)
		}
		body = cp.NewBody(mass, moment)
		body.SetPosition(center)
		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, height, 0)
		}
		ps.space.AddBody(body)
	}

	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetFriction(bodyComp.Friction)
	if isBall {
		shape.SetCollisionType(collisionTypeBall)
	} else {
		shape.SetCollisionType(collisionTypeSolid)
	}
	ps.space.AddShape(shape)

	return &bodyInfo{body: body, shape: shape, static: static, last: center}
}

// pushState copies Transform and Velocity into every moving body.
func (ps *PhysicsSystem) pushState(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static || info.body == nil {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		if ball, ok := ecs.Get(w, e, component.BallComponent.Kind()); ok {
			vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
			if vel != nil && (!common.Finite(vel.X) || !common.Finite(vel.Y)) {
				*vel = ball.LaunchVelocity(vel.X < 0)
			}
			info.body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
			if vel != nil {
				info.body.SetVelocityVector(cp.Vector{X: vel.X, Y: vel.Y})
			}
			continue
		}

		// Kinematic paddles are driven by their transform; the velocity lets
		// the solver account for their motion during the step.
		next := cp.Vector{X: transform.X, Y: transform.Y}
		info.body.SetPosition(next)
		info.body.SetVelocityVector(next.Sub(info.last).Mult(1 / w.Delta()))
		info.last = next
	}
}

func (ps *PhysicsSystem) applyImpulses(w *ecs.World) {
	ecs.ForEach2(w, component.ImpulseComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, imp *component.Impulse, bodyComp *component.PhysicsBody) {
		if imp.Applied || bodyComp.Body == nil || bodyComp.Static || bodyComp.Kinematic {
			return
		}
		bodyComp.Body.SetVelocityVector(cp.Vector{})
		bodyComp.Body.ApplyImpulseAtLocalPoint(cp.Vector{X: imp.X, Y: imp.Y}, cp.Vector{})
		imp.Applied = true
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach3(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), component.VelocityComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform, vel *component.Velocity) {
		if bodyComp.Body == nil || bodyComp.Static || bodyComp.Kinematic {
			return
		}

		v := bodyComp.Body.Velocity()
		if ball, ok := ecs.Get(w, e, component.BallComponent.Kind()); ok && ball.MaxSpeed > 0 && v.Length() > ball.MaxSpeed {
			v = v.Normalize().Mult(ball.MaxSpeed)
			bodyComp.Body.SetVelocityVector(v)
		}

		pos := bodyComp.Body.Position()
		transform.X, transform.Y = pos.X, pos.Y
		vel.X, vel.Y = v.X, v.Y
	})
}

// flushContacts reports this step's ball contacts as collision events.
func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	for _, c := range ps.contacts {
		if !w.IsAlive(c.ball) || !w.IsAlive(c.other) {
			continue
		}
		side := collision.Classify(c.normal.Neg())
		w.Events().Push(ecs.Event{
			Type: ecs.EventCollision,
			Data: ecs.CollisionEvent{Ball: c.ball, Collider: c.other, Side: int(side)},
		})
	}
	ps.contacts = ps.contacts[:0]
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}

		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
			delete(ps.shapes, info.shape)
			delete(ps.ballShapes, info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}
