package pmx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// RigidShape is the collision shape of a rigid body.
type RigidShape uint8

// Rigid body shapes.
const (
	ShapeSphere  RigidShape = 0
	ShapeBox     RigidShape = 1
	ShapeCapsule RigidShape = 2
)

// String returns a human-readable shape name.
func (s RigidShape) String() string {
	switch s {
	case ShapeSphere:
		return "Sphere"
	case ShapeBox:
		return "Box"
	case ShapeCapsule:
		return "Capsule"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// PhysicsMode is how a rigid body interacts with its bone.
type PhysicsMode uint8

// Physics modes.
const (
	PhysicsFollowBone PhysicsMode = 0 // static, follows the bone
	PhysicsDynamic    PhysicsMode = 1 // simulated, drives the bone
	PhysicsAligned    PhysicsMode = 2 // simulated, bone position pinned
)

// String returns a human-readable physics mode name.
func (m PhysicsMode) String() string {
	switch m {
	case PhysicsFollowBone:
		return "FollowBone"
	case PhysicsDynamic:
		return "Dynamic"
	case PhysicsAligned:
		return "Aligned"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// RigidBody is a physics collision body.
type RigidBody struct {
	Name   string
	NameEN string

	Bone          Index // NoIndex when unattached
	Group         uint8
	NoCollideMask uint16

	Shape    RigidShape
	Size     mgl32.Vec3
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // radians

	Mass           float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32

	Mode PhysicsMode
}

// JointKind is the constraint type of a joint.
type JointKind uint8

// Joint kinds. Only JointSpring6DOF exists in 2.0.
const (
	JointSpring6DOF JointKind = 0
	Joint6DOF       JointKind = 1
	JointP2P        JointKind = 2
	JointConeTwist  JointKind = 3
	JointSlider     JointKind = 4
	JointHinge      JointKind = 5
)

// String returns a human-readable joint kind name.
func (k JointKind) String() string {
	switch k {
	case JointSpring6DOF:
		return "Spring6DOF"
	case Joint6DOF:
		return "6DOF"
	case JointP2P:
		return "P2P"
	case JointConeTwist:
		return "ConeTwist"
	case JointSlider:
		return "Slider"
	case JointHinge:
		return "Hinge"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Joint constrains two rigid bodies.
type Joint struct {
	Name   string
	NameEN string

	Kind       JointKind
	RigidBodyA Index
	RigidBodyB Index

	Position mgl32.Vec3
	Rotation mgl32.Vec3

	PositionMin mgl32.Vec3
	PositionMax mgl32.Vec3
	RotationMin mgl32.Vec3
	RotationMax mgl32.Vec3

	PositionSpring mgl32.Vec3
	RotationSpring mgl32.Vec3
}

const (
	minRigidBodySize = 4 + 4 + 1 + 1 + 2 + 1 + 3*12 + 5*4 + 1
	minJointSize     = 4 + 4 + 1 + 1 + 1 + 8*12
)

func (d *decoder) rigidBodies() ([]RigidBody, error) {
	n, err := d.r.count(minRigidBodySize)
	if err != nil || n == 0 {
		return nil, err
	}

	bodies := make([]RigidBody, n)
	for i := range bodies {
		if err := d.rigidBody(&bodies[i]); err != nil {
			return nil, fmt.Errorf("rigid body %d: %w", i, err)
		}
	}
	return bodies, nil
}

func (d *decoder) rigidBody(b *RigidBody) error {
	r := d.r
	var err error

	if b.Name, b.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	if b.Bone, err = d.bone(); err != nil {
		return err
	}
	if b.Group, err = r.u8(); err != nil {
		return err
	}
	if b.NoCollideMask, err = r.u16(); err != nil {
		return err
	}
	shape, err := r.u8()
	if err != nil {
		return err
	}
	b.Shape = RigidShape(shape)

	if b.Size, err = r.vec3(); err != nil {
		return err
	}
	if b.Position, err = r.vec3(); err != nil {
		return err
	}
	if b.Rotation, err = r.vec3(); err != nil {
		return err
	}

	var params [5]float32
	if err = r.floats(params[:]); err != nil {
		return err
	}
	b.Mass = params[0]
	b.LinearDamping = params[1]
	b.AngularDamping = params[2]
	b.Restitution = params[3]
	b.Friction = params[4]

	mode, err := r.u8()
	if err != nil {
		return err
	}
	b.Mode = PhysicsMode(mode)
	return nil
}

func (d *decoder) joints() ([]Joint, error) {
	n, err := d.r.count(minJointSize)
	if err != nil || n == 0 {
		return nil, err
	}

	joints := make([]Joint, n)
	for i := range joints {
		if err := d.joint(&joints[i]); err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
	}
	return joints, nil
}

func (d *decoder) joint(j *Joint) error {
	r := d.r
	var err error

	if j.Name, j.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	kind, err := r.u8()
	if err != nil {
		return err
	}
	j.Kind = JointKind(kind)

	if j.RigidBodyA, err = d.rigidBodyIndex(); err != nil {
		return err
	}
	if j.RigidBodyB, err = d.rigidBodyIndex(); err != nil {
		return err
	}

	for _, v := range []*mgl32.Vec3{
		&j.Position, &j.Rotation,
		&j.PositionMin, &j.PositionMax,
		&j.RotationMin, &j.RotationMax,
		&j.PositionSpring, &j.RotationSpring,
	} {
		if *v, err = r.vec3(); err != nil {
			return err
		}
	}
	return nil
}
