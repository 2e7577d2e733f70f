package pmx

import (
	"fmt"
	"strings"
)

// SoftBodyShape is the soft body construction mode.
type SoftBodyShape uint8

// Soft body shapes.
const (
	SoftBodyTriMesh SoftBodyShape = 0
	SoftBodyRope    SoftBodyShape = 1
)

// String returns a human-readable shape name.
func (s SoftBodyShape) String() string {
	switch s {
	case SoftBodyTriMesh:
		return "TriMesh"
	case SoftBodyRope:
		return "Rope"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// SoftBodyFlags is the soft body flag byte.
type SoftBodyFlags uint8

// Soft body flags.
const (
	SoftBodyBLink      SoftBodyFlags = 0x01
	SoftBodyCluster    SoftBodyFlags = 0x02
	SoftBodyHybridLink SoftBodyFlags = 0x04
)

// String returns the set flags joined by '|'.
func (f SoftBodyFlags) String() string {
	if f == 0 {
		return "None"
	}
	var names []string
	if f&SoftBodyBLink != 0 {
		names = append(names, "BLink")
	}
	if f&SoftBodyCluster != 0 {
		names = append(names, "Cluster")
	}
	if f&SoftBodyHybridLink != 0 {
		names = append(names, "HybridLink")
	}
	return strings.Join(names, "|")
}

// AeroModel is the soft body aerodynamics model.
type AeroModel int32

// Aerodynamics models.
const (
	AeroVertexPoint    AeroModel = 0
	AeroVertexTwoSided AeroModel = 1
	AeroVertexOneSided AeroModel = 2
	AeroFaceTwoSided   AeroModel = 3
	AeroFaceOneSided   AeroModel = 4
)

// SoftBodyConfig holds the solver coefficients.
type SoftBodyConfig struct {
	VCF float32 // velocity correction factor
	DP  float32 // damping
	DG  float32 // drag
	LF  float32 // lift
	PR  float32 // pressure
	VC  float32 // volume conservation
	DF  float32 // dynamic friction
	MT  float32 // pose matching
	CHR float32 // rigid contact hardness
	KHR float32 // kinetic contact hardness
	SHR float32 // soft contact hardness
	AHR float32 // anchor hardness
}

// SoftBodyClusterConfig holds the cluster solver coefficients.
type SoftBodyClusterConfig struct {
	SRHR  float32
	SKHR  float32
	SSHR  float32
	SRImp float32
	SKImp float32
	SSImp float32
}

// SoftBodyIteration holds the solver iteration counts.
type SoftBodyIteration struct {
	Velocity int32
	Position int32
	Drift    int32
	Cluster  int32
}

// SoftBodyMaterial holds the stiffness coefficients.
type SoftBodyMaterial struct {
	Linear  float32
	Angular float32
	Volume  float32
}

// SoftBodyAnchor pins a soft body vertex to a rigid body.
type SoftBodyAnchor struct {
	RigidBody Index
	Vertex    Index
	NearMode  bool
}

// SoftBody is a PMX 2.1 soft body.
type SoftBody struct {
	Name   string
	NameEN string

	Shape         SoftBodyShape
	Material      Index
	Group         uint8
	NoCollideMask uint16
	Flags         SoftBodyFlags

	BLinkDistance   int32
	Clusters        int32
	TotalMass       float32
	CollisionMargin float32
	Aero            AeroModel

	Config    SoftBodyConfig
	Cluster   SoftBodyClusterConfig
	Iteration SoftBodyIteration
	Stiffness SoftBodyMaterial

	Anchors []SoftBodyAnchor
	Pins    []Index // vertex indices
}

// minSoftBodySize covers the fixed part with empty names and empty lists.
const minSoftBodySize = 4 + 4 + 1 + 1 + 1 + 2 + 1 + 4 + 4 + 4 + 4 + 4 + 12*4 + 6*4 + 4*4 + 3*4 + 4 + 4

func (d *decoder) softBodies() ([]SoftBody, error) {
	n, err := d.r.count(minSoftBodySize)
	if err != nil || n == 0 {
		return nil, err
	}

	bodies := make([]SoftBody, n)
	for i := range bodies {
		if err := d.softBody(&bodies[i]); err != nil {
			return nil, fmt.Errorf("soft body %d: %w", i, err)
		}
	}
	return bodies, nil
}

func (d *decoder) softBody(s *SoftBody) error {
	r := d.r
	var err error

	if s.Name, s.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	shape, err := r.u8()
	if err != nil {
		return err
	}
	s.Shape = SoftBodyShape(shape)

	if s.Material, err = d.materialIndex(); err != nil {
		return err
	}
	if s.Group, err = r.u8(); err != nil {
		return err
	}
	if s.NoCollideMask, err = r.u16(); err != nil {
		return err
	}
	flags, err := r.u8()
	if err != nil {
		return err
	}
	s.Flags = SoftBodyFlags(flags)

	if s.BLinkDistance, err = r.i32(); err != nil {
		return err
	}
	if s.Clusters, err = r.i32(); err != nil {
		return err
	}
	if s.TotalMass, err = r.f32(); err != nil {
		return err
	}
	if s.CollisionMargin, err = r.f32(); err != nil {
		return err
	}
	aero, err := r.i32()
	if err != nil {
		return err
	}
	s.Aero = AeroModel(aero)

	c := &s.Config
	for _, f := range []*float32{&c.VCF, &c.DP, &c.DG, &c.LF, &c.PR, &c.VC, &c.DF, &c.MT, &c.CHR, &c.KHR, &c.SHR, &c.AHR} {
		if *f, err = r.f32(); err != nil {
			return err
		}
	}
	cl := &s.Cluster
	for _, f := range []*float32{&cl.SRHR, &cl.SKHR, &cl.SSHR, &cl.SRImp, &cl.SKImp, &cl.SSImp} {
		if *f, err = r.f32(); err != nil {
			return err
		}
	}
	it := &s.Iteration
	for _, v := range []*int32{&it.Velocity, &it.Position, &it.Drift, &it.Cluster} {
		if *v, err = r.i32(); err != nil {
			return err
		}
	}
	m := &s.Stiffness
	for _, f := range []*float32{&m.Linear, &m.Angular, &m.Volume} {
		if *f, err = r.f32(); err != nil {
			return err
		}
	}

	if err := d.softBodyAnchors(s); err != nil {
		return fmt.Errorf("anchors: %w", err)
	}
	if err := d.softBodyPins(s); err != nil {
		return fmt.Errorf("pins: %w", err)
	}
	return nil
}

func (d *decoder) softBodyAnchors(s *SoftBody) error {
	n, err := d.r.count(1 + 1 + 1)
	if err != nil || n == 0 {
		return err
	}

	s.Anchors = make([]SoftBodyAnchor, n)
	for i := range s.Anchors {
		a := &s.Anchors[i]
		if a.RigidBody, err = d.rigidBodyIndex(); err != nil {
			return err
		}
		if a.Vertex, err = d.vertexIndex(); err != nil {
			return err
		}
		near, err := d.r.u8()
		if err != nil {
			return err
		}
		a.NearMode = near != 0
	}
	return nil
}

func (d *decoder) softBodyPins(s *SoftBody) error {
	n, err := d.r.count(int(d.h.VertexIndexSize))
	if err != nil || n == 0 {
		return err
	}

	s.Pins = make([]Index, n)
	for i := range s.Pins {
		if s.Pins[i], err = d.vertexIndex(); err != nil {
			return err
		}
	}
	return nil
}
