package simcore

// fakeModel is a minimal [Model] used across animation/matrix-cache tests.
// Actions are small integers; action 0 is a non-walking "stand" action with
// two frames, action 1 is a walking-family action the rate selector can
// switch into.
type fakeModel struct {
	lastFrame       map[int]int
	freeze          map[int]bool
	loop            map[int]bool
	walking         map[int]bool
	dance           map[int]bool
	next            map[int]int
	fx              map[int]FrameFX
	verts           []Vec3
	normals         []Vec3
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		lastFrame: map[int]int{},
		freeze:    map[int]bool{},
		loop:      map[int]bool{},
		walking:   map[int]bool{},
		dance:     map[int]bool{},
		next:      map[int]int{},
		fx:        map[int]FrameFX{},
	}
}

func (m *fakeModel) FrameVertex(frame, index int) (Vec3, Vec3) {
	if index < 0 || index >= len(m.verts) {
		return Zero3, Zero3
	}
	// offset position by frame so src != tgt produces a visible delta
	v := m.verts[index]
	v.X += float64(frame)
	n := Zero3
	if index < len(m.normals) {
		n = m.normals[index]
	}
	return v, n
}
func (m *fakeModel) VertexCount() int           { return len(m.verts) }
func (m *fakeModel) ActionLastFrame(a int) int  { return m.lastFrame[a] }
func (m *fakeModel) NextAnimation(a int) int    { return m.next[a] }
func (m *fakeModel) IsWalkingFamily(a int) bool { return m.walking[a] }
func (m *fakeModel) IsDanceAction(a int) bool   { return m.dance[a] }
func (m *fakeModel) FreezeAtLastFrame(a int) bool { return m.freeze[a] }
func (m *fakeModel) LoopAnimation(a int) bool   { return m.loop[a] }
func (m *fakeModel) FrameFX(frame int) FrameFX  { return m.fx[frame] }

// fakeMesh is a minimal flat-floor [Mesh] collaborator.
type fakeMesh struct {
	floor      float64
	slippy     bool
	waterLevel float64
	isWater    bool
	wallHits   bool
	wallNormal Vec2
	wallPress  float64
}

func (m *fakeMesh) Elevation(x, y float64) float64 { return m.floor }
func (m *fakeMesh) Twist(x, y float64) TwistCode   { return 0 }
func (m *fakeMesh) HitWall(pos Vec3, radius float64, stoppedby BitField) (bool, Vec2, float64) {
	return m.wallHits, m.wallNormal, m.wallPress
}
func (m *fakeMesh) TestWall(pos Vec3, radius float64, stoppedby BitField) BitField { return 0 }
func (m *fakeMesh) TestFX(x, y float64, fx BitField) bool {
	return fx&MapFXSlippy != 0 && m.slippy
}
func (m *fakeMesh) GridValid(x, y float64) bool { return true }
func (m *fakeMesh) Water(x, y float64) (float64, bool) { return m.waterLevel, m.isWater }

// fakeGrips resolves a fixed grip-vertex set for every holder/slot.
type fakeGrips struct {
	verts [gripVertCount]int
}

func (g fakeGrips) GripVertices(holder ObjectRef, slot int) [gripVertCount]int { return g.verts }

// fakeDamager is a minimal [ObjectDamager] recording the last call.
type fakeDamager struct {
	attrs        map[string]float64
	perks        map[string]bool
	vulnerable   bool
	lastDamage   float64
	lastDmgType  DamageType
	lastTarget   ObjectRef
}

func newFakeDamager() *fakeDamager {
	return &fakeDamager{attrs: map[string]float64{}, perks: map[string]bool{}}
}
func (d *fakeDamager) Damage(target ObjectRef, dir Facing, amount IPair, dmgType DamageType, team int, owner ObjectRef, armorPiercing, timeBypass bool) float64 {
	d.lastTarget = target
	d.lastDamage = amount.Base
	d.lastDmgType = dmgType
	return amount.Base
}
func (d *fakeDamager) Vulnerability(target ObjectRef, dmgType DamageType, spawner ObjectRef) bool {
	return d.vulnerable
}
func (d *fakeDamager) Attribute(target ObjectRef, name string) float64 { return d.attrs[name] }
func (d *fakeDamager) HasPerk(target ObjectRef, name string) bool     { return d.perks[name] }

type fakeTeams struct {
	hate map[[2]int]bool
}

func newFakeTeams() *fakeTeams { return &fakeTeams{hate: map[[2]int]bool{}} }
func (t *fakeTeams) Hates(a, b int) bool {
	if t.hate[[2]int{a, b}] {
		return true
	}
	return t.hate[[2]int{b, a}]
}

type fakeBillboards struct {
	calls []string
}

func (b *fakeBillboards) MakeBillboard(obj ObjectRef, text string, color, tint Color, lifetimeSeconds float64, flags BitField) {
	b.calls = append(b.calls, text)
}

type fakeAudio struct {
	sounds []int
}

func (a *fakeAudio) PlaySound(pos Vec3, soundID int) { a.sounds = append(a.sounds, soundID) }

// newTestWorld builds a World with no collaborators wired, suitable for
// tests that only exercise arena/matrix/animation mechanics directly.
func newTestWorld(t interface{ Fatalf(string, ...any) }) *World {
	bounds := AABB3{Min: Vec3{-1000, -1000, -1000}, Max: Vec3{1000, 1000, 1000}}
	w, err := NewWorld(bounds, 1, 2, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}
