package simcore

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Billboard is floating combat text queued by [BillboardSpawner.MakeBillboard]
// (spec §6, "Billboards"; spec §4.4 queues "Blocked!"/"Deflected!" billboards
// on deflection). Its alpha fade is driven by a [gween.Tween] the same way
// the teacher drives node alpha/position fades in animation.go.
type Billboard struct {
	Obj   ObjectRef
	Text  string
	Color Color
	Tint  Color
	Flags BitField

	fade *gween.Tween
}

// NewBillboard builds a Billboard that fades its alpha from 1 to 0 over
// lifetimeSeconds using an ease-in curve, so text lingers near full opacity
// before dropping away.
func NewBillboard(obj ObjectRef, text string, color, tint Color, lifetimeSeconds float64, flags BitField) *Billboard {
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = 0.01
	}
	return &Billboard{
		Obj:   obj,
		Text:  text,
		Color: color,
		Tint:  tint,
		Flags: flags,
		fade:  gween.New(1, 0, float32(lifetimeSeconds), ease.InQuad),
	}
}

// Tick advances the billboard by dt seconds and returns its current alpha
// multiplier; expired is true once the fade has fully completed, at which
// point the caller should retire the billboard.
func (b *Billboard) Tick(dt float64) (alpha float64, expired bool) {
	v, done := b.fade.Update(float32(dt))
	return float64(v), done
}

// DecayTimer is a one-shot countdown driven by a linear [gween.Tween],
// reused for the grog (confusion) and daze timers of spec §4.4 ("Grog...and
// daze timers increase if the profile specifies"). The remaining time decays
// from its starting magnitude to zero; Tick reports whether the effect still
// applies.
type DecayTimer struct {
	decay *gween.Tween
	total float32
}

// NewDecayTimer starts a countdown of seconds length. Additional time can be
// folded in later via Add.
func NewDecayTimer(seconds float64) DecayTimer {
	s := float32(seconds)
	return DecayTimer{decay: gween.New(s, 0, s, ease.Linear), total: s}
}

// Add extends the timer by additional seconds, restarting the tween from
// its current remaining value plus the addition (grog/daze stacking).
func (d *DecayTimer) Add(seconds float64) {
	remaining := d.Remaining()
	d.total = float32(remaining) + float32(seconds)
	d.decay = gween.New(d.total, 0, d.total, ease.Linear)
}

// Remaining returns the seconds left on the timer without advancing it.
func (d DecayTimer) Remaining() float64 {
	if d.decay == nil {
		return 0
	}
	v, _ := d.decay.Update(0)
	return float64(v)
}

// Tick advances the timer by dt seconds and reports whether it is still
// active (remaining > 0).
func (d *DecayTimer) Tick(dt float64) bool {
	if d.decay == nil {
		return false
	}
	v, done := d.decay.Update(float32(dt))
	return !done && v > 0
}
