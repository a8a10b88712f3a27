// Package truth decodes Monte-Carlo truth records from an event's
// montecarlo payload (component F, §4.1/§6).
package truth

import "math"

// MCParticle is a simulated truth particle. Equality is by PKey alone.
type MCParticle struct {
	PKey   uint64
	PID    int32
	P      float64
	PT     float64
	Eta    float64
	Phi    float64
	Charge int32

	VeloHits []int // hit ids attributed to this particle

	IsLong    bool
	IsDown    bool
	IsVelo    bool // default true
	IsUT      bool
	HasSciFi  bool
	Strange   bool
	FromB     bool
	FromCharm bool
	Over5     bool
}

// NewMCParticle constructs a bare particle with every flag false except
// Over5, derived from p. The montecarlo parser (ParseMontecarlo) is
// what applies the "isvelo defaults to true when hasVelo is absent"
// rule described by the data model; a bare NewMCParticle carries no
// flags at all until a caller sets them.
func NewMCParticle(pkey uint64, pid int32, p, pt, eta, phi float64, charge int32, veloHits []int) MCParticle {
	return MCParticle{
		PKey:     pkey,
		PID:      pid,
		P:        p,
		PT:       pt,
		Eta:      eta,
		Phi:      phi,
		Charge:   charge,
		VeloHits: veloHits,
		Over5:    math.Abs(p) > 5000,
	}
}
