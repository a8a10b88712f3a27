package validate

import "github.com/veloxtrack/velopix/internal/truth"

// Category is a named predicate over MCParticle (§4.7, §6). Every
// predicate additionally requires |pid| != 11 (non-electron).
type Category struct {
	Label string
	Cond  func(p truth.MCParticle) bool
}

func nonElectron(p truth.MCParticle) bool {
	pid := p.PID
	if pid < 0 {
		pid = -pid
	}
	return pid != 11
}

// Categories is the fixed, ordered set of particle categories the
// validator reports on (§4.7).
var Categories = []Category{
	{"velo", func(p truth.MCParticle) bool { return p.IsVelo && nonElectron(p) }},
	{"long", func(p truth.MCParticle) bool { return p.IsLong && nonElectron(p) }},
	{"long>5GeV", func(p truth.MCParticle) bool { return p.IsLong && p.Over5 && nonElectron(p) }},
	{"long_strange", func(p truth.MCParticle) bool { return p.IsLong && p.Strange && nonElectron(p) }},
	{"long_strange>5GeV", func(p truth.MCParticle) bool { return p.IsLong && p.Over5 && p.Strange && nonElectron(p) }},
	{"long_fromb", func(p truth.MCParticle) bool { return p.IsLong && p.FromB && nonElectron(p) }},
	{"long_fromb>5GeV", func(p truth.MCParticle) bool { return p.IsLong && p.Over5 && p.FromB && nonElectron(p) }},
}

// CategoryByLabel looks up a category by its label. An unknown label
// yields a predicate that is always false, per §7.
func CategoryByLabel(label string) Category {
	for _, c := range Categories {
		if c.Label == label {
			return c
		}
	}
	return Category{Label: label, Cond: func(truth.MCParticle) bool { return false }}
}
