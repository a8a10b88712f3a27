package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veloxtrack/velopix/internal/truth"
)

func TestCategoryPredicatesExcludeElectrons(t *testing.T) {
	velo := CategoryByLabel("velo")
	electron := truth.MCParticle{PID: 11, IsVelo: true}
	assert.False(t, velo.Cond(electron))

	muon := truth.MCParticle{PID: 13, IsVelo: true}
	assert.True(t, velo.Cond(muon))
}

func TestCategoryByLabelUnknownIsAlwaysFalse(t *testing.T) {
	cat := CategoryByLabel("not-a-real-category")
	p := truth.MCParticle{PID: 13, IsLong: true, IsVelo: true}
	assert.False(t, cat.Cond(p))
}

func TestLongFromBOver5Category(t *testing.T) {
	cat := CategoryByLabel("long_fromb>5GeV")
	assert.True(t, cat.Cond(truth.MCParticle{PID: 13, IsLong: true, FromB: true, Over5: true}))
	assert.False(t, cat.Cond(truth.MCParticle{PID: 13, IsLong: true, FromB: true, Over5: false}))
}
