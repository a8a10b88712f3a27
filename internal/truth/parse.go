package truth

import (
	"fmt"

	"github.com/veloxtrack/velopix/internal/model"
)

// ParseResult is the decoded output of a montecarlo payload: the
// particle list plus the forward mcp_to_hits mapping, keyed by PKey
// (MCParticle equality/hash is by PKey alone, §3).
type ParseResult struct {
	Particles []MCParticle
	McpToHits map[uint64][]model.Hit
}

// ParseMontecarlo decodes the "montecarlo" object described by §6:
// a "description" array of field names and a "particles" array of
// records, each an ordered array aligned to description. Unrecognised
// fields are ignored; recognised numeric fields default to 0 and
// integer boolean flags are true iff nonzero, with hasVelo defaulting
// to true when absent (§7).
func ParseMontecarlo(mc map[string]any, hits []model.Hit) (ParseResult, error) {
	descRaw, ok := mc["description"]
	if !ok {
		return ParseResult{}, fmt.Errorf("truth: montecarlo payload missing \"description\"")
	}
	descAny, ok := descRaw.([]any)
	if !ok {
		return ParseResult{}, fmt.Errorf("truth: montecarlo \"description\" must be an array")
	}
	description := make([]string, len(descAny))
	for i, d := range descAny {
		s, ok := d.(string)
		if !ok {
			return ParseResult{}, fmt.Errorf("truth: montecarlo description field %d is not a string", i)
		}
		description[i] = s
	}
	index := make(map[string]int, len(description))
	for i, name := range description {
		index[name] = i
	}

	particlesRaw, ok := mc["particles"]
	if !ok {
		return ParseResult{}, fmt.Errorf("truth: montecarlo payload missing \"particles\"")
	}
	particlesAny, ok := particlesRaw.([]any)
	if !ok {
		return ParseResult{}, fmt.Errorf("truth: montecarlo \"particles\" must be an array")
	}

	result := ParseResult{McpToHits: map[uint64][]model.Hit{}}
	for i, recRaw := range particlesAny {
		rec, ok := recRaw.([]any)
		if !ok {
			return ParseResult{}, fmt.Errorf("truth: montecarlo particle %d is not an array", i)
		}
		field := func(name string) (any, bool) {
			idx, ok := index[name]
			if !ok || idx >= len(rec) {
				return nil, false
			}
			return rec[idx], true
		}
		asFloat := func(name string) float64 {
			v, ok := field(name)
			if !ok {
				return 0
			}
			f, _ := toFloat(v)
			return f
		}
		asInt32 := func(name string) int32 {
			v, ok := field(name)
			if !ok {
				return 0
			}
			f, _ := toFloat(v)
			return int32(f)
		}
		asUint64 := func(name string) uint64 {
			v, ok := field(name)
			if !ok {
				return 0
			}
			f, _ := toFloat(v)
			return uint64(f)
		}
		asBoolFlag := func(name string, def bool) bool {
			v, ok := field(name)
			if !ok {
				return def
			}
			f, _ := toFloat(v)
			return f != 0
		}

		pkey := asUint64("key")
		pid := asInt32("pid")
		pVal := asFloat("p")
		pt := asFloat("pt")
		eta := asFloat("eta")
		phi := asFloat("phi")
		charge := asInt32("charge")

		var hitIDs []int
		if v, ok := field("hits"); ok {
			if arr, ok := v.([]any); ok {
				for _, h := range arr {
					if f, ok := toFloat(h); ok {
						hitIDs = append(hitIDs, int(f))
					}
				}
			}
		}
		trackHits := make([]model.Hit, 0, len(hitIDs))
		for _, id := range hitIDs {
			if id >= 0 && id < len(hits) {
				trackHits = append(trackHits, hits[id])
			}
		}

		mcp := NewMCParticle(pkey, pid, pVal, pt, eta, phi, charge, hitIDs)
		mcp.IsLong = asBoolFlag("isLong", false)
		mcp.IsDown = asBoolFlag("isDown", false)
		mcp.IsVelo = asBoolFlag("hasVelo", true)
		mcp.IsUT = asBoolFlag("hasUT", false)
		mcp.HasSciFi = asBoolFlag("hasScifi", false)
		mcp.FromB = asBoolFlag("fromBeautyDecay", false)
		mcp.FromCharm = asBoolFlag("fromCharmDecay", false)
		mcp.Strange = asBoolFlag("fromStrangeDecay", false)

		result.McpToHits[mcp.PKey] = trackHits
		result.Particles = append(result.Particles, mcp)
	}
	return result, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
