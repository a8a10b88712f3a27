package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// eventJSON mirrors the wire schema of §3: a flat description plus
// parallel x/y/z/t arrays and the module prefix sum.
type eventJSON struct {
	Description     string      `json:"description"`
	ModulePrefixSum []int       `json:"module_prefix_sum"`
	NumberOfHits    int         `json:"number_of_hits"`
	X               []float64   `json:"x"`
	Y               []float64   `json:"y"`
	Z               []float64   `json:"z"`
	T               []float64   `json:"t,omitempty"`
	Montecarlo      interface{} `json:"montecarlo,omitempty"`
}

// LoadedEvent bundles a parsed Event with its montecarlo truth blob,
// still in raw form since truth.ParseMontecarlo requires the event's
// hit slice to already exist.
type LoadedEvent struct {
	Event      *Event
	Montecarlo map[string]interface{}
}

// DecodeEvent reads one event from r in the §3 wire format.
func DecodeEvent(r io.Reader) (*LoadedEvent, error) {
	var raw eventJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("model: decode event json: %w", err)
	}

	event, err := Build(raw.Description, raw.ModulePrefixSum, raw.X, raw.Y, raw.Z, raw.T)
	if err != nil {
		return nil, err
	}

	var mc map[string]interface{}
	if raw.Montecarlo != nil {
		mc, _ = raw.Montecarlo.(map[string]interface{})
	}

	return &LoadedEvent{Event: event, Montecarlo: mc}, nil
}
