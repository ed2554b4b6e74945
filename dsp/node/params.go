package node

import "math"

// Params describes one node of a graph before it is built.
type Params struct {
	ID   string
	Type string
	Num  map[string]float64
	Str  map[string]string
	Vec  map[string][]float64
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr returns a string parameter, or def if missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}
	return def
}

// GetVec returns a vector parameter, or nil if missing.
func (p Params) GetVec(key string) []float64 {
	return p.Vec[key]
}
