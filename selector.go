// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import "math"

// ScoringWeights balances declared throughput against declared
// compression ratio when the caller does not name a plugin explicitly.
// Both weights must be in [0,1] and must sum to 1.0 within 1e-9.
type ScoringWeights struct {
	ThroughputWeight float64
	RatioWeight      float64
}

// DefaultScoringWeights is the package's documented default.
var DefaultScoringWeights = ScoringWeights{ThroughputWeight: 0.7, RatioWeight: 0.3}

func (w ScoringWeights) validate() error {
	if w.ThroughputWeight < 0 || w.ThroughputWeight > 1 || w.RatioWeight < 0 || w.RatioWeight > 1 {
		return &Error{Kind: ErrValidation, Msg: "scoring weights must each be in [0,1]"}
	}
	if math.Abs(w.ThroughputWeight+w.RatioWeight-1.0) > 1e-9 {
		return &Error{Kind: ErrValidation, Msg: "scoring weights must sum to 1.0"}
	}
	return nil
}

// selectPlugin honors an explicit plugin name outright (PluginNotFound if
// it doesn't exist); otherwise every registered plugin is scored and the
// maximum wins, ties broken by name ascending.
func selectPlugin(explicit string, weights ScoringWeights) (Plugin, error) {
	if explicit != "" {
		p, ok := pluginByName(explicit)
		if !ok {
			return nil, &Error{Kind: ErrPluginNotFound, Msg: explicit}
		}
		return p, nil
	}

	if err := weights.validate(); err != nil {
		return nil, err
	}

	candidates := ListPlugins() // already sorted by name ascending
	if len(candidates) == 0 {
		return nil, &Error{Kind: ErrPluginNotFound, Msg: "<no plugins registered>"}
	}

	bestName := scoreCandidates(candidates, weights)

	p, ok := pluginByName(bestName)
	if !ok {
		// Can't happen: bestName came from the same snapshot we looked
		// the plugin up against.
		return nil, &Error{Kind: ErrPluginNotFound, Msg: bestName}
	}
	return p, nil
}

// scoreCandidates is the scoring step as a pure function of the
// candidate metadata: log-normalized throughput plus
// linearly-normalized compression ratio, weighted and summed, with the
// maximum score winning. candidates must already be sorted by name
// ascending; a strict score improvement is required to replace the
// current best, so the first (lowest-name) candidate wins ties.
func scoreCandidates(candidates []PluginMetadata, weights ScoringWeights) string {
	logT := make([]float64, len(candidates))
	ratio := make([]float64, len(candidates))
	minLogT, maxLogT := math.Inf(1), math.Inf(-1)
	minR, maxR := math.Inf(1), math.Inf(-1)
	for i, md := range candidates {
		logT[i] = math.Log1p(md.Throughput)
		ratio[i] = md.CompressionRatio
		minLogT, maxLogT = math.Min(minLogT, logT[i]), math.Max(maxLogT, logT[i])
		minR, maxR = math.Min(minR, ratio[i]), math.Max(maxR, ratio[i])
	}

	var bestName string
	var bestScore float64
	bestIdx := -1
	for i, md := range candidates {
		nT := 1.0
		if maxLogT > minLogT {
			nT = (logT[i] - minLogT) / (maxLogT - minLogT)
		}
		nR := 1.0
		if maxR > minR {
			nR = 1 - (ratio[i]-minR)/(maxR-minR)
		}
		score := weights.ThroughputWeight*nT + weights.RatioWeight*nR
		if bestIdx == -1 || score > bestScore {
			bestIdx, bestScore, bestName = i, score, md.Name
		}
	}
	return bestName
}
