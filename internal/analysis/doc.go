// Package analysis provides tools for characterizing particle-life runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled metric series
//   - [DominantPeriod]: strongest oscillation period, in ticks
//   - [Divergence]: separation of two worlds that start one nudge apart
//   - [LyapunovEstimate]: mean exponential growth rate of that separation
//   - [DensityASCII]: character-shaded particle density map of a snapshot
//
// # Chaos Detection
//
// A positive estimate means a tiny perturbation of one particle spreads
// through the whole world:
//
//	sep, _ := analysis.Divergence(cfg, rel, seed, 1e-6, 200)
//	if analysis.LyapunovEstimate(sep, 1e-6) > 0 {
//	    // sensitive to initial conditions
//	}
package analysis
