// Package analysis summarizes recorded runs.
//
//   - [Series]: one named column of a run's samples
//   - [Summarize]: mean, spread and range of a series
//   - [PowerSpectrum], [DominantFrequency]: bobbing frequency of a floating body
//   - [BoatPhasePortrait]: boat height against vertical velocity
//
// A floating body released off its equilibrium oscillates about its
// waterline; the dominant frequency of its height series approaches
// sqrt(rho*g*A/m) for a prism of waterline area A:
//
//	heights, _ := analysis.Series(samples, "boat_y")
//	f := analysis.DominantFrequency(heights, dt)
package analysis
