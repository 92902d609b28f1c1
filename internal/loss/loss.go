package loss

import (
	"math"

	"github.com/danielpatrickdp/uqrc-engine/internal/update"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region compute
// Compute evaluates every term and the weighted total.
func Compute(in Inputs, w Weights, opts Options) Breakdown {
	b := Breakdown{
		Task:          mse(in.Prediction, in.Target),
		Entropy:       entropy(in.Prediction, opts.RewardEntropy),
		Fluency:       fluency(in.Prediction),
		Memory:        mse(in.Prediction, in.Previous),
		Redundancy:    mse(in.Prediction, in.Paraphrase),
		Verifiability: mse(in.Prediction, in.Evidence),
		Creativity:    creativity(in.Samples),
	}
	b.Total = w.Task*b.Task +
		w.Entropy*b.Entropy +
		w.Fluency*b.Fluency +
		w.Memory*b.Memory +
		w.Redundancy*b.Redundancy +
		w.Verifiability*b.Verifiability +
		w.Creativity*b.Creativity
	return b
}

// #endregion compute

// #region terms
// mse over the overlap; 0 when either side is empty.
func mse(a, b vector.Vector) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(n)
}

func softmax(v vector.Vector) vector.Vector {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, x)
	}
	out := make(vector.Vector, len(v))
	sum := vector.Epsilon
	for i, x := range v {
		out[i] = math.Exp(x - m)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// entropy is the Shannon entropy of softmax(v), or its gap to the maximum
// log(n) when reward is set.
func entropy(v vector.Vector, reward bool) float64 {
	if len(v) == 0 {
		return 0
	}
	var h float64
	for _, p := range softmax(v) {
		h -= p * math.Log(p+vector.Epsilon)
	}
	if reward {
		return math.Max(0, math.Log(float64(len(v)))-h)
	}
	return h
}

// fluency is the mean squared successive difference.
func fluency(v vector.Vector) float64 {
	if len(v) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(v); i++ {
		d := v[i] - v[i-1]
		sum += d * d
	}
	return sum / float64(len(v)-1)
}

// creativity is 1/(variance + CreativityFloor), variance being the mean
// per-dimension variance across samples over their shared prefix.
func creativity(samples []vector.Vector) float64 {
	if len(samples) < 2 {
		return 0
	}
	n := len(samples[0])
	for _, s := range samples[1:] {
		n = min(n, len(s))
	}
	if n == 0 {
		return 0
	}

	k := float64(len(samples))
	var variance float64
	for i := 0; i < n; i++ {
		var mean float64
		for _, s := range samples {
			mean += s[i]
		}
		mean /= k
		for _, s := range samples {
			d := s[i] - mean
			variance += d * d / k
		}
	}
	variance /= float64(n)
	return 1 / (variance + CreativityFloor)
}

// #endregion terms

// #region update-parameters
// UpdateParameters lowers each tunable coefficient by rate*total*sensitivity,
// floored at 0. A non-finite or negative total leaves params unchanged.
func UpdateParameters(params update.Params, total, rate float64, s Sensitivity) update.Params {
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return params
	}
	step := rate * total
	nudge := func(x, sensitivity float64) float64 {
		return math.Max(0, x-step*sensitivity)
	}
	out := params
	out.Nu = nudge(params.Nu, s.Nu)
	out.Beta = nudge(params.Beta, s.Beta)
	out.CurvatureStrength = nudge(params.CurvatureStrength, s.CurvatureStrength)
	out.AttractorStrength = nudge(params.AttractorStrength, s.AttractorStrength)
	out.IntentStrength = nudge(params.IntentStrength, s.IntentStrength)
	out.ContinuityStrength = nudge(params.ContinuityStrength, s.ContinuityStrength)
	out.EntropyStrength = nudge(params.EntropyStrength, s.EntropyStrength)
	return out
}

// #endregion update-parameters
