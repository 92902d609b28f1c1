package orchestrator

import (
	"strings"

	"github.com/danielpatrickdp/uqrc-engine/internal/codec"
	"github.com/danielpatrickdp/uqrc-engine/internal/loss"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
	"go.uber.org/zap"
)

// #region train

// creativityWindow is how many recent committed vectors feed the creativity term.
const creativityWindow = 3

// Train scores st against the request texts and the committed history, then
// nudges the operator parameters by the weighted loss. The new parameters
// apply to every later turn.
func (o *Orchestrator) Train(req TrainRequest, st state.InteractionState) TrainResult {
	dim := st.Dimension()
	in := loss.Inputs{
		Prediction: st.U,
		Target:     encodeOptional(req.Target, dim),
		Paraphrase: encodeOptional(req.Paraphrase, dim),
		Evidence:   encodeOptional(req.Evidence, dim),
	}

	if o.memory != nil {
		committed := o.memory.List()
		if n := len(committed); n >= 2 {
			in.Previous = committed[n-2].U
			for _, e := range committed[max(0, n-creativityWindow):] {
				in.Samples = append(in.Samples, e.U)
			}
		}
	}

	b := loss.Compute(in, o.cfg.LossWeights, o.cfg.LossOptions)
	res := TrainResult{
		Breakdown: b,
		Before:    o.cfg.Params,
		After:     loss.UpdateParameters(o.cfg.Params, b.Total, o.cfg.LearningRate, o.cfg.Sensitivity),
	}
	o.cfg.Params = res.After

	o.logger.Info("training step",
		zap.Float64("total", b.Total),
		zap.Float64("nu", res.After.Nu),
		zap.Float64("beta", res.After.Beta),
		zap.Float64("curvatureStrength", res.After.CurvatureStrength))

	for _, obs := range o.observers {
		obs.ObserveTrain(res)
	}
	return res
}

func encodeOptional(text string, dim int) vector.Vector {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return codec.Encode(text, dim)
}

// #endregion
