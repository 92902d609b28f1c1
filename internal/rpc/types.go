package rpc

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/protobuf/types/known/structpb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// #region messages

// TurnRequest is the payload of Turn.
type TurnRequest struct {
	Input    string   `json:"input"`
	Feedback *float64 `json:"feedback,omitempty"`
}

// TurnResponse is the outcome of one turn.
type TurnResponse struct {
	TurnID             string   `json:"turnId"`
	Output             string   `json:"output"`
	Status             string   `json:"status"`
	Score              float64  `json:"score"`
	Reasons            []string `json:"reasons"`
	Forced             bool     `json:"forced"`
	HoldSteps          int      `json:"holdSteps"`
	Trigger            string   `json:"trigger"`
	Decision           string   `json:"decision"`
	Step               int      `json:"step"`
	AttractorDistance  float64  `json:"attractorDistance"`
	EntropyGate        float64  `json:"entropyGate"`
	SemanticDivergence float64  `json:"semanticDivergence"`
}

// AddHookRequest is the payload of AddHook.
type AddHookRequest struct {
	Message       string `json:"message"`
	Reply         string `json:"reply"`
	IncurSentence string `json:"incurSentence"`
}

// AddHookResponse reports the hook count after a successful add.
type AddHookResponse struct {
	Accepted bool `json:"accepted"`
	Count    int  `json:"count"`
}

// #endregion messages

// #region codec

// toStruct converts a JSON-tagged value into a structpb.Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return structpb.NewStruct(m)
}

// fromStruct decodes s into out, matching fields by their json tags.
func fromStruct(s *structpb.Struct, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(s.AsMap()); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// #endregion codec
