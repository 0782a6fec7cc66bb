package models

import "encoding/json"

// RawRecord is one upstream JSON object keyed by its original field names.
//
// Field lookups on a RawRecord are exact: "Date" and "date" are different
// keys, unlike encoding/json struct decoding which folds case.
type RawRecord map[string]json.RawMessage

// RawPredictionRecord is a prediction row as emitted by the prediction
// service. The same logical date/value pair arrives under different field
// names depending on the model that produced it.
//
// Resolution precedence:
//   - date:  PredictDateLSTM > PredictDate > Date
//   - value: PredictionLSTM > Prediction
type RawPredictionRecord struct {
	Date            *string  `json:"Date,omitempty"`
	PredictDateLSTM *string  `json:"predict_date_lstm,omitempty"`
	PredictDate     *string  `json:"predict_date,omitempty"`
	PredictionLSTM  *float64 `json:"prediction_lstm,omitempty"`
	Prediction      *float64 `json:"prediction,omitempty"`
	Ticker          *string  `json:"Ticker,omitempty"`
}

// RawHistoryRecord is a historical close row. Some sources use lowercase
// keys; the capitalized field wins when both are present.
type RawHistoryRecord struct {
	Date       *string  `json:"Date,omitempty"`
	DateLower  *string  `json:"date,omitempty"`
	Close      *float64 `json:"Close,omitempty"`
	CloseLower *float64 `json:"close,omitempty"`
	Ticker     *string  `json:"Ticker,omitempty"`
}
