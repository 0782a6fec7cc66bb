package series

import (
	"bytes"
	"encoding/json"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// DecodeRecords splits an upstream payload into its object entries.
//
// Behavior:
//   - A payload that is not a JSON array (object, null, garbage) yields no records.
//     Callers reading from the network reject invalid JSON before this point.
//   - Array entries that are not JSON objects are skipped and counted.
//
// Returns:
//   - []models.RawRecord: object entries in payload order.
//   - int: number of skipped (non-object) entries.
func DecodeRecords(data []byte) ([]models.RawRecord, int) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []models.RawRecord{}, 0
	}

	out := make([]models.RawRecord, 0, len(items))
	skipped := 0
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			skipped++
			continue
		}
		var rec models.RawRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

// PredictionRecord extracts the known prediction fields from a raw object.
// Fields with the wrong JSON type are treated as absent.
func PredictionRecord(rec models.RawRecord) models.RawPredictionRecord {
	return models.RawPredictionRecord{
		Date:            stringField(rec, "Date"),
		PredictDateLSTM: stringField(rec, "predict_date_lstm"),
		PredictDate:     stringField(rec, "predict_date"),
		PredictionLSTM:  numberField(rec, "prediction_lstm"),
		Prediction:      numberField(rec, "prediction"),
		Ticker:          stringField(rec, "Ticker"),
	}
}

// HistoryRecord extracts the known history fields from a raw object.
func HistoryRecord(rec models.RawRecord) models.RawHistoryRecord {
	return models.RawHistoryRecord{
		Date:       stringField(rec, "Date"),
		DateLower:  stringField(rec, "date"),
		Close:      numberField(rec, "Close"),
		CloseLower: numberField(rec, "close"),
		Ticker:     stringField(rec, "Ticker"),
	}
}

// DecodePredictions decodes a /predictions payload. See DecodeRecords.
func DecodePredictions(data []byte) ([]models.RawPredictionRecord, int) {
	recs, skipped := DecodeRecords(data)
	out := make([]models.RawPredictionRecord, len(recs))
	for i, r := range recs {
		out[i] = PredictionRecord(r)
	}
	return out, skipped
}

// DecodeHistory decodes a /history payload. See DecodeRecords.
func DecodeHistory(data []byte) ([]models.RawHistoryRecord, int) {
	recs, skipped := DecodeRecords(data)
	out := make([]models.RawHistoryRecord, len(recs))
	for i, r := range recs {
		out[i] = HistoryRecord(r)
	}
	return out, skipped
}

// NormalizePredictions maps each record to a Point, one per input record.
//
// The first non-empty of predict_date_lstm, predict_date, Date becomes the
// date; the first present of prediction_lstm, prediction becomes the value.
// Records without a usable date are kept with an empty Date; Dedup drops them.
func NormalizePredictions(raw []models.RawPredictionRecord) []models.Point {
	out := make([]models.Point, len(raw))
	for i, r := range raw {
		out[i] = models.Point{
			Date:  firstNonEmpty(r.PredictDateLSTM, r.PredictDate, r.Date),
			Value: firstPresent(r.PredictionLSTM, r.Prediction),
		}
	}
	return out
}

// NormalizeHistory maps each record to a Point, one per input record.
// Capitalized Date/Close win over lowercase date/close.
func NormalizeHistory(raw []models.RawHistoryRecord) []models.Point {
	out := make([]models.Point, len(raw))
	for i, r := range raw {
		out[i] = models.Point{
			Date:  firstNonEmpty(r.Date, r.DateLower),
			Value: firstPresent(r.Close, r.CloseLower),
		}
	}
	return out
}

// firstNonEmpty skips nil and empty strings.
func firstNonEmpty(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

// firstPresent takes the first non-nil value; zero counts as present.
func firstPresent(candidates ...*float64) models.OptionalFloat {
	for _, c := range candidates {
		if c != nil {
			return models.Some(*c)
		}
	}
	return models.Null
}

func stringField(rec models.RawRecord, key string) *string {
	raw, ok := rec[key]
	if !ok {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}

func numberField(rec models.RawRecord, key string) *float64 {
	raw, ok := rec[key]
	if !ok {
		return nil
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}
