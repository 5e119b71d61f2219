package messages

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Temperature controls sampling randomness, in [0.0, 1.0].
type Temperature struct {
	value float64
}

// DefaultTemperature is the API's default of 1.0.
func DefaultTemperature() Temperature { return Temperature{value: 1.0} }

func NewTemperature(value float64) (Temperature, error) {
	if err := checkUnitInterval("temperature", value); err != nil {
		return Temperature{}, err
	}
	return Temperature{value: value}, nil
}

func (t Temperature) Value() float64 { return t.value }

func (t Temperature) String() string { return strconv.FormatFloat(t.value, 'f', -1, 64) }

func (t Temperature) MarshalJSON() ([]byte, error) { return json.Marshal(t.value) }

func (t *Temperature) UnmarshalJSON(data []byte) error {
	value, err := unmarshalUnitInterval("temperature", data)
	if err != nil {
		return err
	}
	t.value = value
	return nil
}

// TopP is the nucleus sampling threshold, in [0.0, 1.0].
type TopP struct {
	value float64
}

func NewTopP(value float64) (TopP, error) {
	if err := checkUnitInterval("top_p", value); err != nil {
		return TopP{}, err
	}
	return TopP{value: value}, nil
}

func (p TopP) Value() float64 { return p.value }

func (p TopP) String() string { return strconv.FormatFloat(p.value, 'f', -1, 64) }

func (p TopP) MarshalJSON() ([]byte, error) { return json.Marshal(p.value) }

func (p *TopP) UnmarshalJSON(data []byte) error {
	value, err := unmarshalUnitInterval("top_p", data)
	if err != nil {
		return err
	}
	p.value = value
	return nil
}

// TopK limits sampling to the K most likely tokens.
type TopK struct {
	value int
}

func NewTopK(value int) (TopK, error) {
	if value < 0 {
		return TopK{}, newValidationError("top_k", value, "must not be negative")
	}
	return TopK{value: value}, nil
}

func (k TopK) Value() int { return k.value }

func (k TopK) String() string { return strconv.Itoa(k.value) }

func (k TopK) MarshalJSON() ([]byte, error) { return json.Marshal(k.value) }

func (k *TopK) UnmarshalJSON(data []byte) error {
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("top_k: %w", err)
	}
	parsed, err := NewTopK(value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func checkUnitInterval(field string, value float64) error {
	// NaN fails both comparisons, so test for the accepted range.
	if !(value >= 0 && value <= 1) {
		return newValidationError(field, value, "must be between 0.0 and 1.0")
	}
	return nil
}

func unmarshalUnitInterval(field string, data []byte) (float64, error) {
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if err := checkUnitInterval(field, value); err != nil {
		return 0, err
	}
	return value, nil
}
