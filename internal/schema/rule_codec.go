package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ruleWire 规则在 JSON/YAML/msgpack 中的统一线格式
type ruleWire struct {
	Type      RuleKind `json:"type" yaml:"type" msgpack:"type"`
	Value     any      `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Values    []string `json:"values,omitempty" yaml:"values,omitempty" msgpack:"values,omitempty"`
	Validator string   `json:"validator,omitempty" yaml:"validator,omitempty" msgpack:"validator,omitempty"`
}

func toWire(r Rule) ruleWire {
	w := ruleWire{Type: r.Kind()}
	switch rule := r.(type) {
	case MinLengthRule:
		w.Value = rule.Value
	case MaxLengthRule:
		w.Value = rule.Value
	case PatternRule:
		w.Value = rule.Value
	case MinRule:
		w.Value = rule.Value
	case MaxRule:
		w.Value = rule.Value
	case EnumRule:
		w.Values = rule.Values
	case StartsWithRule:
		w.Value = rule.Value
	case EndsWithRule:
		w.Value = rule.Value
	case CustomRule:
		w.Validator = rule.Validator
	case EmailRule, URLRule, UUIDRule:
	}
	return w
}

func fromWire(w ruleWire) (Rule, error) {
	if w.Value != nil && w.Values != nil {
		return nil, fmt.Errorf("rule '%s' carries both value and values", w.Type)
	}

	switch w.Type {
	case KindMinLength, KindMaxLength:
		if err := onlyValue(w); err != nil {
			return nil, err
		}
		n, err := toInt(w.Value)
		if err != nil {
			return nil, fmt.Errorf("rule '%s': %w", w.Type, err)
		}
		if w.Type == KindMinLength {
			return MinLength(n), nil
		}
		return MaxLength(n), nil

	case KindMin, KindMax:
		if err := onlyValue(w); err != nil {
			return nil, err
		}
		f, err := toFloat(w.Value)
		if err != nil {
			return nil, fmt.Errorf("rule '%s': %w", w.Type, err)
		}
		if w.Type == KindMin {
			return Min(f), nil
		}
		return Max(f), nil

	case KindPattern, KindStartsWith, KindEndsWith:
		if err := onlyValue(w); err != nil {
			return nil, err
		}
		s, ok := w.Value.(string)
		if !ok {
			return nil, fmt.Errorf("rule '%s': expected string value", w.Type)
		}
		switch w.Type {
		case KindPattern:
			return Pattern(s), nil
		case KindStartsWith:
			return StartsWith(s), nil
		}
		return EndsWith(s), nil

	case KindEnum:
		if w.Value != nil || w.Validator != "" {
			return nil, fmt.Errorf("rule 'enum' only accepts values")
		}
		if len(w.Values) == 0 {
			return nil, fmt.Errorf("rule 'enum' requires values")
		}
		return Enum(w.Values...), nil

	case KindEmail, KindURL, KindUUID:
		if w.Value != nil || w.Values != nil || w.Validator != "" {
			return nil, fmt.Errorf("rule '%s' takes no payload", w.Type)
		}
		switch w.Type {
		case KindEmail:
			return Email(), nil
		case KindURL:
			return URL(), nil
		}
		return UUID(), nil

	case KindCustom:
		if w.Value != nil || w.Values != nil {
			return nil, fmt.Errorf("rule 'custom' only accepts validator")
		}
		if w.Validator == "" {
			return nil, fmt.Errorf("rule 'custom' requires validator")
		}
		return Custom(w.Validator), nil
	}

	return nil, fmt.Errorf("unknown rule type '%s'", w.Type)
}

func onlyValue(w ruleWire) error {
	if w.Value == nil {
		return fmt.Errorf("rule '%s' requires value", w.Type)
	}
	if w.Validator != "" {
		return fmt.Errorf("rule '%s' does not accept validator", w.Type)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected numeric value, got %T", v)
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer value, got %v", f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("integer value out of range: %v", f)
	}
	return int(f), nil
}

func (rs Rules) toWire() []ruleWire {
	result := make([]ruleWire, len(rs))
	for i, r := range rs {
		result[i] = toWire(r)
	}
	return result
}

func rulesFromWire(ws []ruleWire) (Rules, error) {
	if ws == nil {
		return nil, nil
	}
	result := make(Rules, 0, len(ws))
	for i, w := range ws {
		r, err := fromWire(w)
		if err != nil {
			return nil, fmt.Errorf("validation[%d]: %w", i, err)
		}
		result = append(result, r)
	}
	return result, nil
}

// MarshalJSON 实现 json.Marshaler
func (rs Rules) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.toWire())
}

// UnmarshalJSON 实现 json.Unmarshaler
func (rs *Rules) UnmarshalJSON(data []byte) error {
	var ws []ruleWire
	if err := json.Unmarshal(data, &ws); err != nil {
		return err
	}
	parsed, err := rulesFromWire(ws)
	if err != nil {
		return err
	}
	*rs = parsed
	return nil
}

// MarshalYAML 实现 yaml.Marshaler
func (rs Rules) MarshalYAML() (interface{}, error) {
	return rs.toWire(), nil
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (rs *Rules) UnmarshalYAML(value *yaml.Node) error {
	var ws []ruleWire
	if err := value.Decode(&ws); err != nil {
		return err
	}
	parsed, err := rulesFromWire(ws)
	if err != nil {
		return err
	}
	*rs = parsed
	return nil
}

// EncodeMsgpack 实现 msgpack.CustomEncoder
func (rs Rules) EncodeMsgpack(enc *msgpack.Encoder) error {
	if rs == nil {
		return enc.EncodeNil()
	}
	return enc.Encode(rs.toWire())
}

// DecodeMsgpack 实现 msgpack.CustomDecoder
func (rs *Rules) DecodeMsgpack(dec *msgpack.Decoder) error {
	var ws []ruleWire
	if err := dec.Decode(&ws); err != nil {
		return err
	}
	parsed, err := rulesFromWire(ws)
	if err != nil {
		return err
	}
	*rs = parsed
	return nil
}
