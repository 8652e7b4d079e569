package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringList 既接受单个字符串也接受字符串数组，序列化为数组
type StringList []string

// UnmarshalJSON 实现 json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	values, err := decodeStringOrList(func(v any) error { return json.Unmarshal(data, v) })
	if err != nil {
		return err
	}
	*l = values
	return nil
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	values, err := decodeStringOrList(value.Decode)
	if err != nil {
		return err
	}
	*l = values
	return nil
}

// Origin CORS 允许的来源；只有一个来源时序列化为字符串
type Origin []string

// MarshalJSON 实现 json.Marshaler
func (o Origin) MarshalJSON() ([]byte, error) {
	if len(o) == 1 {
		return json.Marshal(o[0])
	}
	return json.Marshal([]string(o))
}

// UnmarshalJSON 实现 json.Unmarshaler
func (o *Origin) UnmarshalJSON(data []byte) error {
	values, err := decodeStringOrList(func(v any) error { return json.Unmarshal(data, v) })
	if err != nil {
		return err
	}
	*o = values
	return nil
}

// MarshalYAML 实现 yaml.Marshaler
func (o Origin) MarshalYAML() (interface{}, error) {
	if len(o) == 1 {
		return o[0], nil
	}
	return []string(o), nil
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (o *Origin) UnmarshalYAML(value *yaml.Node) error {
	values, err := decodeStringOrList(value.Decode)
	if err != nil {
		return err
	}
	*o = values
	return nil
}

// Allows 是否允许该来源
func (o Origin) Allows(origin string) bool {
	for _, v := range o {
		if v == "*" || v == origin {
			return true
		}
	}
	return false
}

func decodeStringOrList(decode func(any) error) ([]string, error) {
	var raw any
	if err := decode(&raw); err != nil {
		return nil, err
	}
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		result := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected string, got %T", i, item)
			}
			result = append(result, s)
		}
		return result, nil
	}
	return nil, fmt.Errorf("expected string or list of strings, got %T", raw)
}

// CorsOptions 生成后端的跨域策略
type CorsOptions struct {
	Origin               Origin     `json:"origin,omitempty" yaml:"origin,omitempty"`
	Methods              StringList `json:"methods,omitempty" yaml:"methods,omitempty"`
	AllowedHeaders       StringList `json:"allowedHeaders,omitempty" yaml:"allowedHeaders,omitempty"`
	ExposedHeaders       StringList `json:"exposedHeaders,omitempty" yaml:"exposedHeaders,omitempty"`
	Credentials          bool       `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	MaxAge               int        `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
	PreflightContinue    bool       `json:"preflightContinue,omitempty" yaml:"preflightContinue,omitempty"`
	OptionsSuccessStatus int        `json:"optionsSuccessStatus,omitempty" yaml:"optionsSuccessStatus,omitempty"`
}

// Clone 深拷贝
func (c CorsOptions) Clone() CorsOptions {
	out := c
	out.Origin = Origin(cloneStrings(c.Origin))
	out.Methods = StringList(cloneStrings(c.Methods))
	out.AllowedHeaders = StringList(cloneStrings(c.AllowedHeaders))
	out.ExposedHeaders = StringList(cloneStrings(c.ExposedHeaders))
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
