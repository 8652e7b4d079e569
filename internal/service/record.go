package service

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"nodepilot/internal/schema"
)

// RecordValidator 按实体属性定义校验样例记录，用于在生成前试跑校验规则
type RecordValidator struct{}

// NewRecordValidator 创建样例记录验证器
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{}
}

// Validate 校验记录，自定义校验器无法在此执行，直接跳过
func (v *RecordValidator) Validate(entity string, props []schema.Property, data map[string]any) error {
	var fields []FieldError

	known := make(map[string]bool, len(props))
	for _, prop := range props {
		known[prop.Name] = true

		value, exists := data[prop.Name]
		if !exists || value == nil {
			if !prop.Nullable && !optionalType(prop.Type) {
				fields = append(fields, FieldError{Field: prop.Name, Message: "required field is missing"})
			}
			continue
		}

		if err := v.validatePropertyValue(prop, value); err != nil {
			fields = append(fields, FieldError{Field: prop.Name, Message: err.Error()})
		}
	}

	var unknown []string
	for name := range data {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fields = append(fields, FieldError{Field: name, Message: "unknown field"})
	}

	if len(fields) > 0 {
		return &RecordError{Entity: entity, Fields: fields}
	}
	return nil
}

// validatePropertyValue 验证属性值
func (v *RecordValidator) validatePropertyValue(prop schema.Property, value any) error {
	// 类型验证
	if err := v.validateType(prop.Type, value); err != nil {
		return err
	}

	// 规则验证
	for _, rule := range prop.Validation {
		if err := v.validateRule(rule, value); err != nil {
			return err
		}
	}
	return nil
}

// optionalType 这些类型的值本身就是缺省
func optionalType(t schema.FieldType) bool {
	switch t {
	case schema.TypeNull, schema.TypeUndefined, schema.TypeVoid, schema.TypeNever:
		return true
	}
	return false
}

// validateType 验证数据类型，自定义类型不做检查
func (v *RecordValidator) validateType(fieldType schema.FieldType, value any) error {
	if !fieldType.IsBuiltin() {
		return nil
	}

	switch fieldType {
	case schema.TypeString, schema.TypeSymbol:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string type")
		}
	case schema.TypeNumber:
		if _, ok := number(value); !ok {
			return fmt.Errorf("expected number type")
		}
	case schema.TypeBigInt:
		switch val := value.(type) {
		case string:
			if !bigIntPattern.MatchString(val) {
				return fmt.Errorf("expected bigint")
			}
		default:
			n, ok := number(value)
			if !ok || n != float64(int64(n)) {
				return fmt.Errorf("expected bigint")
			}
		}
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean type")
		}
	case schema.TypeDate:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected date string")
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			if _, err := time.Parse("2006-01-02", str); err != nil {
				return fmt.Errorf("invalid date format, expected YYYY-MM-DD or RFC3339")
			}
		}
	case schema.TypeArray:
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("expected array type")
		}
	case schema.TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object type")
		}
	case schema.TypeNull, schema.TypeUndefined, schema.TypeVoid, schema.TypeNever:
		return fmt.Errorf("expected no value")
	case schema.TypeFunction:
		return fmt.Errorf("function values cannot be checked")
	}
	return nil
}

var bigIntPattern = regexp.MustCompile(`^-?\d+$`)

// validateRule 单条规则，类型不适用的规则视为通过
func (v *RecordValidator) validateRule(rule schema.Rule, value any) error {
	str, isString := value.(string)

	switch r := rule.(type) {
	case schema.MinLengthRule:
		if n, ok := length(value); ok && n < r.Value {
			return fmt.Errorf("length must be >= %d", r.Value)
		}
	case schema.MaxLengthRule:
		if n, ok := length(value); ok && n > r.Value {
			return fmt.Errorf("length must be <= %d", r.Value)
		}
	case schema.PatternRule:
		if !isString {
			return nil
		}
		matched, err := regexp.MatchString(r.Value, str)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("string does not match pattern")
		}
	case schema.MinRule:
		if n, ok := number(value); ok && n < r.Value {
			return fmt.Errorf("value must be >= %v", r.Value)
		}
	case schema.MaxRule:
		if n, ok := number(value); ok && n > r.Value {
			return fmt.Errorf("value must be <= %v", r.Value)
		}
	case schema.EmailRule:
		if !isString {
			return fmt.Errorf("expected email string")
		}
		addr, err := mail.ParseAddress(str)
		if err != nil || addr.Address != str {
			return fmt.Errorf("invalid email address")
		}
	case schema.URLRule:
		if !isString {
			return fmt.Errorf("expected url string")
		}
		u, err := url.ParseRequestURI(str)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid url")
		}
	case schema.UUIDRule:
		if !isString {
			return fmt.Errorf("expected uuid string")
		}
		if _, err := uuid.Parse(str); err != nil {
			return fmt.Errorf("invalid uuid")
		}
	case schema.EnumRule:
		actual := fmt.Sprint(value)
		for _, e := range r.Values {
			if e == actual {
				return nil
			}
		}
		return fmt.Errorf("value must be one of: %s", strings.Join(r.Values, ", "))
	case schema.StartsWithRule:
		if isString && !strings.HasPrefix(str, r.Value) {
			return fmt.Errorf("value must start with '%s'", r.Value)
		}
	case schema.EndsWithRule:
		if isString && !strings.HasSuffix(str, r.Value) {
			return fmt.Errorf("value must end with '%s'", r.Value)
		}
	case schema.CustomRule:
	}
	return nil
}

func number(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func length(value any) (int, bool) {
	switch val := value.(type) {
	case string:
		return utf8.RuneCountInString(val), true
	case []any:
		return len(val), true
	}
	return 0, false
}
