package schema

import (
	"fmt"
	"regexp"
)

// RuleKind 校验规则类型
type RuleKind string

// 校验规则类型
const (
	KindMinLength  RuleKind = "minLength"
	KindMaxLength  RuleKind = "maxLength"
	KindPattern    RuleKind = "pattern"
	KindMin        RuleKind = "min"
	KindMax        RuleKind = "max"
	KindEmail      RuleKind = "email"
	KindURL        RuleKind = "url"
	KindUUID       RuleKind = "uuid"
	KindEnum       RuleKind = "enum"
	KindStartsWith RuleKind = "startsWith"
	KindEndsWith   RuleKind = "endsWith"
	KindCustom     RuleKind = "custom"
)

// RuleKinds 返回全部规则类型
func RuleKinds() []RuleKind {
	return []RuleKind{
		KindMinLength, KindMaxLength, KindPattern, KindMin, KindMax, KindEmail,
		KindURL, KindUUID, KindEnum, KindStartsWith, KindEndsWith, KindCustom,
	}
}

// Rule 校验规则，封闭的和类型：只有本包内的规则类型实现它
type Rule interface {
	Kind() RuleKind
	isRule()
}

// MinLengthRule 最小长度
type MinLengthRule struct{ Value int }

// MaxLengthRule 最大长度
type MaxLengthRule struct{ Value int }

// PatternRule 正则匹配
type PatternRule struct{ Value string }

// MinRule 最小值
type MinRule struct{ Value float64 }

// MaxRule 最大值
type MaxRule struct{ Value float64 }

// EmailRule 邮箱格式
type EmailRule struct{}

// URLRule URL 格式
type URLRule struct{}

// UUIDRule UUID 格式
type UUIDRule struct{}

// EnumRule 枚举值
type EnumRule struct{ Values []string }

// StartsWithRule 前缀
type StartsWithRule struct{ Value string }

// EndsWithRule 后缀
type EndsWithRule struct{ Value string }

// CustomRule 自定义校验器
type CustomRule struct{ Validator string }

func (MinLengthRule) Kind() RuleKind  { return KindMinLength }
func (MaxLengthRule) Kind() RuleKind  { return KindMaxLength }
func (PatternRule) Kind() RuleKind    { return KindPattern }
func (MinRule) Kind() RuleKind        { return KindMin }
func (MaxRule) Kind() RuleKind        { return KindMax }
func (EmailRule) Kind() RuleKind      { return KindEmail }
func (URLRule) Kind() RuleKind        { return KindURL }
func (UUIDRule) Kind() RuleKind       { return KindUUID }
func (EnumRule) Kind() RuleKind       { return KindEnum }
func (StartsWithRule) Kind() RuleKind { return KindStartsWith }
func (EndsWithRule) Kind() RuleKind   { return KindEndsWith }
func (CustomRule) Kind() RuleKind     { return KindCustom }

func (MinLengthRule) isRule()  {}
func (MaxLengthRule) isRule()  {}
func (PatternRule) isRule()    {}
func (MinRule) isRule()        {}
func (MaxRule) isRule()        {}
func (EmailRule) isRule()      {}
func (URLRule) isRule()        {}
func (UUIDRule) isRule()       {}
func (EnumRule) isRule()       {}
func (StartsWithRule) isRule() {}
func (EndsWithRule) isRule()   {}
func (CustomRule) isRule()     {}

// MinLength 创建最小长度规则
func MinLength(n int) Rule { return MinLengthRule{Value: n} }

// MaxLength 创建最大长度规则
func MaxLength(n int) Rule { return MaxLengthRule{Value: n} }

// Pattern 创建正则规则
func Pattern(expr string) Rule { return PatternRule{Value: expr} }

// Min 创建最小值规则
func Min(v float64) Rule { return MinRule{Value: v} }

// Max 创建最大值规则
func Max(v float64) Rule { return MaxRule{Value: v} }

// Email 创建邮箱规则
func Email() Rule { return EmailRule{} }

// URL 创建 URL 规则
func URL() Rule { return URLRule{} }

// UUID 创建 UUID 规则
func UUID() Rule { return UUIDRule{} }

// Enum 创建枚举规则
func Enum(values ...string) Rule {
	vs := make([]string, len(values))
	copy(vs, values)
	return EnumRule{Values: vs}
}

// StartsWith 创建前缀规则
func StartsWith(prefix string) Rule { return StartsWithRule{Value: prefix} }

// EndsWith 创建后缀规则
func EndsWith(suffix string) Rule { return EndsWithRule{Value: suffix} }

// Custom 创建自定义规则
func Custom(validator string) Rule { return CustomRule{Validator: validator} }

// Rules 属性上的规则列表
type Rules []Rule

// Clone 拷贝规则列表（EnumRule 的值切片也会拷贝）
func (rs Rules) Clone() Rules {
	if rs == nil {
		return nil
	}
	result := make(Rules, len(rs))
	for i, r := range rs {
		if e, ok := r.(EnumRule); ok {
			r = Enum(e.Values...)
		}
		result[i] = r
	}
	return result
}

// Check 检查规则之间的约束是否自洽
func (rs Rules) Check() error {
	var (
		minLen, maxLen     *int
		minValue, maxValue *float64
	)
	for i, r := range rs {
		switch rule := r.(type) {
		case MinLengthRule:
			if rule.Value < 0 {
				return fmt.Errorf("validation[%d]: minLength must be >= 0", i)
			}
			minLen = &rule.Value
		case MaxLengthRule:
			if rule.Value < 0 {
				return fmt.Errorf("validation[%d]: maxLength must be >= 0", i)
			}
			maxLen = &rule.Value
		case PatternRule:
			if _, err := regexp.Compile(rule.Value); err != nil {
				return fmt.Errorf("validation[%d]: invalid regex pattern: %w", i, err)
			}
		case MinRule:
			minValue = &rule.Value
		case MaxRule:
			maxValue = &rule.Value
		case EnumRule:
			if len(rule.Values) == 0 {
				return fmt.Errorf("validation[%d]: enum requires at least one value", i)
			}
		case CustomRule:
			if rule.Validator == "" {
				return fmt.Errorf("validation[%d]: custom requires a validator name", i)
			}
		case EmailRule, URLRule, UUIDRule, StartsWithRule, EndsWithRule:
		default:
			return fmt.Errorf("validation[%d]: unknown rule %T", i, r)
		}
	}

	if minLen != nil && maxLen != nil && *maxLen < *minLen {
		return fmt.Errorf("maxLength must be >= minLength")
	}
	if minValue != nil && maxValue != nil && *maxValue < *minValue {
		return fmt.Errorf("max must be >= min")
	}
	return nil
}
