package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Values 表单字段值。数字统一存 float64，与 JSON 解码结果一致
type Values map[string]interface{}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func (v Values) String(name string) string {
	switch val := v[name].(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func (v Values) Float(name string) float64 {
	f, _ := toFloat(v[name])
	return f
}

func (v Values) Int(name string) int {
	return int(v.Float(name))
}

func (v Values) Bool(name string) bool {
	b, _ := toBool(v[name])
	return b
}

// Is 字段值（去空白后）等于任一候选值
func (v Values) Is(name string, candidates ...string) bool {
	cur := strings.TrimSpace(v.String(name))
	for _, c := range candidates {
		if cur == c {
			return true
		}
	}
	return false
}

func toFloat(val interface{}) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toBool(val interface{}) (bool, bool) {
	switch b := val.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	}
	return false, false
}

// coerce 按字段类型规整输入，无法转换时保留原值交给校验报错
func coerce(t FieldType, val interface{}) interface{} {
	if val == nil {
		return nil
	}
	switch t {
	case Number, Integer:
		if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
			return nil
		}
		if f, ok := toFloat(val); ok {
			if t == Integer {
				return float64(int64(f))
			}
			return f
		}
	case Bool:
		if b, ok := toBool(val); ok {
			return b
		}
	case Text, LongText, Enum:
		if s, ok := val.(string); ok {
			return s
		}
		return fmt.Sprint(val)
	}
	return val
}

func isEmpty(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}
