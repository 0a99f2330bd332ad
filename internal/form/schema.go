package form

import (
	"encoding/json"
	"fmt"
)

type FieldType string

const (
	Text     FieldType = "text"
	LongText FieldType = "longtext"
	Number   FieldType = "number"
	Integer  FieldType = "integer"
	Bool     FieldType = "bool"
	Enum     FieldType = "enum"
)

// Predicate 基于当前表单值判断字段是否显示或必填
type Predicate func(v Values) bool

func Always(Values) bool { return true }

// When 字段等于任一给定值时成立
func When(field string, values ...string) Predicate {
	return func(v Values) bool { return v.Is(field, values...) }
}

func Not(p Predicate) Predicate {
	return func(v Values) bool { return !p(v) }
}

type Field struct {
	Name    string
	Label   string
	Type    FieldType
	Default interface{}
	Choices []string

	// Rules validator/v10 规则，例如 "min=1,max=600"
	Rules    string
	Visible  Predicate
	Required Predicate
}

func (f Field) visible(v Values) bool {
	return f.Visible == nil || f.Visible(v)
}

func (f Field) required(v Values) bool {
	return f.Required != nil && f.Required(v) && f.visible(v)
}

// Reset 修改 Field 后对整个表单的派生调整，必须是纯函数
type Reset struct {
	Field string
	Apply func(prev Values, next State) State
}

// Check 字段规则之外的整表校验，返回 字段名 -> 提示
type Check func(s State) map[string]string

type Schema struct {
	Resource string
	Fields   []Field
	Resets   []Reset
	Options  *OptionRule
	Checks   []Check
}

// State 一次编辑中的表单：字段值加选项列表
type State struct {
	Values  Values        `json:"values"`
	Options []OptionDraft `json:"options,omitempty"`
}

func (s State) Clone() State {
	out := State{Values: s.Values.clone()}
	if s.Options != nil {
		out.Options = append([]OptionDraft{}, s.Options...)
	}
	return out
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// New 新建表单的默认值
func (s *Schema) New() State {
	st := State{Values: make(Values, len(s.Fields))}
	for _, f := range s.Fields {
		st.Values[f.Name] = f.Default
	}
	if s.Options != nil && s.Options.Applies(st.Values) {
		st.Options = blankOptions(s.Options.Seed)
	}
	return st
}

// From 以已有记录填充编辑表单，记录里没有的字段取默认值
func (s *Schema) From(record interface{}) (State, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return State{}, fmt.Errorf("encode %s record: %w", s.Resource, err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return State{}, fmt.Errorf("%s record is not an object: %w", s.Resource, err)
	}

	st := s.New()
	for _, f := range s.Fields {
		data, ok := m[f.Name]
		if !ok {
			continue
		}
		var val interface{}
		if err := json.Unmarshal(data, &val); err != nil {
			return State{}, err
		}
		if val == nil {
			continue
		}
		st.Values[f.Name] = coerce(f.Type, val)
	}

	st.Options = nil
	if data, ok := m["options"]; ok && s.Options != nil {
		var opts []OptionDraft
		if err := json.Unmarshal(data, &opts); err != nil {
			return State{}, fmt.Errorf("decode options: %w", err)
		}
		st.Options = opts
	}
	if s.Options != nil && s.Options.Applies(st.Values) && len(st.Options) == 0 {
		st.Options = blankOptions(1)
	}
	return st.Renumbered(), nil
}

// Set 修改一个字段并依次应用该字段的派生调整；未知字段原样返回
func (s *Schema) Set(st State, name string, value interface{}) State {
	next := st.Clone()
	f, ok := s.Field(name)
	if !ok {
		return next
	}
	next.Values[name] = coerce(f.Type, value)
	for _, r := range s.Resets {
		if r.Field == name {
			next = r.Apply(st.Values, next)
		}
	}
	return next
}

// Payload 提交给后端的请求体：隐藏字段置空，选择题附带非空选项
func (s *Schema) Payload(st State) map[string]interface{} {
	out := make(map[string]interface{}, len(s.Fields)+1)
	for _, f := range s.Fields {
		if !f.visible(st.Values) {
			out[f.Name] = nil
			continue
		}
		val := st.Values[f.Name]
		if f.Type == Integer && val != nil {
			if n, ok := toFloat(val); ok {
				val = int64(n)
			}
		}
		if (f.Type == Text || f.Type == LongText) && val == nil {
			val = ""
		}
		out[f.Name] = val
	}

	if rule := s.Options; rule != nil {
		if rule.Applies(st.Values) {
			if rule.Embedded {
				out["options"] = st.Filled()
			}
			if rule.AnswerField != "" {
				out[rule.AnswerField] = ""
			}
		} else if rule.Embedded {
			out["options"] = []OptionDraft{}
		}
	}
	return out
}

// FieldView 表单描述，供页面渲染
type FieldView struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Type     FieldType   `json:"type"`
	Value    interface{} `json:"value"`
	Choices  []string    `json:"choices,omitempty"`
	Visible  bool        `json:"visible"`
	Required bool        `json:"required"`
}

type View struct {
	Resource   string        `json:"resource"`
	Fields     []FieldView   `json:"fields"`
	Options    []OptionDraft `json:"options,omitempty"`
	HasOptions bool          `json:"hasOptions"`
	MinOptions int           `json:"minOptions,omitempty"`
}

func (s *Schema) Describe(st State) View {
	view := View{Resource: s.Resource, Options: st.Options}
	for _, f := range s.Fields {
		view.Fields = append(view.Fields, FieldView{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Value:    st.Values[f.Name],
			Choices:  f.Choices,
			Visible:  f.visible(st.Values),
			Required: f.required(st.Values),
		})
	}
	if s.Options != nil && s.Options.Applies(st.Values) {
		view.HasOptions = true
		view.MinOptions = s.Options.MinFilled
	}
	return view
}
