package form

import "fmt"

const (
	OpSet          = "set"
	OpAddOption    = "addOption"
	OpRemoveOption = "removeOption"
	OpUpdateOption = "updateOption"
)

// Change 页面上的一次编辑：改字段或增删改选项
type Change struct {
	Op    string      `json:"op"`
	Field string      `json:"field"`
	Index int         `json:"index"`
	Value interface{} `json:"value"`
}

// Apply 纯函数，原 st 不被修改；Op 为空视为 set
func (s *Schema) Apply(st State, ch Change) (State, error) {
	if st.Values == nil {
		st.Values = Values{}
	}
	switch ch.Op {
	case "", OpSet:
		if _, ok := s.Field(ch.Field); !ok {
			return st, fmt.Errorf("%s has no field %q", s.Resource, ch.Field)
		}
		return s.Set(st, ch.Field, ch.Value), nil
	case OpAddOption, OpRemoveOption, OpUpdateOption:
		if s.Options == nil || !s.Options.Applies(st.Values) {
			return st, fmt.Errorf("%s does not take options in its current state", s.Resource)
		}
		switch ch.Op {
		case OpAddOption:
			return AddOption(st), nil
		case OpRemoveOption:
			return RemoveOption(st, ch.Index), nil
		default:
			return UpdateOption(st, ch.Index, ch.Field, ch.Value), nil
		}
	}
	return st, fmt.Errorf("unknown form operation %q", ch.Op)
}
