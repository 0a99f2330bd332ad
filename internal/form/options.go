package form

import "strings"

// OptionDraft 选择题选项的编辑态
type OptionDraft struct {
	OptionID    string `json:"optionId,omitempty"`
	OptionText  string `json:"optionText"`
	IsCorrect   bool   `json:"isCorrect"`
	OrderIndex  int    `json:"orderIndex"`
	Explanation string `json:"explanation,omitempty"`
}

// OptionRule 选项列表何时生效以及提交要求
type OptionRule struct {
	Applies func(v Values) bool
	// Seed 进入选择题时自动生成的空选项数
	Seed int
	// MinFilled 提交时至少需要的非空选项数
	MinFilled int
	// NoBlank 不允许存在空选项（课程练习）
	NoBlank bool
	// AnswerField 非选择题的标准答案字段，选择题提交时置空
	AnswerField string
	// Embedded 选项随题目一起提交；为 false 时由调用方单独创建
	Embedded bool
}

func blankOptions(n int) []OptionDraft {
	if n < 1 {
		n = 1
	}
	out := make([]OptionDraft, n)
	for i := range out {
		out[i].OrderIndex = i + 1
	}
	return out
}

// Renumbered orderIndex 按当前顺序重排为 1..n
func (s State) Renumbered() State {
	for i := range s.Options {
		s.Options[i].OrderIndex = i + 1
	}
	return s
}

// Filled 非空选项，已去除首尾空白并重排序号
func (s State) Filled() []OptionDraft {
	out := make([]OptionDraft, 0, len(s.Options))
	for _, o := range s.Options {
		o.OptionText = strings.TrimSpace(o.OptionText)
		if o.OptionText == "" {
			continue
		}
		o.OrderIndex = len(out) + 1
		out = append(out, o)
	}
	return out
}

func AddOption(s State) State {
	next := s.Clone()
	next.Options = append(next.Options, OptionDraft{})
	return next.Renumbered()
}

// RemoveOption 至少保留一个选项；越界时原样返回
func RemoveOption(s State, i int) State {
	next := s.Clone()
	if i < 0 || i >= len(next.Options) || len(next.Options) <= 1 {
		return next
	}
	next.Options = append(next.Options[:i], next.Options[i+1:]...)
	return next.Renumbered()
}

// UpdateOption field 取 optionText / isCorrect / explanation
func UpdateOption(s State, i int, field string, value interface{}) State {
	next := s.Clone()
	if i < 0 || i >= len(next.Options) {
		return next
	}
	opt := &next.Options[i]
	switch field {
	case "optionText":
		opt.OptionText = Values{"v": value}.String("v")
	case "isCorrect":
		b, _ := toBool(value)
		opt.IsCorrect = b
	case "explanation":
		opt.Explanation = Values{"v": value}.String("v")
	}
	return next
}
