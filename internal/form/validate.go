package form

import (
	"english_admin/internal/model"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidationError 客户端校验失败，提交前拦截，不发起任何请求
type ValidationError struct {
	Fields  map[string]string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

const (
	MsgTooFewOptions  = "Multiple choice questions need at least 2 answer options."
	MsgNoCorrect      = "Please mark at least one option as correct."
	MsgBlankOption    = "Please fill in all option texts."
	MsgMissingAnswer  = "Please provide the expected answer for this question."
	MsgTrueFalseValue = "Answer must be TRUE or FALSE."
)

var (
	engineOnce sync.Once
	validate   *validator.Validate
	trans      ut.Translator
)

func engine() (*validator.Validate, ut.Translator) {
	engineOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		english := en.New()
		uni := ut.New(english, english)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, trans)
	})
	return validate, trans
}

// Validate 字段必填、validator 规则、选项列表规则与整表校验
func (s *Schema) Validate(st State) error {
	fields := make(map[string]string)
	v, tr := engine()

	for _, f := range s.Fields {
		if !f.visible(st.Values) {
			continue
		}
		val := st.Values[f.Name]
		if isEmpty(val) {
			if f.required(st.Values) {
				fields[f.Name] = f.Label + " is required"
			}
			continue
		}
		if f.Type == Enum && len(f.Choices) > 0 && !contains(f.Choices, st.Values.String(f.Name)) {
			fields[f.Name] = fmt.Sprintf("%s must be one of %s", f.Label, strings.Join(f.Choices, ", "))
			continue
		}
		if (f.Type == Number || f.Type == Integer) && !isNumber(val) {
			fields[f.Name] = f.Label + " must be a number"
			continue
		}
		if f.Rules == "" {
			continue
		}
		if err := v.Var(val, f.Rules); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fields[f.Name] = strings.TrimSpace(f.Label + " " + strings.TrimSpace(verrs[0].Translate(tr)))
			} else {
				fields[f.Name] = f.Label + " is invalid"
			}
		}
	}

	message := ""
	if rule := s.Options; rule != nil {
		if rule.Applies(st.Values) {
			message = checkOptions(rule, st)
		} else if rule.AnswerField != "" {
			answer := strings.TrimSpace(st.Values.String(rule.AnswerField))
			switch {
			case answer == "":
				fields[rule.AnswerField] = MsgMissingAnswer
			case isTrueFalse(st.Values) && answer != "TRUE" && answer != "FALSE":
				fields[rule.AnswerField] = MsgTrueFalseValue
			}
		}
	}

	for _, check := range s.Checks {
		for k, msg := range check(st) {
			if _, exists := fields[k]; !exists {
				fields[k] = msg
			}
		}
	}

	if len(fields) == 0 && message == "" {
		return nil
	}
	if message != "" {
		fields["options"] = message
	}
	return &ValidationError{Fields: fields, Message: message}
}

func checkOptions(rule *OptionRule, st State) string {
	if rule.NoBlank {
		if len(st.Options) == 0 {
			return "Please add at least one option for multiple choice questions."
		}
		for _, o := range st.Options {
			if strings.TrimSpace(o.OptionText) == "" {
				return MsgBlankOption
			}
		}
	}

	filled := st.Filled()
	if len(filled) < rule.MinFilled {
		return MsgTooFewOptions
	}
	for _, o := range filled {
		if o.IsCorrect {
			return ""
		}
	}
	return MsgNoCorrect
}

func isTrueFalse(v Values) bool {
	return v.Is("questionType", string(model.QuestionTrueFalse)) || v.Is("exerciseType", string(model.QuestionTrueFalse))
}

func isNumber(val interface{}) bool {
	switch val.(type) {
	case float64, float32, int, int64, int32:
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
