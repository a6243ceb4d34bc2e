package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for failure codes.
// data provides values substituted into {name} placeholders
// (for example "path", "last", "wanted", "raw", "reason").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalogue = map[string]map[string]string{
	"en": {
		"missing_property":             "{path} is missing from the structure, last node was {last}",
		"invalid_property_type":        "expected {path} to be {wanted}, but is {raw}",
		"invalid_property_type_reason": "expected {path} to be {wanted}, but is {raw} and {reason}",
		"structure_invalid":            "structure failed to validate: ",
		"duplicate_key":                "duplicate key",
		"parse_error":                  "parse error",
		"truncated":                    "truncated",
	},
	"ja": {
		"missing_property":             "{path} が構造に存在しません (最後に到達したノード: {last})",
		"invalid_property_type":        "{path} は {wanted} である必要がありますが {raw} です",
		"invalid_property_type_reason": "{path} は {wanted} である必要がありますが {raw} です ({reason})",
		"structure_invalid":            "構造の検証に失敗しました: ",
		"duplicate_key":                "キーが重複しています",
		"parse_error":                  "解析エラー",
		"truncated":                    "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msgs, ok := catalogue[t.lang]
	if !ok {
		msgs = catalogue["en"]
	}
	tmpl, ok := msgs[code]
	if !ok {
		return code
	}
	return Expand(tmpl, data)
}

// Expand substitutes {name} placeholders in tmpl with data values.
// Unknown placeholders are left untouched.
func Expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
