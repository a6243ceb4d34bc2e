package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	data := map[string]string{"path": "/data", "last": "{}"}
	if msg := T("missing_property", data); msg != "/data is missing from the structure, last node was {}" {
		t.Fatalf("unexpected en message: %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("missing_property", data); msg == "/data is missing from the structure, last node was {}" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("want code echoed back, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("truncated", nil); msg != "X:truncated" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	SetTranslator(nil)
	if msg := T("truncated", nil); msg != "truncated" {
		t.Fatalf("reset failed: %q", msg)
	}
}

func TestExpand_LeavesUnknownPlaceholders(t *testing.T) {
	got := Expand("{a} and {b}", map[string]string{"a": "1"})
	if got != "1 and {b}" {
		t.Fatalf("got %q", got)
	}
}
