package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// treeSource replays an already decoded value as tokens. Map keys are
// emitted in sorted order so runs over the same value are reproducible.
type treeSource struct {
	queue []Token
	pos   int
}

// NewTreeSource returns a TokenSource over v. Supported shapes are
// map[string]any, []any, string, bool, nil, json.Number and Go numbers.
func NewTreeSource(v any) (TokenSource, error) {
	ts := &treeSource{}
	if err := ts.emit(v); err != nil {
		return nil, err
	}
	return ts, nil
}

func (t *treeSource) push(tok Token) {
	tok.Offset = int64(len(t.queue))
	t.queue = append(t.queue, tok)
}

func (t *treeSource) emit(v any) error {
	switch x := v.(type) {
	case nil:
		t.push(Token{Kind: KindNull})
	case map[string]any:
		t.push(Token{Kind: KindBeginObject})
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.push(Token{Kind: KindKey, String: k})
			if err := t.emit(x[k]); err != nil {
				return err
			}
		}
		t.push(Token{Kind: KindEndObject})
	case []any:
		t.push(Token{Kind: KindBeginArray})
		for _, e := range x {
			if err := t.emit(e); err != nil {
				return err
			}
		}
		t.push(Token{Kind: KindEndArray})
	case string:
		t.push(Token{Kind: KindString, String: x})
	case bool:
		t.push(Token{Kind: KindBool, Bool: x})
	case json.Number:
		t.push(Token{Kind: KindNumber, Number: string(x)})
	case int:
		t.push(Token{Kind: KindNumber, Number: strconv.Itoa(x)})
	case int64:
		t.push(Token{Kind: KindNumber, Number: strconv.FormatInt(x, 10)})
	case uint64:
		t.push(Token{Kind: KindNumber, Number: strconv.FormatUint(x, 10)})
	case float64:
		t.push(Token{Kind: KindNumber, Number: strconv.FormatFloat(x, 'g', -1, 64)})
	default:
		return fmt.Errorf("engine: unsupported value %T", v)
	}
	return nil
}

func (t *treeSource) NextToken() (Token, error) {
	if t.pos >= len(t.queue) {
		return Token{}, io.EOF
	}
	tok := t.queue[t.pos]
	t.pos++
	return tok, nil
}

// Location is always -1; trees have no byte offsets.
func (t *treeSource) Location() int64 { return -1 }
