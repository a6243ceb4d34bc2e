package smartparams

import (
	"fmt"
	"io"
	"reflect"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/smartparams/internal/engine"
	"github.com/reoring/smartparams/internal/jsonsrc"
)

// Source is an input document that decodes into a raw tree. Sources are
// created with JSONBytes, JSONReader, YAMLBytes, YAMLReader or Value.
type Source interface {
	open() (ts eng.TokenSource, size int64, err error)
}

type sourceFunc func() (eng.TokenSource, int64, error)

func (f sourceFunc) open() (eng.TokenSource, int64, error) { return f() }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source {
	return sourceFunc(func() (eng.TokenSource, int64, error) {
		return jsonsrc.NewBytes(b), int64(len(b)), nil
	})
}

// JSONReader wraps an io.Reader as a streaming JSON Source. MaxBytes is
// enforced against the decoder offset.
func JSONReader(r io.Reader) Source {
	return sourceFunc(func() (eng.TokenSource, int64, error) {
		return jsonsrc.NewReader(r), -1, nil
	})
}

// YAMLBytes wraps a YAML document. Objects with non-string keys keep only
// their string keys.
func YAMLBytes(b []byte) Source {
	return sourceFunc(func() (eng.TokenSource, int64, error) {
		var v any
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, int64(len(b)), errors.Wrap(err, "yaml")
		}
		ts, err := eng.NewTreeSource(normalizeValue(v))
		return ts, int64(len(b)), err
	})
}

// YAMLReader reads one YAML document from r.
func YAMLReader(r io.Reader) Source {
	return sourceFunc(func() (eng.TokenSource, int64, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, -1, errors.Wrap(err, "read yaml")
		}
		return YAMLBytes(b).open()
	})
}

// Value wraps an in-memory value. Maps, slices and scalars are used as is;
// other values (structs, typed maps) are converted through JSON.
func Value(v any) Source {
	return sourceFunc(func() (eng.TokenSource, int64, error) {
		if ts, err := eng.NewTreeSource(normalizeValue(v)); err == nil {
			return ts, -1, nil
		}
		b, err := gojson.Marshal(v)
		if err != nil {
			return nil, -1, errors.Wrap(err, "marshal value")
		}
		return jsonsrc.NewBytes(b), -1, nil
	})
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func decodeSource(src Source, opt ValidateOpt) (any, error) {
	if src == nil {
		return nil, errors.New("smartparams: nil source")
	}
	ts, size, err := src.open()
	if err != nil {
		return nil, errors.Wrap(&DecodeError{Code: CodeParseError, Pointer: "/", Message: err.Error(), Offset: -1}, "decode input")
	}
	if opt.MaxBytes > 0 && size > opt.MaxBytes {
		return nil, errors.Wrap(&DecodeError{Code: CodeTruncated, Pointer: "/", Message: "max bytes exceeded", Offset: opt.MaxBytes}, "decode input")
	}

	enforced := eng.WrapWithEnforcement(ts, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			if si.Code == eng.CodeDuplicateKey && opt.Strictness.OnDuplicateKey == Warn {
				opt.Logger.WithFields(logrus.Fields{"path": si.Path, "code": si.Code}).Warn(si.Message)
			}
		},
	})
	conv := eng.JSONNumber
	if opt.NumberMode == NumberFloat64 {
		conv = eng.Float64
	}
	v, err := eng.Decode(enforced, conv)
	if err == nil {
		if _, terr := enforced.NextToken(); terr != io.EOF {
			err = fmt.Errorf("unexpected data after the top-level value")
		}
	}
	if err != nil {
		return nil, errors.Wrap(toDecodeError(err, enforced.Location()), "decode input")
	}
	return v, nil
}

func toDecodeError(err error, offset int64) *DecodeError {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &DecodeError{Code: ie.Code, Pointer: ie.Path, Message: ie.Message, Offset: offset}
	}
	msg := err.Error()
	if err == io.EOF {
		msg = "empty input"
	}
	return &DecodeError{Code: CodeParseError, Pointer: "/", Message: msg, Offset: offset}
}

// normalizeValue turns map[any]any (as produced by some YAML decoders) into
// map[string]any, recursively. Other map, slice and array types, such as
// map[string]string or []map[string]int, are converted through JSON with
// numbers kept as json.Number.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeValue(t[i])
		}
		return arr
	default:
		return normalizeTyped(v)
	}
}

func normalizeTyped(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
	default:
		return v
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := unmarshalExact(b, &out); err != nil {
		return v
	}
	return out
}
