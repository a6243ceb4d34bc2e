package cmd

import (
	"fmt"
	"io"
	"sort"

	gojson "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"

	sp "github.com/reoring/smartparams"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func checkOutput(format string) error {
	switch format {
	case outputJSON, outputTable:
		return nil
	}
	return fmt.Errorf("unsupported output format %q, want %s or %s", format, outputJSON, outputTable)
}

func writeJSON(w io.Writer, v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func renderFailures(w io.Writer, format string, fs sp.Failures) error {
	if format == outputJSON {
		return writeJSON(w, map[string]any{"failures": fs.AsJSON()})
	}
	table := newTable(w, "POINTER", "CODE", "MESSAGE")
	for _, f := range fs {
		table.Append([]string{f.Pointer(), f.Code(), f.Error()})
	}
	table.Render()
	return nil
}

func renderPayload(w io.Writer, format string, p *sp.Payload) error {
	if format == outputJSON {
		return writeJSON(w, p.Map())
	}
	table := newTable(w, "POINTER", "VALUE")
	flatten(sp.Path{}, p.Map(), func(ptr string, v any) {
		b, err := gojson.Marshal(v)
		if err != nil {
			b = []byte(fmt.Sprint(v))
		}
		table.Append([]string{ptr, string(b)})
	})
	table.Render()
	return nil
}

// flatten visits every non-object value with its JSON Pointer, keys sorted.
// Empty objects are visited as values.
func flatten(p sp.Path, v any, fn func(string, any)) {
	m, ok := v.(map[string]any)
	if !ok || (len(m) == 0 && len(p) > 0) {
		fn(p.Pointer(), v)
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flatten(p.Child(k), m[k], fn)
	}
}
