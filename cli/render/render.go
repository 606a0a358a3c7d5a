// Package render writes command results to stdout.
//
// Format selection:
//   - --format always wins
//   - otherwise a TTY gets table and anything else gets json
//   - unknown formats are errors
//
// --no-color only affects table output. The plan viewer (--tui) has its
// own styling.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/tui"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/plan"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string. Empty input returns "" so the caller
// can pick a default.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
	styles  tableStyles
}

type tableStyles struct {
	header lipgloss.Style
	upload lipgloss.Style
	delete lipgloss.Style
}

// NewRenderer creates a renderer from the --format and --no-color flags,
// writing to the app's writer (stdout unless replaced).
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}
	var out io.Writer = os.Stdout
	if c.App != nil && c.App.Writer != nil {
		out = c.App.Writer
	}
	if format == "" {
		if f, ok := out.(*os.File); ok && isTTY(f) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}
	return NewRendererWithWriter(format, c.Bool("no-color"), out), nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(out)
	styles := tableStyles{
		header: lr.NewStyle(),
		upload: lr.NewStyle(),
		delete: lr.NewStyle(),
	}
	if !noColor {
		styles.header = styles.header.Bold(true)
		styles.upload = styles.upload.Foreground(lipgloss.Color("42"))
		styles.delete = styles.delete.Foreground(lipgloss.Color("196"))
	}
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
		styles:  styles,
	}
}

// Format returns the selected output format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render outputs data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(data)
	case FormatTable:
		return r.renderTable(data)
	case FormatYAML:
		return r.renderYAML(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// PlanRow is one planned action in table form.
type PlanRow struct {
	Action       string `json:"action"`
	Key          string `json:"key"`
	ContentType  string `json:"content_type"`
	CacheControl string `json:"cache_control"`
	Size         int64  `json:"size"`
}

// PlanRows flattens a plan into upload rows followed by delete rows.
func PlanRows(p *types.SyncPlan) []PlanRow {
	if p == nil {
		return nil
	}
	rows := make([]PlanRow, 0, len(p.ToUpload)+len(p.ToDelete))
	for _, f := range p.ToUpload {
		rows = append(rows, PlanRow{
			Action:       "upload",
			Key:          f.Key,
			ContentType:  f.ContentType,
			CacheControl: f.CacheControl,
			Size:         f.Size,
		})
	}
	for _, k := range p.ToDelete {
		rows = append(rows, PlanRow{Action: "delete", Key: k, Size: -1})
	}
	return rows
}

// RenderPlan outputs a sync plan. Table output lists every action and a
// summary line; json and yaml output the plan document.
func (r *Renderer) RenderPlan(p *types.SyncPlan) error {
	if r.format != FormatTable {
		return r.Render(p)
	}

	rows := PlanRows(p)
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, r.styles.header.Render("ACTION")+"\tKEY\tCONTENT-TYPE\tCACHE-CONTROL\tSIZE")
	for _, row := range rows {
		action := r.styles.upload.Render(row.Action)
		size := fmt.Sprintf("%d", row.Size)
		if row.Action == "delete" {
			action = r.styles.delete.Render(row.Action)
			size = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", action, row.Key, dash(row.ContentType), dash(row.CacheControl), size)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sum := plan.Summarize(p)
	bucket := ""
	if p != nil {
		bucket = p.Bucket
	}
	_, err := fmt.Fprintf(r.out, "\n%d to upload (%d bytes), %d to delete in s3://%s\n",
		sum.Uploads, sum.UploadBytes, sum.Deletes, bucket)
	return err
}

// RenderTUI opens the interactive viewer for viewType.
func (r *Renderer) RenderTUI(viewType string, data any) error {
	if !tui.IsTUISupported(viewType) {
		return fmt.Errorf("--tui is not supported for %s", viewType)
	}
	return tui.Run(viewType, data)
}

func (r *Renderer) renderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Renderer) renderYAML(data any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) renderTable(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Slice {
		return r.renderSliceTable(v)
	}
	return r.renderStructTable(v)
}

func (r *Renderer) renderSliceTable(v reflect.Value) error {
	if v.Len() == 0 {
		fmt.Fprintln(r.out, "(no results)")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	headers := fieldNames(indirect(v.Index(0)))
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for i := 0; i < v.Len(); i++ {
		fmt.Fprintln(w, strings.Join(rowValues(indirect(v.Index(i))), "\t"))
	}
	return w.Flush()
}

// renderStructTable prints one "name: value" line per field. Nested structs
// are flattened with dotted names.
func (r *Renderer) renderStructTable(v reflect.Value) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	v = indirect(v)

	switch v.Kind() {
	case reflect.Struct:
		writeStructFields(w, "", v)
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			fmt.Fprintf(w, "%v:\t%s\n", iter.Key().Interface(), formatValue(iter.Value()))
		}
	case reflect.Invalid:
		fmt.Fprintln(w, "(no results)")
	default:
		fmt.Fprintf(w, "%v\n", v.Interface())
	}
	return w.Flush()
}

func writeStructFields(w io.Writer, prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		fv := indirect(v.Field(i))
		if fv.Kind() == reflect.Struct && fv.Type() != timeType {
			writeStructFields(w, prefix+name+".", fv)
			continue
		}
		fmt.Fprintf(w, "%s%s:\t%s\n", prefix, name, formatValue(fv))
	}
}

func fieldNames(v reflect.Value) []string {
	if v.Kind() != reflect.Struct {
		return []string{"value"}
	}
	var names []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if name, ok := fieldName(t.Field(i)); ok {
			names = append(names, name)
		}
	}
	return names
}

func rowValues(v reflect.Value) []string {
	if v.Kind() != reflect.Struct {
		return []string{formatValue(v)}
	}
	var values []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if _, ok := fieldName(t.Field(i)); ok {
			values = append(values, formatValue(v.Field(i)))
		}
	}
	return values
}

// fieldName prefers the json tag name and skips unexported or "-" fields.
func fieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	if tag := f.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return strings.ToLower(f.Name), true
}

var timeType = reflect.TypeOf(time.Time{})

func formatValue(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).Format(time.RFC3339)
		}
		return "{...}"
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
