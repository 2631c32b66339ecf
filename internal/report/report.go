// Package report renders forecast results for humans and machines.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/goholtwinters/holtwinters"
	"github.com/sartorproj/goholtwinters/internal/store"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// Value is a rounded number. Non-finite values are kept as they are and
// encoded as null in JSON.
type Value float64

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// MarshalYAML implements yaml.Marshaler; yaml has native .nan and .inf.
func (v Value) MarshalYAML() (interface{}, error) {
	return float64(v), nil
}

// Meta describes the run a report belongs to.
type Meta struct {
	ID           string
	Name         string
	CreatedAt    time.Time
	SeasonLength int
	Coefficients holtwinters.Coefficients
	Policy       string
	NObs         int
}

// Report is the rendered view of a forecast run.
type Report struct {
	ID              string                   `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string                   `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt       time.Time                `json:"created_at" yaml:"created_at"`
	SeasonLength    int                      `json:"season_length" yaml:"season_length"`
	ForecastPeriods int                      `json:"forecast_periods" yaml:"forecast_periods"`
	NObs            int                      `json:"n_obs" yaml:"n_obs"`
	Coefficients    holtwinters.Coefficients `json:"coefficients" yaml:"coefficients"`
	Policy          string                   `json:"numeric_policy,omitempty" yaml:"numeric_policy,omitempty"`
	Precision       int                      `json:"precision" yaml:"precision"`
	Levels          []Value                  `json:"levels" yaml:"levels"`
	Trends          []Value                  `json:"trends" yaml:"trends"`
	Seasonalities   []Value                  `json:"seasonalities" yaml:"seasonalities"`
	Forecasts       []Value                  `json:"forecasts" yaml:"forecasts"`
}

// New builds a report from a result, rounding every value half away from
// zero to precision decimal places.
func New(result *holtwinters.Result, meta Meta, precision int) *Report {
	return &Report{
		ID:              meta.ID,
		Name:            meta.Name,
		CreatedAt:       meta.CreatedAt,
		SeasonLength:    meta.SeasonLength,
		ForecastPeriods: len(result.Forecasts),
		NObs:            meta.NObs,
		Coefficients:    meta.Coefficients,
		Policy:          meta.Policy,
		Precision:       precision,
		Levels:          round(result.Levels, precision),
		Trends:          round(result.Trends, precision),
		Seasonalities:   round(result.Seasonal, precision),
		Forecasts:       round(result.Forecasts, precision),
	}
}

// FromRun builds a report from a stored run.
func FromRun(run *store.Run, precision int) *Report {
	return New(&run.Result, Meta{
		ID:           run.ID,
		Name:         run.Name,
		CreatedAt:    run.CreatedAt,
		SeasonLength: run.SeasonLength,
		Coefficients: run.Coefficients,
		Policy:       run.Policy,
		NObs:         run.NObs,
	}, precision)
}

// Round rounds v to places decimal places. Non-finite values are returned
// unchanged.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}

func round(values []float64, places int) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Value(Round(v, places))
	}
	return out
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText, "":
		return renderText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return renderCSV(w, r)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func renderText(w io.Writer, r *Report) error {
	lines := []struct {
		label  string
		values []Value
	}{
		{"Levels", r.Levels},
		{"Trends", r.Trends},
		{"Seasonalities", r.Seasonalities},
		{"Forecasts", r.Forecasts},
	}

	var b strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&b, "Series: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Observations: %d, season length: %d, alpha1=%s alpha2=%s alpha3=%s\n",
		r.NObs, r.SeasonLength,
		formatCoefficient(r.Coefficients.Level),
		formatCoefficient(r.Coefficients.Trend),
		formatCoefficient(r.Coefficients.Seasonal))
	for _, l := range lines {
		fmt.Fprintf(&b, "%s: %s\n", l.label, joinFixed(l.values, r.Precision))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"component", "index", "value"}); err != nil {
		return err
	}

	components := []struct {
		name   string
		values []Value
	}{
		{"level", r.Levels},
		{"trend", r.Trends},
		{"seasonal", r.Seasonalities},
		{"forecast", r.Forecasts},
	}
	for _, c := range components {
		for i, v := range c.values {
			if err := cw.Write([]string{c.name, strconv.Itoa(i), fixed(float64(v), r.Precision)}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinFixed(values []Value, places int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fixed(float64(v), places)
	}
	return strings.Join(parts, ", ")
}

func fixed(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

func formatCoefficient(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}
