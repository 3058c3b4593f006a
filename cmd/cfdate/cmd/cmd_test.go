package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/blockberries/cfdate/observability"
	"github.com/blockberries/cfdate/observability/prom"
	"github.com/blockberries/cfdate/types"
)

func TestBuildArray(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		shape string
		mask  string
		want  types.Array
	}{
		{"scalar", []string{"1.5"}, "", "", types.Scalar(1.5)},
		{"vector", []string{"1", "2"}, "", "", types.Vector(1, 2)},
		{"one_element_vector", []string{"7"}, "1", "", types.Vector(7)},
		{"matrix", []string{"1", "2", "3", "4", "5", "6"}, "2,3", "", types.Array{
			Shape: []int{2, 3},
			Data: []types.Offset{
				types.Present(1), types.Present(2), types.Present(3),
				types.Present(4), types.Present(5), types.Present(6),
			},
		}},
		{"masked", []string{"10", "20", "30"}, "", "0, 2", types.Array{
			Shape: []int{3},
			Data:  []types.Offset{types.Missing, types.Present(20), types.Missing},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildArray(tt.args, tt.shape, tt.mask)
			if err != nil {
				t.Fatalf("buildArray: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildArray = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildArray_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		shape string
		mask  string
	}{
		{"not_a_number", []string{"x"}, "", ""},
		{"shape_mismatch", []string{"1", "2", "3"}, "2,2", ""},
		{"bad_shape", []string{"1"}, "a", ""},
		{"mask_out_of_range", []string{"1", "2"}, "", "2"},
		{"negative_mask", []string{"1", "2"}, "", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildArray(tt.args, tt.shape, tt.mask); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFormatResult(t *testing.T) {
	d := types.NewDate(types.NoLeap, 1970, 1, 1, 0, 0, 0)
	res := types.Result{
		Shape: []int{2, 2},
		Data:  []types.NullDate{types.SomeDate(d), {}, {}, types.SomeDate(d)},
	}
	want := []string{
		"[0 0]\t1970-01-01 00:00:00 (noleap)",
		"[0 1]\t--",
		"[1 0]\t--",
		"[1 1]\t1970-01-01 00:00:00 (noleap)",
	}
	if got := formatResult(res, false); !reflect.DeepEqual(got, want) {
		t.Errorf("formatResult = %q, want %q", got, want)
	}

	scalar := types.Result{Data: []types.NullDate{types.SomeDate(d)}}
	if got := formatResult(scalar, false); len(got) != 1 || got[0] != "1970-01-01 00:00:00 (noleap)" {
		t.Errorf("unexpected scalar output %q", got)
	}
}

// run executes the root command with a fresh config file and returns
// its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfdate.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	convertShape, convertMask, remoteAddr = "", "", ""
	convertRFC3339 = false
	for _, name := range []string{"calendar", "resolution", "epoch"} {
		_ = convertCmd.Flags().Set(name, "")
		_ = offsetCmd.Flags().Set(name, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"standard_days", []string{"convert", "300", "--resolution", "days"}, "1970-10-28 00:00:00 (standard)\n"},
		{"360_day", []string{"convert", "300", "--resolution", "days", "--calendar", "360_day"}, "1970-11-01 00:00:00 (360_day)\n"},
		{"rounds_half_up", []string{"convert", "0.5", "--epoch", "2000-01-01"}, "2000-01-01 00:00:01 (standard)\n"},
		{"masked", []string{"convert", "0", "60", "--mask", "0", "--resolution", "minutes"},
			"[0]\t--\n[1]\t1970-01-01 01:00:00 (standard)\n"},
		{"rfc3339", []string{"convert", "1e9", "--rfc3339"}, "2001-09-09T01:46:40Z\n"},
		{"rfc3339_keeps_360_day", []string{"convert", "30", "--rfc3339", "--resolution", "days", "--calendar", "360_day"},
			"1970-02-01 00:00:00 (360_day)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertCommand_UnknownCalendar(t *testing.T) {
	_, err := run(t, "convert", "1", "--calendar", "martian")
	if err == nil || !strings.Contains(err.Error(), "unknown calendar") {
		t.Errorf("expected unknown calendar error, got %v", err)
	}
}

func TestOffsetCommand(t *testing.T) {
	got, err := run(t, "offset", "1970-11-01", "--calendar", "360_day", "--resolution", "days")
	if err != nil {
		t.Fatalf("offset: %v", err)
	}
	if got != "300\n" {
		t.Errorf("output = %q, want %q", got, "300\n")
	}
}

func TestCalendarsCommand(t *testing.T) {
	got, err := run(t, "calendars")
	if err != nil {
		t.Fatalf("calendars: %v", err)
	}
	for _, k := range types.AllCalendars {
		if !strings.Contains(got, k.String()+"\n") {
			t.Errorf("calendar %s missing from %q", k, got)
		}
	}
}

func TestNewObserver(t *testing.T) {
	tests := []struct {
		name        string
		metricsAddr string
		wantMetrics bool
	}{
		{"metrics_disabled", "", false},
		{"metrics_enabled", "127.0.0.1:0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prom.NewRegistry()
			obs := newObserver(tt.metricsAddr, reg)
			obs.Call(observability.OpConvert, observability.ResultOK, "ok", time.Millisecond)
			obs.Elements("standard", 3, 1)

			families, err := reg.Gather()
			if err != nil {
				t.Fatalf("Gather: %v", err)
			}
			if got := len(families) > 0; got != tt.wantMetrics {
				t.Errorf("metrics gathered = %v, want %v (%d families)", got, tt.wantMetrics, len(families))
			}
		})
	}
}
