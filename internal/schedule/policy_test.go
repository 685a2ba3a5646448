package schedule

import (
	"errors"
	"testing"
)

func TestParseSelection(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in      string
		want    Selection
		wantErr bool
	}{
		{in: "longest", want: SelectLongestFirst},
		{in: "longest-first", want: SelectLongestFirst},
		{in: "critical", want: SelectCriticalPathFirst},
		{in: "critical-path", want: SelectCriticalPathFirst},
		{in: "min-slack", want: SelectCriticalPathFirst},
		{in: "shortest", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseSelection(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownPolicy) {
				t.Errorf("ParseSelection(%q) error = %v, want ErrUnknownPolicy", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseSelection(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestParsePlacement(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in      string
		want    Placement
		wantErr bool
	}{
		{in: "earliest", want: PlaceEarliestFinish},
		{in: "eft", want: PlaceEarliestFinish},
		{in: "latest", want: PlaceLatestFinish},
		{in: "latest-finish", want: PlaceLatestFinish},
		{in: "random", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParsePlacement(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownPolicy) {
				t.Errorf("ParsePlacement(%q) error = %v, want ErrUnknownPolicy", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParsePlacement(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestPolicyStringRoundTrip(t *testing.T) {
	t.Parallel()
	for _, sel := range []Selection{SelectLongestFirst, SelectCriticalPathFirst} {
		parsed, err := ParseSelection(sel.String())
		if err != nil || parsed != sel {
			t.Errorf("ParseSelection(%q) = %v, %v; want %v", sel.String(), parsed, err, sel)
		}
	}
	for _, pl := range []Placement{PlaceEarliestFinish, PlaceLatestFinish} {
		parsed, err := ParsePlacement(pl.String())
		if err != nil || parsed != pl {
			t.Errorf("ParsePlacement(%q) = %v, %v; want %v", pl.String(), parsed, err, pl)
		}
	}

	p := Policy{Selection: SelectCriticalPathFirst, Placement: PlaceLatestFinish}
	if got := p.String(); got != "critical/latest" {
		t.Errorf("Policy.String() = %q, want %q", got, "critical/latest")
	}
}
