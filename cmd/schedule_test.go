package cmd

import (
	"errors"
	"testing"

	"github.com/papapumpkin/gantry/internal/config"
	"github.com/papapumpkin/gantry/internal/schedule"
)

func TestParsePolicy(t *testing.T) {
	cases := []struct {
		name      string
		cfg       config.Config
		want      schedule.Policy
		wantError bool
	}{
		{
			name: "defaults",
			cfg:  config.Config{Policy: "longest", Placement: "earliest"},
			want: schedule.Policy{Selection: schedule.SelectLongestFirst, Placement: schedule.PlaceEarliestFinish},
		},
		{
			name: "critical latest",
			cfg:  config.Config{Policy: "critical", Placement: "latest"},
			want: schedule.Policy{Selection: schedule.SelectCriticalPathFirst, Placement: schedule.PlaceLatestFinish},
		},
		{
			name:      "bad selection",
			cfg:       config.Config{Policy: "fastest", Placement: "earliest"},
			wantError: true,
		},
		{
			name:      "bad placement",
			cfg:       config.Config{Policy: "longest", Placement: "somewhere"},
			wantError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePolicy(tc.cfg)
			if tc.wantError {
				if !errors.Is(err, schedule.ErrUnknownPolicy) {
					t.Errorf("parsePolicy() error = %v, want ErrUnknownPolicy", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePolicy(): %v", err)
			}
			if got != tc.want {
				t.Errorf("parsePolicy() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProjectPath(t *testing.T) {
	if got := projectPath(nil); got != "gantry.toml" {
		t.Errorf("projectPath(nil) = %q, want default", got)
	}
	if got := projectPath([]string{"release.toml"}); got != "release.toml" {
		t.Errorf("projectPath(arg) = %q, want %q", got, "release.toml")
	}
}
