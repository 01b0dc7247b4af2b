package cli

import (
	"log/slog"
	"testing"
)

func TestEpisodeArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantRepoID  string
		wantEpisode int
		wantErr     bool
	}{
		{"valid", []string{"acme/pick_place", "3"}, "acme/pick_place", 3, false},
		{"zero episode", []string{"acme/pick_place", "0"}, "acme/pick_place", 0, false},
		{"negative episode", []string{"acme/pick_place", "-1"}, "", 0, true},
		{"non-numeric episode", []string{"acme/pick_place", "three"}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoID, episode, err := episodeArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("episodeArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if repoID != tt.wantRepoID || episode != tt.wantEpisode {
				t.Errorf("episodeArgs(%v) = (%q, %d), want (%q, %d)",
					tt.args, repoID, episode, tt.wantRepoID, tt.wantEpisode)
			}
		})
	}
}

func TestEffectiveLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		configured slog.Level
		verbose    bool
		want       slog.Level
	}{
		{"default stays info", slog.LevelInfo, false, slog.LevelInfo},
		{"verbose lifts to debug", slog.LevelInfo, true, slog.LevelDebug},
		{"verbose lifts warn", slog.LevelWarn, true, slog.LevelDebug},
		{"explicit debug unchanged", slog.LevelDebug, false, slog.LevelDebug},
		{"verbose keeps lower custom level", slog.LevelDebug - 4, true, slog.LevelDebug - 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveLogLevel(tt.configured, tt.verbose); got != tt.want {
				t.Errorf("effectiveLogLevel(%v, %v) = %v, want %v",
					tt.configured, tt.verbose, got, tt.want)
			}
		})
	}
}
