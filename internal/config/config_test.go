package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %q, want dev", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SeasonNumber != 50 {
		t.Fatalf("SeasonNumber = %d, want 50", cfg.SeasonNumber)
	}
	if cfg.SeasonName != "Season 50" {
		t.Fatalf("SeasonName = %q", cfg.SeasonName)
	}
	if cfg.RosterSize != 5 || cfg.NetChangeCap != 1 {
		t.Fatalf("roster rules = %d/%d, want 5/1", cfg.RosterSize, cfg.NetChangeCap)
	}
	if !cfg.AddDropRestrictionEnabled {
		t.Fatal("AddDropRestrictionEnabled must default to true")
	}
	if cfg.EliminationScope != EliminationScopeGlobal {
		t.Fatalf("EliminationScope = %q, want global", cfg.EliminationScope)
	}
	if cfg.RosterLockWeekday != time.Wednesday || cfg.RosterLockHour != 20 {
		t.Fatalf("lock = %s %d, want Wednesday 20", cfg.RosterLockWeekday, cfg.RosterLockHour)
	}

	wantPremiere := time.Date(2026, time.February, 25, 0, 0, 0, 0, cfg.SeasonTimezone)
	if !cfg.SeasonPremiereDate.Equal(wantPremiere) {
		t.Fatalf("SeasonPremiereDate = %v, want %v", cfg.SeasonPremiereDate, wantPremiere)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SEASON_NUMBER", "51")
	t.Setenv("SEASON_PREMIERE_DATE", "2026-09-23")
	t.Setenv("ROSTER_LOCK_WEEKDAY", "thursday")
	t.Setenv("ROSTER_SIZE", "6")
	t.Setenv("NET_CHANGE_CAP", "2")
	t.Setenv("ADD_DROP_RESTRICTION_ENABLED", "false")
	t.Setenv("ELIMINATION_SCOPE", "league")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvProd {
		t.Fatalf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.SeasonNumber != 51 || cfg.SeasonName != "Season 51" {
		t.Fatalf("season = %d %q", cfg.SeasonNumber, cfg.SeasonName)
	}
	if cfg.RosterLockWeekday != time.Thursday {
		t.Fatalf("RosterLockWeekday = %s", cfg.RosterLockWeekday)
	}
	if cfg.RosterSize != 6 || cfg.NetChangeCap != 2 {
		t.Fatalf("roster rules = %d/%d", cfg.RosterSize, cfg.NetChangeCap)
	}
	if cfg.AddDropRestrictionEnabled {
		t.Fatal("AddDropRestrictionEnabled must honor override")
	}
	if cfg.EliminationScope != EliminationScopeLeague {
		t.Fatalf("EliminationScope = %q", cfg.EliminationScope)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bad app env", "APP_ENV", "qa", "invalid APP_ENV"},
		{"bad weekday", "ROSTER_LOCK_WEEKDAY", "someday", "ROSTER_LOCK_WEEKDAY"},
		{"lock hour out of range", "ROSTER_LOCK_HOUR", "24", "ROSTER_LOCK_HOUR"},
		{"zero roster size", "ROSTER_SIZE", "0", "ROSTER_SIZE"},
		{"negative net cap", "NET_CHANGE_CAP", "-1", "NET_CHANGE_CAP"},
		{"bad scope", "ELIMINATION_SCOPE", "tribe", "ELIMINATION_SCOPE"},
		{"bad premiere date", "SEASON_PREMIERE_DATE", "Feb 25", "SEASON_PREMIERE_DATE"},
		{"bad cache ttl", "CACHE_TTL", "soon", "CACHE_TTL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Load accepted %s=%q", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadRequiresWebhookEndpointWhenEnabled(t *testing.T) {
	t.Setenv("WEBHOOK_ENABLED", "true")
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted WEBHOOK_ENABLED=true without endpoint")
	}

	t.Setenv("WEBHOOK_ENDPOINT", "https://hooks.example.com/scores")
	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
