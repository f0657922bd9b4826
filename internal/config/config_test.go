package config

import "testing"

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SNSEV_SERVICE_FILE", "SNSEV_STAGE", "SNSEV_REGION",
		"SNSEV_ENDPOINT", "SNSEV_NATS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)

	cfg := Load()
	if cfg.ServiceFile != "serverless.yml" {
		t.Errorf("ServiceFile = %q, want %q", cfg.ServiceFile, "serverless.yml")
	}
	if cfg.Stage != "" || cfg.Region != "" || cfg.Endpoint != "" || cfg.NATSURL != "" {
		t.Errorf("expected empty overrides, got %+v", cfg)
	}
}

func TestLoad_Custom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("SNSEV_SERVICE_FILE", "svc.yml")
	t.Setenv("SNSEV_STAGE", "prod")
	t.Setenv("SNSEV_REGION", "eu-west-1")
	t.Setenv("SNSEV_ENDPOINT", "http://localhost:4566")
	t.Setenv("SNSEV_NATS_URL", "nats://localhost:4222")

	cfg := Load()
	if cfg.ServiceFile != "svc.yml" {
		t.Errorf("ServiceFile = %q", cfg.ServiceFile)
	}
	if cfg.Stage != "prod" {
		t.Errorf("Stage = %q", cfg.Stage)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q", cfg.Region)
	}
	if cfg.Endpoint != "http://localhost:4566" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
}

func TestApply_SetFieldsWin(t *testing.T) {
	cfg := &Config{Region: "us-east-1"}
	cfg.Apply(Profile{
		Region:  "eu-west-1",
		Stage:   "prod",
		NATSURL: "nats://localhost:4222",
	})

	if cfg.Region != "us-east-1" {
		t.Errorf("Region = %q, want env value to win", cfg.Region)
	}
	if cfg.Stage != "prod" {
		t.Errorf("Stage = %q, want profile value", cfg.Stage)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q, want profile value", cfg.NATSURL)
	}
}

func TestProfiles_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadProfiles()
	if err != nil {
		t.Fatalf("LoadProfiles() error: %v", err)
	}
	if len(cfg.Profiles) != 0 {
		t.Fatalf("expected empty profiles, got %v", cfg.Profiles)
	}

	cfg.Profiles["staging"] = Profile{Region: "eu-west-1", Stage: "staging"}
	cfg.Active = "staging"
	if err := SaveProfiles(cfg); err != nil {
		t.Fatalf("SaveProfiles() error: %v", err)
	}

	again, err := LoadProfiles()
	if err != nil {
		t.Fatalf("LoadProfiles() after save: %v", err)
	}
	if again.Active != "staging" {
		t.Errorf("Active = %q, want %q", again.Active, "staging")
	}
	p, ok := again.Profiles["staging"]
	if !ok {
		t.Fatal("profile staging missing after round-trip")
	}
	if p.Region != "eu-west-1" || p.Stage != "staging" {
		t.Errorf("profile = %+v", p)
	}
}

func TestApplyNamed_Unknown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{}
	if err := cfg.ApplyNamed("nope"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestApplyNamed_NoProfilesNoName(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{}
	if err := cfg.ApplyNamed(""); err != nil {
		t.Fatalf("ApplyNamed(\"\") error: %v", err)
	}
}
