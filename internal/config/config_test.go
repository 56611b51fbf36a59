package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":8080")
	}
	if cfg.JWTIssuer != "authcore" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "authcore")
	}
	if cfg.JWTAudience != "lms-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "lms-api")
	}
	if cfg.JWTAccessTTL != "1h" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "1h")
	}
	if cfg.JWTRefreshTTL != "168h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.ResetTokenTTL != "1h" {
		t.Errorf("ResetTokenTTL = %q, want %q", cfg.ResetTokenTTL, "1h")
	}
	if cfg.SessionSweepInterval != "10m" {
		t.Errorf("SessionSweepInterval = %q, want %q", cfg.SessionSweepInterval, "10m")
	}
	if cfg.DevTokenPrefix != "" {
		t.Errorf("DevTokenPrefix = %q, want empty", cfg.DevTokenPrefix)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":9090" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
}

func TestLoad_BCRYPT_COSTRange(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  int
		err   bool
	}{
		{"valid min", "4", 4, false},
		{"valid max", "31", 31, false},
		{"valid middle", "12", 12, false},
		{"too low", "3", 0, true},
		{"too high", "32", 0, true},
		{"zero", "0", 12, false}, // falls back to the default
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("GRPC_ADDR", ":8080")
			os.Setenv("BCRYPT_COST", tc.value)

			cfg, err := Load()
			if tc.err {
				if err == nil {
					t.Fatal("Load should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.BcryptCost != tc.want {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tc.want)
			}
		})
	}
}

func TestLoad_DevTokensRefusedInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")
	os.Setenv("DEV_TOKEN_PREFIX", "dev:")
	os.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load should return error when DEV_TOKEN_PREFIX is set and APP_ENV=production")
	}
	if cfg != nil {
		t.Error("Load should return nil config on error")
	}
}

func TestLoad_DevTokensAllowedInDevelopment(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")
	os.Setenv("DEV_TOKEN_PREFIX", "dev:")
	os.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DevTokenPrefix != "dev:" {
		t.Errorf("DevTokenPrefix = %q, want %q", cfg.DevTokenPrefix, "dev:")
	}
}

func TestDurationAccessors(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")
	os.Setenv("JWT_ACCESS_TTL", "30m")
	os.Setenv("JWT_REFRESH_TTL", "336h")
	os.Setenv("RESET_TOKEN_TTL", "2h")
	os.Setenv("SESSION_SWEEP_INTERVAL", "5m")
	os.Setenv("AUTH_VALIDATE_TIMEOUT", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.AccessTTL(); got != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", got)
	}
	if got := cfg.RefreshTTL(); got != 336*time.Hour {
		t.Errorf("RefreshTTL = %v, want 336h", got)
	}
	if got := cfg.ResetTTL(); got != 2*time.Hour {
		t.Errorf("ResetTTL = %v, want 2h", got)
	}
	if got := cfg.SweepInterval(); got != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want 5m", got)
	}
	if got := cfg.ValidateTimeout(); got != time.Second {
		t.Errorf("ValidateTimeout = %v, want 1s", got)
	}
}

func TestDurationAccessors_Fallbacks(t *testing.T) {
	cases := []struct {
		name  string
		env   string
		value string
	}{
		{"invalid", "JWT_ACCESS_TTL", "invalid"},
		{"zero", "JWT_ACCESS_TTL", "0"},
		{"negative", "JWT_ACCESS_TTL", "-5m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("GRPC_ADDR", ":8080")
			os.Setenv(tc.env, tc.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got := cfg.AccessTTL(); got != time.Hour {
				t.Errorf("AccessTTL = %v, want 1h fallback", got)
			}
		})
	}

	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")
	os.Setenv("RESET_TOKEN_TTL", "bogus")
	os.Setenv("SESSION_SWEEP_INTERVAL", "bogus")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.ResetTTL(); got != time.Hour {
		t.Errorf("ResetTTL = %v, want 1h fallback", got)
	}
	if got := cfg.SweepInterval(); got != 10*time.Minute {
		t.Errorf("SweepInterval = %v, want 10m fallback", got)
	}
}
