package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		PreviewsDir:      "/tmp/previews",
		Pretty:           true,
		AnalyzeMaxRows:   500,
		OutlierThreshold: 4.0,
		Correlations:     true,
		Regressions:      false,
	}
	if err := Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.PreviewsDir != in.PreviewsDir {
		t.Fatalf("previews_dir = %q", out.PreviewsDir)
	}
	if !out.Pretty {
		t.Fatal("pretty not preserved")
	}
	if out.AnalyzeMaxRows != 500 {
		t.Fatalf("analyze_max_rows = %d", out.AnalyzeMaxRows)
	}
	if out.OutlierThreshold != 4.0 {
		t.Fatalf("outlier_threshold = %g", out.OutlierThreshold)
	}
	if out.Regressions {
		t.Fatal("regressions should be false")
	}
}

func TestLoadDefaults(t *testing.T) {
	// Point the home dir somewhere empty so no real config interferes.
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PreviewsDir != "previews" {
		t.Fatalf("previews_dir = %q, want previews", c.PreviewsDir)
	}
	if c.AnalyzeMaxRows != 100000 {
		t.Fatalf("analyze_max_rows = %d", c.AnalyzeMaxRows)
	}
	if c.OutlierThreshold != 3.5 {
		t.Fatalf("outlier_threshold = %g", c.OutlierThreshold)
	}
	if !c.Correlations || !c.Regressions {
		t.Fatal("correlations and regressions default to true")
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FITSLOOM_PREVIEWS_DIR", "/srv/previews")
	defer os.Unsetenv("FITSLOOM_PREVIEWS_DIR")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PreviewsDir != "/srv/previews" {
		t.Fatalf("previews_dir = %q, want env override", c.PreviewsDir)
	}
}
