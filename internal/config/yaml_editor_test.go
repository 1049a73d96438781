package config

import (
	"os"
	"strings"
	"testing"
)

func TestSaveProfile(t *testing.T) {
	path := writeTestConfig(t, `# heritage timeline
generator:
  title: Heritage # site title
profiles:
  thought:
    categories: [philosophy]
`)
	ed := NewYAMLEditor(path)

	if err := ed.SaveProfile("devotional", ProfileDef{Title: "Devotional", Categories: []string{"music", "bhaktas"}}); err != nil {
		t.Fatalf("SaveProfile error: %v", err)
	}

	c, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	p, ok := c.Profiles["devotional"]
	if !ok {
		t.Fatal("profile devotional not saved")
	}
	if p.Title != "Devotional" || strings.Join(p.Categories, ",") != "bhaktas,music" {
		t.Errorf("saved profile = %+v", p)
	}
	order, _ := c.GetProfileOrder("")
	if strings.Join(order, ",") != "thought,devotional" {
		t.Errorf("order = %v, want [thought devotional]", order)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "# site title") {
		t.Error("comments were not preserved")
	}

	// Replace in place
	if err := ed.SaveProfile("thought", ProfileDef{Categories: []string{"literature"}}); err != nil {
		t.Fatalf("SaveProfile replace error: %v", err)
	}
	c, _ = Load(path, nil)
	if got := c.Profiles["thought"].Categories; len(got) != 1 || got[0] != "literature" {
		t.Errorf("replaced profile categories = %v", got)
	}
}

func TestSaveProfileValidation(t *testing.T) {
	path := writeTestConfig(t, "generator:\n  title: x\n")
	ed := NewYAMLEditor(path)
	if err := ed.SaveProfile("", ProfileDef{Categories: []string{"music"}}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := ed.SaveProfile("x", ProfileDef{}); err == nil {
		t.Error("expected error for no categories")
	}
	if err := ed.SaveProfile("x", ProfileDef{Categories: []string{"dance"}}); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestSaveProfileEmptyFile(t *testing.T) {
	path := writeTestConfig(t, "")
	if err := NewYAMLEditor(path).SaveProfile("all", ProfileDef{Categories: []string{"music"}}); err != nil {
		t.Fatalf("SaveProfile on empty file: %v", err)
	}
	c, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, ok := c.Profiles["all"]; !ok {
		t.Error("profile not written to empty file")
	}
}

func TestDeleteProfile(t *testing.T) {
	path := writeTestConfig(t, `
profiles:
  a:
    categories: [music]
  b:
    categories: [literature]
`)
	ed := NewYAMLEditor(path)
	if err := ed.DeleteProfile("a"); err != nil {
		t.Fatalf("DeleteProfile error: %v", err)
	}
	c, _ := Load(path, nil)
	if _, ok := c.Profiles["a"]; ok {
		t.Error("profile a still present")
	}
	if _, ok := c.Profiles["b"]; !ok {
		t.Error("profile b removed")
	}
	if err := ed.DeleteProfile("a"); err == nil {
		t.Error("expected error deleting missing profile")
	}
}

func TestPaletteEditing(t *testing.T) {
	path := writeTestConfig(t, "generator:\n  title: x\n")
	ed := NewYAMLEditor(path)

	if err := ed.SetPaletteColor("dark", "music", "#00ff00"); err != nil {
		t.Fatalf("SetPaletteColor error: %v", err)
	}
	if err := ed.SetPaletteColor("dark", "music", "#00aa00"); err != nil {
		t.Fatalf("SetPaletteColor update error: %v", err)
	}
	if err := ed.SetPaletteColor("dark", "dance", "#000000"); err == nil {
		t.Error("expected error for unknown category")
	}
	if err := ed.SetActivePalette("missing"); err == nil {
		t.Error("expected error for missing palette")
	}
	if err := ed.SetActivePalette("dark"); err != nil {
		t.Fatalf("SetActivePalette error: %v", err)
	}

	c, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.ActivePalette != "dark" {
		t.Errorf("active palette = %s, want dark", c.ActivePalette)
	}
	if c.Palettes["dark"]["music"] != "#00aa00" {
		t.Errorf("music color = %s, want #00aa00", c.Palettes["dark"]["music"])
	}
}

func TestPaletteEditingNullPalette(t *testing.T) {
	path := writeTestConfig(t, "# colors\npalettes:\n  dark:\n")
	ed := NewYAMLEditor(path)
	if err := ed.SetPaletteColor("dark", "bhaktas", "#abc"); err != nil {
		t.Fatalf("SetPaletteColor error: %v", err)
	}

	c, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Palettes["dark"]["bhaktas"] != "#abc" {
		t.Errorf("bhaktas color = %q, want #abc", c.Palettes["dark"]["bhaktas"])
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "# colors") {
		t.Errorf("comment lost:\n%s", data)
	}
}

func TestPaletteColorValidation(t *testing.T) {
	ed := NewYAMLEditor(writeTestConfig(t, "generator:\n  title: x\n"))
	for _, hex := range []string{"", "red", "#12345", "#gggggg", "00ff00"} {
		if err := ed.SetPaletteColor("dark", "music", hex); err == nil {
			t.Errorf("SetPaletteColor(%q) should fail", hex)
		}
	}
	if err := ed.SetPaletteColor("", "music", "#fff"); err == nil {
		t.Error("expected error for empty palette name")
	}
}
