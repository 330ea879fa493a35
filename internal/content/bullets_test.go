package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/core"
)

func TestDefaultSetLoads(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if set.Atlas != "bullets.png" {
		t.Errorf("Atlas = %q", set.Atlas)
	}

	for _, name := range []string{"pellet", "small", "knife", "spark", "needle", "point", "power"} {
		if _, err := set.ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}

	point, _ := set.ByName("point")
	if point.ID != 22 {
		t.Errorf("auto-assigned id = %d, expected 22 (after the highest explicit id)", point.ID)
	}
	knife, _ := set.ByID(6)
	if knife.Shape.Kind != collision.KindBox || knife.Origin != core.V(4, 6) {
		t.Errorf("knife = %+v", knife)
	}
	spark, _ := set.ByName("spark")
	if spark.Shape.Kind != collision.KindNone {
		t.Errorf("spark should be decorative, got %v", spark.Shape.Kind)
	}
}

func TestParseDerivesSizeAndDelay(t *testing.T) {
	set, err := Parse([]byte(`{
		"atlas": "a.png",
		"bullets": [
			{"name": "x", "region": [0, 0, 12, 20], "tint": "red", "blend": "add",
			 "collision": {"method": "circle", "radius": 2}},
			{"name": "y", "region": [0, 0, 8, 8], "width": 4, "height": 6, "origin": [1, 1],
			 "delay": {"tint": "white", "blend": "screen"},
			 "collision": {"method": "rectangle", "width": 3, "height": 5}}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	x, _ := set.ByName("x")
	if x.Width != 12 || x.Height != 20 || x.Origin != core.V(6, 10) {
		t.Errorf("x size/origin = %v x %v at %v", x.Width, x.Height, x.Origin)
	}
	if x.Delay.Color != core.ColorRed || x.Delay.Blend != core.BlendAdd {
		t.Errorf("x delay should fall back to the bullet look: %+v", x.Delay)
	}
	if x.ID != 0 {
		t.Errorf("x.ID = %d", x.ID)
	}

	y, _ := set.ByName("y")
	if y.Width != 4 || y.Height != 6 || y.Origin != core.V(1, 1) {
		t.Errorf("y size/origin = %v x %v at %v", y.Width, y.Height, y.Origin)
	}
	if y.Delay.Color != core.ColorWhite || y.Delay.Blend != core.BlendScreen {
		t.Errorf("y delay = %+v", y.Delay)
	}
	if y.Shape != collision.Box(3, 5) {
		t.Errorf("y shape = %+v", y.Shape)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown blend", `{"bullets":[{"name":"a","blend":"subtract","collision":{"method":"none"}}]}`, ErrUnknownBlend},
		{"unknown delay blend", `{"bullets":[{"name":"a","delay":{"blend":"xor"},"collision":{"method":"none"}}]}`, ErrUnknownBlend},
		{"unknown method", `{"bullets":[{"name":"a","collision":{"method":"polygon"}}]}`, ErrUnknownShape},
		{"unknown tint", `{"bullets":[{"name":"a","tint":"chartreuse","collision":{"method":"none"}}]}`, ErrUnknownTint},
		{"circle without radius", `{"bullets":[{"name":"a","collision":{"method":"circle"}}]}`, nil},
		{"duplicate name", `{"bullets":[{"name":"a","collision":{"method":"none"}},{"name":"a","collision":{"method":"none"}}]}`, nil},
		{"duplicate id", `{"bullets":[{"id":1,"name":"a","collision":{"method":"none"}},{"id":1,"name":"b","collision":{"method":"none"}}]}`, nil},
		{"missing name", `{"bullets":[{"collision":{"method":"none"}}]}`, nil},
		{"bad glyph", `{"bullets":[{"name":"a","glyph":"ab","collision":{"method":"none"}}]}`, nil},
		{"bad json", `{"bullets":[`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("error %v does not wrap %v", err, tc.want)
			}
		})
	}
}

func TestLookupUnknownBullet(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.ByName("nope"); !errors.Is(err, ErrUnknownBullet) {
		t.Errorf("ByName(nope) error = %v", err)
	}
	if _, err := set.ByID(999); !errors.Is(err, ErrUnknownBullet) {
		t.Errorf("ByID(999) error = %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bullets.json")
	doc := `{"atlas":"b.png","bullets":[{"name":"only","collision":{"method":"circle","radius":1}}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if set.Len() != 1 || set.All()[0].Name != "only" {
		t.Errorf("loaded set = %+v", set.All())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestGlyphAnimation(t *testing.T) {
	b := &Bullet{Glyph: 'a', Frames: 3, FrameTime: 2}
	got := []rune{b.GlyphAt(0), b.GlyphAt(1), b.GlyphAt(2), b.GlyphAt(4), b.GlyphAt(6)}
	want := []rune{'a', 'a', 'b', 'c', 'a'}
	if string(got) != string(want) {
		t.Errorf("GlyphAt sequence = %q, expected %q", string(got), string(want))
	}
}
