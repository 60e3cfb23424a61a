package synth

import (
	"math/rand"
	"strings"
	"testing"
)

func TestParseMood(t *testing.T) {
	t.Run("known mood", func(t *testing.T) {
		m, ok := ParseMood("Happy")
		if !ok || m != MoodHappy {
			t.Errorf("expected (happy, true), got (%s, %v)", m, ok)
		}
	})

	t.Run("unknown mood", func(t *testing.T) {
		if _, ok := ParseMood("ecstatic"); ok {
			t.Error("expected ok=false for unknown mood")
		}
	})
}

func TestParseGenre(t *testing.T) {
	t.Run("known genre", func(t *testing.T) {
		if g := ParseGenre(" KPOP "); g != GenreKPop {
			t.Errorf("expected kpop, got %s", g)
		}
	})

	t.Run("unknown genre falls back to global", func(t *testing.T) {
		if g := ParseGenre("vaporwave"); g != GenreGlobal {
			t.Errorf("expected global, got %s", g)
		}
	})
}

func TestSynthesizeDeterminism(t *testing.T) {
	a := NewEngine(rand.New(rand.NewSource(42)))
	b := NewEngine(rand.New(rand.NewSource(42)))

	for i := 0; i < 5; i++ {
		qa := a.Synthesize(MoodHappy, GenreBollywood, 22, 14)
		qb := b.Synthesize(MoodHappy, GenreBollywood, 22, 14)
		if qa != qb {
			t.Fatalf("pinned sources diverged on draw %d: %+v vs %+v", i, qa, qb)
		}
	}
}

func TestSynthesizeQueryShape(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(7)))
	q := engine.Synthesize(MoodHappy, GenreBollywood, 22, 14)

	t.Run("primary carries phrase, era and flavor", func(t *testing.T) {
		if !strings.HasPrefix(q.Primary, "bollywood") {
			t.Errorf("expected bollywood phrase prefix, got %q", q.Primary)
		}
		if !strings.HasSuffix(q.Primary, FlavorDay) {
			t.Errorf("expected %q suffix for hour 14, got %q", FlavorDay, q.Primary)
		}
		hasEra := false
		for _, era := range []string{"2015-2024 hits", "spotify global hits", "viral sensation"} {
			if strings.Contains(q.Primary, era) {
				hasEra = true
			}
		}
		if !hasEra {
			t.Errorf("expected an under-30 era descriptor in %q", q.Primary)
		}
	})

	t.Run("fallback is genre mood songs", func(t *testing.T) {
		if q.Fallback != "bollywood happy songs" {
			t.Errorf("unexpected fallback %q", q.Fallback)
		}
	})

	t.Run("offset within window", func(t *testing.T) {
		if q.Offset < 0 || q.Offset >= 20 {
			t.Errorf("offset %d outside [0, 20)", q.Offset)
		}
	})

	t.Run("trace is uppercased", func(t *testing.T) {
		if q.Trace != "HAPPY | BOLLYWOOD | DAY ENERGY MODE" {
			t.Errorf("unexpected trace %q", q.Trace)
		}
	})
}

func TestPhraseBuckets(t *testing.T) {
	t.Run("unrecognized mood uses default bucket", func(t *testing.T) {
		got := bollywoodBook.bucket(Mood("confused"))
		if &got[0] != &bollywoodBook.other[0] {
			t.Error("expected default bucket for unrecognized mood")
		}
	})

	t.Run("angry without dedicated bucket uses default", func(t *testing.T) {
		got := punjabiBook.bucket(MoodAngry)
		if &got[0] != &punjabiBook.other[0] {
			t.Error("expected default bucket when genre has no angry bucket")
		}
	})

	t.Run("angry with dedicated bucket", func(t *testing.T) {
		got := globalBook.bucket(MoodAngry)
		if &got[0] != &globalBook.angry[0] {
			t.Error("expected angry bucket for global book")
		}
	})

	t.Run("neutral mood uses default bucket", func(t *testing.T) {
		for _, g := range Genres {
			book := bookFor(g)
			got := book.bucket(MoodNeutral)
			if &got[0] != &book.other[0] {
				t.Errorf("genre %s: expected default bucket for neutral", g)
			}
		}
	})
}

func TestEraOptions(t *testing.T) {
	cases := []struct {
		age  uint
		want string
	}{
		{12, "2024 viral"},
		{18, "2015-2024 hits"},
		{29, "2015-2024 hits"},
		{30, "2010s hits"},
		{45, "90s hits classic"},
		{55, "70s 80s golden era"},
		{80, "70s 80s golden era"},
	}

	for _, c := range cases {
		got := eraOptions(c.age)
		if got[0] != c.want {
			t.Errorf("age %d: expected band starting %q, got %q", c.age, c.want, got[0])
		}
	}
}

func TestTimeFlavor(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, FlavorNight},
		{4, FlavorNight},
		{5, FlavorMorning},
		{11, FlavorMorning},
		{12, FlavorDay},
		{17, FlavorDay},
		{18, FlavorEvening},
		{21, FlavorEvening},
		{22, FlavorNight},
		{23, FlavorNight},
	}

	for _, c := range cases {
		if got := timeFlavor(c.hour); got != c.want {
			t.Errorf("hour %d: expected %q, got %q", c.hour, c.want, got)
		}
	}
}
