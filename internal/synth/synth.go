// Package synth derives catalog search queries from a locked mood observation.
//
// Synthesis is pure: given (mood, genre, age, hour) and a random source, it
// produces a primary query, a degraded fallback query, a result offset, and a
// human-readable decision trace. Re-deriving with the same inputs varies only
// along the three random draws (phrase variant, era variant, offset).
package synth

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Mood is a detected facial expression label.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodAngry     Mood = "angry"
	MoodFearful   Mood = "fearful"
	MoodDisgusted Mood = "disgusted"
	MoodSurprised Mood = "surprised"
	MoodNeutral   Mood = "neutral"
)

// Moods is the fixed mood vocabulary in canonical order.
//
// The detection loop scans this order when taking the argmax, so ties break
// deterministically toward the earlier label.
var Moods = []Mood{MoodHappy, MoodSad, MoodAngry, MoodFearful, MoodDisgusted, MoodSurprised, MoodNeutral}

// ParseMood returns the Mood for s, reporting whether s is in the vocabulary.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Moods {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// Genre selects a phrase book.
type Genre string

const (
	GenreBollywood Genre = "bollywood"
	GenrePunjabi   Genre = "punjabi"
	GenreKPop      Genre = "kpop"
	GenreLofi      Genre = "lofi"
	GenreGlobal    Genre = "global"
)

// Genres lists the selectable genres in display order.
var Genres = []Genre{GenreBollywood, GenrePunjabi, GenreKPop, GenreLofi, GenreGlobal}

// ParseGenre returns the Genre for s. Unrecognized genres resolve to
// [GenreGlobal] rather than failing.
func ParseGenre(s string) Genre {
	g := Genre(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GenreBollywood, GenrePunjabi, GenreKPop, GenreLofi, GenreGlobal:
		return g
	default:
		return GenreGlobal
	}
}

// Query is a synthesized search request.
type Query struct {
	Primary  string // full phrase + era + time-flavor query
	Fallback string // broader "genre mood songs" query, used when the primary yields nothing usable
	Offset   int    // randomized result offset in [0, 20) for the primary search
	Trace    string // "MOOD | GENRE | TIME-FLAVOR" decision trace, display only
}

// Engine synthesizes queries with an injected random source.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an Engine. A nil rng falls back to a time-seeded source;
// tests pin a source for determinism.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// Synthesize maps a locked observation plus the selected genre and wall-clock
// hour to a search query.
//
// Unknown moods resolve to each phrase book's default bucket; unknown genres
// resolve to the global book.
func (e *Engine) Synthesize(mood Mood, genre Genre, age uint, hour int) Query {
	book := bookFor(genre)
	phrase := e.pick(book.bucket(mood))
	era := e.pick(eraOptions(age))
	flavor := timeFlavor(hour)

	return Query{
		Primary:  fmt.Sprintf("%s %s %s", phrase, era, flavor),
		Fallback: fmt.Sprintf("%s %s songs", genre, mood),
		Offset:   e.rng.Intn(20),
		Trace:    strings.ToUpper(fmt.Sprintf("%s | %s | %s", mood, genre, flavor)),
	}
}

func (e *Engine) pick(options []string) string {
	return options[e.rng.Intn(len(options))]
}

// phraseBook holds per-mood phrase buckets for one genre.
//
// Books special-case only the moods they care about; everything else lands in
// the default bucket.
type phraseBook struct {
	happy []string
	sad   []string
	angry []string // nil when the genre doesn't special-case anger
	other []string // default bucket
}

// bucket resolves a mood to its phrase bucket. Every mood in the vocabulary
// has an explicit arm; anything outside the vocabulary takes the default arm.
func (b phraseBook) bucket(m Mood) []string {
	switch m {
	case MoodHappy:
		return b.happy
	case MoodSad:
		return b.sad
	case MoodAngry:
		if b.angry != nil {
			return b.angry
		}
		return b.other
	case MoodFearful, MoodDisgusted, MoodSurprised, MoodNeutral:
		return b.other
	default:
		return b.other
	}
}

func bookFor(g Genre) phraseBook {
	switch g {
	case GenreBollywood:
		return bollywoodBook
	case GenrePunjabi:
		return punjabiBook
	case GenreKPop:
		return kpopBook
	case GenreLofi:
		return lofiBook
	case GenreGlobal:
		return globalBook
	default:
		return globalBook
	}
}

var bollywoodBook = phraseBook{
	happy: []string{
		"bollywood party dance songs hindi",
		"bollywood wedding dance mashup",
		"bollywood happy travel songs",
	},
	sad: []string{
		"bollywood sad emotional arijit singh",
		"bollywood heartbreak broken love songs",
		"bollywood rain sad vibe",
	},
	angry: []string{
		"bollywood rock workout high energy",
		"bollywood motivational rage songs",
		"bollywood gym power songs",
	},
	other: []string{
		"bollywood lofi chill",
		"bollywood romantic soft vibe",
		"bollywood late night drive songs",
	},
}

var punjabiBook = phraseBook{
	happy: []string{
		"punjabi party hits ap dhillon diljit",
		"punjabi wedding bhangra vibe",
		"punjabi club songs bass boosted",
	},
	sad: []string{
		"punjabi sad songs qismat",
		"punjabi breakup emotional songs",
		"punjabi slow heartbreak vibe",
	},
	other: []string{
		"punjabi sidhu moose wala high energy",
		"punjabi gangster rap",
		"punjabi attitude workout songs",
	},
}

var kpopBook = phraseBook{
	happy: []string{
		"kpop happy summer vibe bts",
		"kpop party edm blackpink",
		"kpop bright cute vibe",
	},
	sad: []string{
		"kpop sad emotional ballad",
		"kpop lonely night vibe",
		"kpop breakup soft songs",
	},
	other: []string{
		"kpop dark concept hype",
		"kpop gym energy",
		"kpop futuristic beats",
	},
}

var lofiBook = phraseBook{
	happy: []string{
		"lofi happy chill beats",
		"lofi coffee shop vibe",
		"lofi aesthetic sunshine mood",
	},
	sad: []string{
		"lofi sad rain night vibe",
		"lofi lonely deep focus",
		"lofi heartbreak chill",
	},
	other: []string{
		"lofi chill study relaxing beats",
		"lofi coding midnight session",
		"lofi anime night vibe",
	},
}

var globalBook = phraseBook{
	happy: []string{
		"party upbeat dance pop hits",
		"feel good summer pop songs",
		"happy road trip music",
	},
	sad: []string{
		"sad soulful acoustic heartbreak piano",
		"late night emotional english songs",
		"deep broken heart songs",
	},
	angry: []string{
		"heavy metal rock gym workout energy",
		"phonk aggressive bass music",
		"rage rap hard beats",
	},
	other: []string{
		"lofi chill study relaxing beats",
		"ambient calm relaxing music",
		"deep focus instrumental music",
	},
}

// eraOptions maps an age to candidate era descriptors via fixed breakpoints.
func eraOptions(age uint) []string {
	switch {
	case age < 18:
		return []string{"2024 viral", "gen z trending", "reels trending"}
	case age < 30:
		return []string{"2015-2024 hits", "spotify global hits", "viral sensation"}
	case age < 45:
		return []string{"2010s hits", "classic party era"}
	case age < 55:
		return []string{"90s hits classic", "retro gold"}
	default:
		return []string{"70s 80s golden era", "old is gold evergreen"}
	}
}

// Time-flavor bands for the four fixed day segments.
const (
	FlavorMorning = "morning fresh vibe"
	FlavorDay     = "day energy mode"
	FlavorEvening = "evening chill mood"
	FlavorNight   = "midnight deep listening"
)

// timeFlavor maps an hour of day (0-23) to its flavor band.
func timeFlavor(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return FlavorMorning
	case hour >= 12 && hour < 18:
		return FlavorDay
	case hour >= 18 && hour < 22:
		return FlavorEvening
	default:
		return FlavorNight
	}
}
