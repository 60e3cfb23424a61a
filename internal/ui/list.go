package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vibescan/internal/synth"
)

var (
	_ list.Item = genreItem{}
	_ list.Item = moodItem{}
)

// genreItem wraps [synth.Genre] to implement [list.Item].
type genreItem struct {
	genre synth.Genre
}

func (i genreItem) FilterValue() string { return string(i.genre) }
func (i genreItem) Title() string       { return strings.ToUpper(string(i.genre)) }
func (i genreItem) Description() string {
	switch i.genre {
	case synth.GenreBollywood:
		return "hindi party, wedding and heartbreak"
	case synth.GenrePunjabi:
		return "bhangra, club and attitude"
	case synth.GenreKPop:
		return "bright concepts and ballads"
	case synth.GenreLofi:
		return "study beats and night sessions"
	default:
		return "global pop, rock and focus"
	}
}

// moodItem wraps [synth.Mood] to implement [list.Item].
type moodItem struct {
	mood synth.Mood
}

func (i moodItem) FilterValue() string { return string(i.mood) }
func (i moodItem) Title() string       { return string(i.mood) }
func (i moodItem) Description() string {
	switch i.mood {
	case synth.MoodHappy:
		return "party and feel-good"
	case synth.MoodSad:
		return "heartbreak and rain"
	case synth.MoodAngry:
		return "gym and rage"
	case synth.MoodFearful, synth.MoodDisgusted, synth.MoodSurprised:
		return "calm it back down"
	default:
		return "chill and focus"
	}
}

func genreItems() []list.Item {
	items := make([]list.Item, len(synth.Genres))
	for i, g := range synth.Genres {
		items[i] = genreItem{genre: g}
	}
	return items
}

func moodItems() []list.Item {
	items := make([]list.Item, len(synth.Moods))
	for i, m := range synth.Moods {
		items[i] = moodItem{mood: m}
	}
	return items
}
