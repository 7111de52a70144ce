package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/richardwooding/chipwave/internal/synth"
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	head  lipgloss.Style
	row   lipgloss.Style
	alt   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)).Padding(0, 1),
		label: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)).Width(18),
		value: lipgloss.NewStyle().Bold(true),
		head:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		row:   lipgloss.NewStyle(),
		alt:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	}
}

// InfoCmd prints the engine timing.
type InfoCmd struct{}

// Run executes the info command.
func (c *InfoCmd) Run(g *Globals) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	fmt.Print(renderInfo(newStyles(), cfg))
	return nil
}

func renderInfo(s styles, cfg synth.Config) string {
	var b strings.Builder
	b.WriteString(s.title.Render("chipwave engine"))
	b.WriteString("\n")

	rows := [][2]string{
		{"Voices", fmt.Sprintf("%d", cfg.VoiceCount)},
		{"Stereo", cfg.Stereo.String()},
		{"Wave RAM", fmt.Sprintf("%d bytes (%d slots)", cfg.WavetableSize, cfg.WavetableSize/32)},
		{"Timer base", fmt.Sprintf("%d Hz", cfg.TimerBase())},
		{"Voice rate", fmt.Sprintf("%.2f Hz", cfg.VoiceRate())},
		{"Tick rate", fmt.Sprintf("%d Hz", cfg.TickRate())},
		{"Voices per tick", fmt.Sprintf("%d", cfg.VoicesPerTick())},
		{"Ticks per round", fmt.Sprintf("%d", cfg.TicksPerRound())},
		{"Sequencer", fmt.Sprintf("%d Hz", synth.SequencerRate)},
	}
	for _, r := range rows {
		b.WriteString(s.label.Render(r[0]))
		b.WriteString(s.value.Render(r[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// TuningCmd prints pitch, frequency and phase increment.
type TuningCmd struct {
	From int `help:"First pitch in semitones from A4." default:"-24"`
	To   int `help:"Last pitch in semitones from A4." default:"24"`
}

// Run executes the tuning command.
func (c *TuningCmd) Run(g *Globals) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	if c.To < c.From {
		c.From, c.To = c.To, c.From
	}
	fmt.Print(renderTuning(newStyles(), cfg, c.From, c.To))
	return nil
}

var noteNames = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// noteName names a pitch in semitones from A4, e.g. -9 is C4.
func noteName(pitch int) string {
	idx := ((pitch % 12) + 12) % 12
	// Octave numbers change at C, three semitones above A
	octave := 4 + (pitch+9-((pitch+9)%12+12)%12)/12
	return fmt.Sprintf("%s%d", noteNames[idx], octave)
}

func renderTuning(s styles, cfg synth.Config, from, to int) string {
	var b strings.Builder
	b.WriteString(s.head.Render(fmt.Sprintf("%6s %5s %10s %8s", "pitch", "note", "Hz", "fnumber")))
	b.WriteString("\n")

	for p := from; p <= to; p++ {
		style := s.row
		if p%2 != 0 {
			style = s.alt
		}
		freq := synth.Frequency(float64(p))
		line := fmt.Sprintf("%6d %5s %10.2f %8d", p, noteName(p), freq, cfg.Fnumber(freq))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
