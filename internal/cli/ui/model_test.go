package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stackvity/devconv/internal/cli/hooks" // Import hooks for message types
	"github.com/stackvity/devconv/pkg/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestModel builds a sized model around a real converter.
func newTestModel(t *testing.T, width, height int) *Model {
	t.Helper()
	conv, err := converter.New(converter.DefaultOptions())
	require.NoError(t, err)

	m := NewModel(conv, Config{
		Features: converter.DefaultFeatureFlags(),
		Debounce: time.Millisecond,
		Version:  "test",
	})
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return &m
}

func TestNewModel_DefaultDebounce(t *testing.T) {
	m := NewModel(nil, Config{})
	assert.Equal(t, converter.DefaultDebounceInterval, m.cfg.Debounce)
	assert.False(t, m.initialized)
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(t, 80, 30)
	assert.NotNil(t, m.Init(), "Init should start the cursor blink")
}

func TestModel_Update_Quit(t *testing.T) {
	testCases := []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	}

	for _, key := range testCases {
		t.Run(key.String(), func(t *testing.T) {
			m := newTestModel(t, 80, 30)
			newModel, cmd := m.Update(key)
			require.NotNil(t, cmd)

			updated, ok := newModel.(*Model)
			require.True(t, ok)
			assert.True(t, updated.quitting)
			assert.Equal(t, tea.Quit(), cmd())

			// Further keys are ignored once quitting.
			_, cmd = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
			assert.Nil(t, cmd)
		})
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(t, 90, 30)

	assert.True(t, m.initialized)
	assert.Equal(t, 90, m.width)
	assert.Equal(t, 30, m.height)
	assert.Equal(t, 90, m.output.Width)
	assert.Equal(t, 18, m.output.Height, "a third of the body for input, the rest for output")
	assert.Equal(t, 9, m.input.Height())

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 4})
	assert.Equal(t, minInputHeight, m.input.Height())
	assert.Equal(t, 1, m.output.Height)
}

func TestModel_Update_TypingSchedulesConversion(t *testing.T) {
	m := newTestModel(t, 80, 30)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("#")})
	require.NotNil(t, cmd)
	assert.Equal(t, "#", m.lastInput)
	assert.Equal(t, 1, m.seq)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("F")})
	assert.Equal(t, 2, m.seq)

	// Cursor movement does not change the text.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, m.seq)
}

func TestModel_ScheduleConversion_Tick(t *testing.T) {
	m := newTestModel(t, 80, 30)
	cmd := m.scheduleConversion()
	require.NotNil(t, cmd)
	assert.Equal(t, debounceMsg{seq: 1}, cmd())
}

func TestModel_Update_DebounceAndConvert(t *testing.T) {
	m := newTestModel(t, 80, 30)
	m.input.SetValue("#FF0000")
	m.seq = 3

	_, cmd := m.Update(debounceMsg{seq: 2})
	assert.Nil(t, cmd, "stale tick is dropped")

	_, cmd = m.Update(debounceMsg{seq: 3})
	require.NotNil(t, cmd)
	converted, ok := cmd().(ConvertedMsg)
	require.True(t, ok)
	assert.Equal(t, 3, converted.Seq)
	require.NotEmpty(t, converted.Output.Results)
	assert.Equal(t, "rgb(255, 0, 0)", converted.Output.Results[0].Content)
	assert.Contains(t, converted.Text, "rgb(255, 0, 0)")

	m.Update(converted)
	assert.Contains(t, m.output.View(), "rgb(255, 0, 0)")

	// A result for an older edit does not replace the output.
	m.seq = 4
	m.Update(ConvertedMsg{Seq: 3, Text: "old"})
	assert.NotContains(t, m.output.View(), "old")
	assert.Contains(t, m.output.View(), "rgb(255, 0, 0)")
}

func TestModel_Convert_EmptyInput(t *testing.T) {
	m := newTestModel(t, 80, 30)
	msg := m.convert(7, "  \n ")()
	assert.Equal(t, ConvertedMsg{Seq: 7}, msg)
}

func TestModel_Update_Stats(t *testing.T) {
	m := newTestModel(t, 80, 30)
	m.seq = 5
	stats := hooks.StatsMsg{Seq: 5, Results: 2, Errors: 1, Elapsed: 3 * time.Millisecond}

	_, cmd := m.Update(stats)
	assert.Nil(t, cmd)
	assert.True(t, m.hasStats)
	assert.Equal(t, stats, m.stats)

	// Stats from a run for an older edit leave the footer alone.
	m.seq = 6
	_, cmd = m.Update(hooks.StatsMsg{Seq: 5, Results: 9})
	assert.Nil(t, cmd)
	assert.Equal(t, stats, m.stats)
}

func TestModel_Update_BlankInputResets(t *testing.T) {
	for _, blank := range []string{"", "  \n ", "\u3000\u00a0"} {
		m := newTestModel(t, 80, 30)
		m.seq = 2
		m.Update(hooks.StatsMsg{Seq: 2, Results: 4})
		m.Update(ConvertedMsg{Seq: 2, Text: "rgb(255, 0, 0)"})
		require.True(t, m.hasStats)

		m.input.SetValue(blank)
		_, cmd := m.Update(debounceMsg{seq: 2})
		assert.Nil(t, cmd, "blank input does not start a run")
		assert.False(t, m.hasStats)
		assert.NotContains(t, m.output.View(), "rgb(255, 0, 0)")
		assert.Contains(t, m.statusLine(), "Type or paste text to convert")
	}
}

type recordingTracker struct {
	begun []int
	ended int
}

func (r *recordingTracker) BeginRun(seq int) func() {
	r.begun = append(r.begun, seq)
	return func() { r.ended++ }
}

func TestModel_Convert_TagsRun(t *testing.T) {
	m := newTestModel(t, 80, 30)
	tracker := &recordingTracker{}
	m.cfg.Runs = tracker

	msg := m.convert(9, "#FF0000")()
	converted, ok := msg.(ConvertedMsg)
	require.True(t, ok)
	assert.Equal(t, 9, converted.Seq)
	assert.Equal(t, []int{9}, tracker.begun)
	assert.Equal(t, 1, tracker.ended)

	// Whitespace-only input never reaches the pipeline.
	_ = m.convert(10, "\u3000")()
	assert.Equal(t, []int{9}, tracker.begun)
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0µs"},
		{250 * time.Microsecond, "250µs"},
		{12 * time.Millisecond, "12ms"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, formatDuration(tc.in))
	}
}
