package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type echoMsg string

type counter struct {
	n     int
	typed string
	echo  []string
}

func (c counter) Init() tea.Cmd {
	return func() tea.Msg { return echoMsg("init") }
}

func (c counter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case echoMsg:
		c.echo = append(c.echo, string(msg))
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			c.n++
			return c, tea.Batch(
				func() tea.Msg { return echoMsg("a") },
				func() tea.Msg { return echoMsg("b") },
			)
		case tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyRunes:
			c.typed += string(msg.Runes)
		case tea.KeyCtrlS:
			return c, func() tea.Msg {
				time.Sleep(time.Second)
				return echoMsg("late")
			}
		}
	}
	return c, nil
}

func (c counter) View() string { return c.typed }

func TestDriver_DrainsInitAndBatches(t *testing.T) {
	d := New(t, counter{})
	d.DrainInit()
	d.PressEnter()

	m := d.Model.(counter)
	assert.Equal(t, 1, m.n)
	assert.Equal(t, []string{"init", "a", "b"}, m.echo)
	assert.Len(t, d.Seen(), 3)
}

func TestDriver_TypeAndView(t *testing.T) {
	d := New(t, counter{})
	d.Type("hola")
	assert.Equal(t, "hola", d.View())
}

func TestDriver_BlockingCmdIsAbandoned(t *testing.T) {
	d := New(t, counter{}, WithCmdTimeout(5*time.Millisecond))
	d.Press(tea.KeyCtrlS)
	assert.Empty(t, d.Model.(counter).echo)
}

func TestDriver_QuitStopsFurtherInput(t *testing.T) {
	d := New(t, counter{})
	d.PressEsc()
	assert.True(t, d.Quitting)

	d.Type("x")
	assert.Empty(t, d.View())
}

func TestDriver_WithSize(t *testing.T) {
	d := New(t, counter{}, WithSize(80, 24))
	assert.NotNil(t, d.Model)
}
