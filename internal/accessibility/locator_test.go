package accessibility

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
)

type fakeReader struct {
	windows  []model.Window
	elements map[int][]model.Element // keyed by PID
	readErr  error
}

func (f *fakeReader) ListWindows(platform.ListOptions) ([]model.Window, error) {
	return f.windows, nil
}

func (f *fakeReader) ReadElements(opts platform.ReadOptions) ([]model.Element, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.elements[opts.PID], nil
}

func btnElement(id int, name string) model.Element {
	return model.Element{
		ID: id, ControlType: "btn", Name: name,
		Bounds:  model.Bounds{Left: 10, Top: 20, Width: 40, Height: 20},
		Actions: []string{"press"},
	}
}

func TestSelectWindow(t *testing.T) {
	windows := []model.Window{
		{Title: "Calculator", ID: 1, Minimized: true},
		{Title: "Calculator", ID: 2, Visible: true},
		{Title: "Calculator", ID: 3, Visible: true, Focused: true},
		{Title: "Notes", ID: 4, Visible: true, Focused: true},
	}

	t.Run("prefers focused visible", func(t *testing.T) {
		got := SelectWindow(windows, "calc")
		require.NotNil(t, got)
		assert.Equal(t, 3, got.ID)
	})

	t.Run("then visible over minimized", func(t *testing.T) {
		got := SelectWindow(windows[:2], "calc")
		require.NotNil(t, got)
		assert.Equal(t, 2, got.ID)
	})

	t.Run("then first in enumeration order", func(t *testing.T) {
		minimized := []model.Window{
			{Title: "Calculator", ID: 7, Minimized: true},
			{Title: "Calculator", ID: 8, Minimized: true},
		}
		got := SelectWindow(minimized, "Calculator")
		require.NotNil(t, got)
		assert.Equal(t, 7, got.ID)
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got := SelectWindow(windows, "CULAT")
		require.NotNil(t, got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, SelectWindow(windows, "terminal"))
	})
}

func TestResolveWindowNotFound(t *testing.T) {
	l := NewLocator(&fakeReader{windows: []model.Window{{Title: "Notes", Visible: true}}})
	_, err := l.ResolveWindow("Calculator")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWindowNotFound))
}

func TestFindElement(t *testing.T) {
	win := model.Window{Title: "Calculator", PID: 42, Visible: true, Focused: true}
	tree := []model.Element{
		{
			ID: 1, ControlType: "window", Name: "Calculator",
			Children: []model.Element{
				{ID: 2, ControlType: "txt", Name: "Seven"},
				btnElement(3, "Seven"),
				{ID: 4, ControlType: "btn", Name: "Eight", AutomationID: "num8Button", ClassName: "AXButton"},
			},
		},
	}
	reader := &fakeReader{
		windows:  []model.Window{win},
		elements: map[int][]model.Element{42: tree},
	}
	l := NewLocator(reader)

	t.Run("name match returns first in traversal order", func(t *testing.T) {
		el, err := l.FindElement(&win, model.ElementQuery{Name: "seven"})
		require.NoError(t, err)
		assert.Equal(t, 2, el.ID, "the label precedes the button in the tree")
	})

	t.Run("control type disambiguates to the button", func(t *testing.T) {
		el, err := l.FindElement(&win, model.ElementQuery{Name: "seven", ControlType: "Button"})
		require.NoError(t, err)
		assert.Equal(t, 3, el.ID)
	})

	t.Run("automation id is exact", func(t *testing.T) {
		el, err := l.FindElement(&win, model.ElementQuery{AutomationID: "num8Button"})
		require.NoError(t, err)
		assert.Equal(t, 4, el.ID)

		_, err = l.FindElement(&win, model.ElementQuery{AutomationID: "num8"})
		assert.True(t, errors.Is(err, ErrElementNotFound))
	})

	t.Run("class regex narrows", func(t *testing.T) {
		el, err := l.FindElement(&win, model.ElementQuery{Name: "eight", ClassNameRe: "^AXButt"})
		require.NoError(t, err)
		assert.Equal(t, 4, el.ID)
	})

	t.Run("control type narrows a name match", func(t *testing.T) {
		el, err := l.FindElement(&win, model.ElementQuery{Name: "Seven", ControlType: "Text"})
		require.NoError(t, err)
		assert.Equal(t, 2, el.ID)
	})

	t.Run("invalid regex fails the query", func(t *testing.T) {
		_, err := l.FindElement(&win, model.ElementQuery{Name: "x", ClassNameRe: "(["})
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrElementNotFound))
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := l.FindElement(&win, model.ElementQuery{ControlType: "btn"})
		require.Error(t, err)
	})

	t.Run("no match is ErrElementNotFound", func(t *testing.T) {
		_, err := l.FindElement(&win, model.ElementQuery{Name: "Nine"})
		assert.True(t, errors.Is(err, ErrElementNotFound))
	})
}
