package accessibility

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
)

type fakeInput struct {
	clicks []string
	typed  []string
	err    error
}

func (f *fakeInput) Click(x, y int, _ platform.MouseButton, _ int) error {
	f.clicks = append(f.clicks, fmt.Sprintf("%d,%d", x, y))
	return f.err
}
func (f *fakeInput) TypeText(text string, _ int) error {
	f.typed = append(f.typed, text)
	return f.err
}
func (f *fakeInput) KeyCombo([]string) error { return f.err }

type fakeActions struct {
	performed []platform.ActionOptions
	err       error
}

func (f *fakeActions) PerformAction(opts platform.ActionOptions) error {
	f.performed = append(f.performed, opts)
	return f.err
}

type fakeValues struct {
	set []platform.SetValueOptions
	err error
}

func (f *fakeValues) SetValue(opts platform.SetValueOptions) error {
	f.set = append(f.set, opts)
	return f.err
}

func TestInteractorClickPrefersPressAction(t *testing.T) {
	input := &fakeInput{}
	actions := &fakeActions{}
	in := NewInteractor(input, actions, nil)

	win := model.Window{Title: "Calculator", PID: 42}
	el := btnElement(3, "Seven")
	require.NoError(t, in.Click(&win, &el))

	require.Len(t, actions.performed, 1)
	assert.Equal(t, "press", actions.performed[0].Action)
	assert.Equal(t, 3, actions.performed[0].ID)
	assert.Empty(t, input.clicks, "synthetic click skipped when press works")
}

func TestInteractorClickFallsBackToCenter(t *testing.T) {
	input := &fakeInput{}
	actions := &fakeActions{err: fmt.Errorf("press refused")}
	in := NewInteractor(input, actions, nil)

	win := model.Window{Title: "Calculator", PID: 42}
	el := btnElement(3, "Seven") // bounds 10,20 40x20 -> center 30,30
	require.NoError(t, in.Click(&win, &el))
	assert.Equal(t, []string{"30,30"}, input.clicks)
}

func TestInteractorClickDisabledElement(t *testing.T) {
	in := NewInteractor(&fakeInput{}, nil, nil)
	f := false
	el := model.Element{Name: "Save", Enabled: &f}
	err := in.Click(&model.Window{}, &el)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestInteractorSetTextViaValueSetter(t *testing.T) {
	input := &fakeInput{}
	values := &fakeValues{}
	in := NewInteractor(input, &fakeActions{}, values)

	win := model.Window{Title: "Notes", PID: 7}
	el := btnElement(5, "Body")
	require.NoError(t, in.SetText(&win, &el, "hello"))

	require.Len(t, values.set, 1)
	assert.Equal(t, "hello", values.set[0].Value)
	assert.Empty(t, input.typed)
}

func TestInteractorSetTextFallsBackToTyping(t *testing.T) {
	input := &fakeInput{}
	values := &fakeValues{err: fmt.Errorf("read-only attribute")}
	in := NewInteractor(input, &fakeActions{}, values)

	win := model.Window{Title: "Notes", PID: 7}
	el := btnElement(5, "Body")
	require.NoError(t, in.SetText(&win, &el, "hello"))
	assert.Equal(t, []string{"hello"}, input.typed)
}
