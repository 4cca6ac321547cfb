package actions_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/hotmouse/internal/actions"
	"github.com/bezmoradi/hotmouse/internal/actions/actionstest"
)

type toggler struct {
	calls []string
}

func (t *toggler) TurnOn()      { t.calls = append(t.calls, "on") }
func (t *toggler) TurnOff()     { t.calls = append(t.calls, "off") }
func (t *toggler) ToggleOnOff() { t.calls = append(t.calls, "on_off") }

func TestParseRoundTrip(t *testing.T) {
	names := actions.Names()
	require.Len(t, names, 23)
	assert.Equal(t, "<none>", names[0])

	for _, name := range names {
		a, err := actions.Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, a.String())
		assert.True(t, actions.IsRegistered(name))
	}
}

func TestParseEmptyIsNone(t *testing.T) {
	a, err := actions.Parse("")
	require.NoError(t, err)
	assert.Equal(t, actions.ActionNone, a)
	assert.False(t, actions.IsRegistered(""))
}

func TestParseUnknown(t *testing.T) {
	_, err := actions.Parse("strange_looking_action")
	assert.ErrorIs(t, err, actions.ErrUnknownAction)
	assert.False(t, actions.IsRegistered("context_menu"))
}

func TestAlwaysAllowed(t *testing.T) {
	for _, name := range actions.Names() {
		a, _ := actions.Parse(name)
		want := name == "on" || name == "on_off"
		assert.Equal(t, want, a.AlwaysAllowed(), name)
	}
}

func TestAnswerButton(t *testing.T) {
	tests := []struct {
		action actions.Action
		count  int
		ease   int
		ok     bool
	}{
		{actions.ActionAgain, 2, 1, true},
		{actions.ActionAgain, 3, 1, true},
		{actions.ActionAgain, 4, 1, true},

		{actions.ActionHard, 2, 0, false},
		{actions.ActionGood, 2, 2, true},
		{actions.ActionEasy, 2, 0, false},

		{actions.ActionHard, 3, 2, true},
		{actions.ActionGood, 3, 2, true},
		{actions.ActionEasy, 3, 0, false},

		{actions.ActionHard, 4, 2, true},
		{actions.ActionGood, 4, 3, true},
		{actions.ActionEasy, 4, 4, true},

		{actions.ActionGood, 0, 0, false},
		{actions.ActionUndo, 4, 0, false},
	}

	for _, tt := range tests {
		ease, ok := actions.AnswerButton(tt.action, tt.count)
		assert.Equal(t, tt.ok, ok, "%s with %d buttons", tt.action, tt.count)
		assert.Equal(t, tt.ease, ease, "%s with %d buttons", tt.action, tt.count)
	}
}

func TestRegistryRunsReviewerActions(t *testing.T) {
	tests := []struct {
		action   actions.Action
		expected string
	}{
		{actions.ActionUndo, "undo"},
		{actions.ActionShowAnswer, "show_answer"},
		{actions.ActionAgain, "answer:1"},
		{actions.ActionHard, "answer:2"},
		{actions.ActionGood, "answer:3"},
		{actions.ActionEasy, "answer:4"},
		{actions.ActionDelete, "delete_note"},
		{actions.ActionSuspendCard, "suspend_card"},
		{actions.ActionSuspendNote, "suspend_note"},
		{actions.ActionBuryCard, "bury_card"},
		{actions.ActionBuryNote, "bury_note"},
		{actions.ActionMark, "mark"},
		{actions.ActionRed, "flag:1"},
		{actions.ActionOrange, "flag:2"},
		{actions.ActionGreen, "flag:3"},
		{actions.ActionBlue, "flag:4"},
		{actions.ActionAudio, "replay_audio"},
		{actions.ActionRecordVoice, "record_voice"},
		{actions.ActionReplayVoice, "replay_voice"},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			r := actionstest.NewReviewer()
			reg := actions.NewRegistry(r, &toggler{})
			require.NoError(t, reg.Run(tt.action))
			assert.Equal(t, []string{tt.expected}, r.Calls)
		})
	}
}

func TestRegistryTogglesAndNone(t *testing.T) {
	r := actionstest.NewReviewer()
	tg := &toggler{}
	reg := actions.NewRegistry(r, tg)

	require.NoError(t, reg.Run(actions.ActionNone))
	require.NoError(t, reg.Run(actions.ActionOn))
	require.NoError(t, reg.Run(actions.ActionOff))
	require.NoError(t, reg.Run(actions.ActionOnOff))

	assert.Empty(t, r.Calls)
	assert.Equal(t, []string{"on", "off", "on_off"}, tg.calls)
}

func TestRegistryGradeCollapse(t *testing.T) {
	r := actionstest.NewReviewer()
	r.Buttons = 2
	reg := actions.NewRegistry(r, &toggler{})

	assert.ErrorIs(t, reg.Run(actions.ActionHard), actions.ErrNoAnswerButton)
	assert.ErrorIs(t, reg.Run(actions.ActionEasy), actions.ErrNoAnswerButton)
	assert.Empty(t, r.Calls)

	require.NoError(t, reg.Run(actions.ActionGood))
	assert.Equal(t, "answer:2", r.Last())
}

func TestRegistryUnknownAction(t *testing.T) {
	reg := actions.NewRegistry(actionstest.NewReviewer(), &toggler{})
	assert.ErrorIs(t, reg.Run(actions.Action(200)), actions.ErrUnknownAction)
}

func TestRegistryPropagatesReviewerError(t *testing.T) {
	r := actionstest.NewReviewer()
	r.Err = errors.New("reviewer gone")
	reg := actions.NewRegistry(r, &toggler{})

	assert.EqualError(t, reg.Run(actions.ActionMark), "reviewer gone")
}
