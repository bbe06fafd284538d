package application

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routing "notify-audit/internal/routing/domain"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Host: HostInfo{ID: "10084", Name: "web-01"},
		Triggers: []routing.Trigger{{
			ID:                "700",
			Name:              "High CPU on web-01",
			Priority:          "4",
			HostGroupIDs:      []string{"2"},
			HostIDs:           []string{"10084"},
			Tags:              map[string]string{"env": "prod"},
			TemplateTriggerID: "700",
		}},
		Actions: []routing.Action{{
			ID:        "30",
			Name:      "Notify ops",
			EscPeriod: "1h",
			ProblemOperations: []routing.Operation{{
				ID:          "90",
				Kind:        routing.OpSendMessage,
				EscStepFrom: 1,
				Message:     routing.OpMessage{MediaTypeID: routing.WildcardMediaTypeID, Subject: "cpu", Body: "high"},
				UserIDs:     []string{"1"},
				GroupIDs:    []string{"7"},
			}},
		}},
		MediaTypes: []routing.MediaType{
			{ID: "1", Name: "Email"},
			{ID: "3", Name: "SMS"},
		},
		UserGroups: []routing.UserGroup{{
			ID:              "7",
			UserIDs:         []string{"2"},
			HostGroupRights: map[string]int{"2": 3},
		}},
		Users: []routing.User{
			{ID: "1", Username: "root", FullName: "Super Admin", RoleType: routing.RoleSuperAdmin,
				ActiveMedia: map[string]string{"1": "root@example.com"}},
			{ID: "2", Username: "ops", FullName: "Ops User", RoleType: "1", GroupIDs: nil},
		},
	}
}

func TestResolveWildcardScenario(t *testing.T) {
	resolver := NewResolver(nil)
	result := resolver.Resolve(testSnapshot(), Options{})

	require.Len(t, result.Triggers, 1)
	trigger := result.Triggers[0]
	assert.Equal(t, "700", trigger.TriggerID)

	// One wildcard problem operation and two active media types.
	require.Len(t, trigger.Messages, 2)
	assert.Equal(t, "Email", trigger.Messages[0].MediaTypeName)
	assert.Equal(t, "SMS", trigger.Messages[1].MediaTypeName)
	for _, msg := range trigger.Messages {
		assert.Equal(t, "problem", msg.PhaseLabel)
		assert.Equal(t, "0", msg.StartOffset)
		assert.Equal(t, routing.RepeatInfinite, msg.RepeatCount)
	}
}

func TestResolveRecipientRights(t *testing.T) {
	resolver := NewResolver(nil)
	result := resolver.Resolve(testSnapshot(), Options{})

	msgs := result.Triggers[0].Messages
	require.Len(t, msgs, 2)
	require.Len(t, msgs[0].Recipients, 2)

	admin := msgs[0].Recipients[0]
	assert.Equal(t, "root", admin.Username)
	assert.True(t, admin.HasRight)
	assert.True(t, admin.Show)
	assert.True(t, admin.ReachableViaMedia, "email media is active for the admin")

	// The ops user is reached through the targeted group and inherits its
	// host-group rights.
	ops := msgs[0].Recipients[1]
	assert.Equal(t, "ops", ops.Username)
	assert.True(t, ops.HasRight)
	assert.False(t, ops.ReachableViaMedia)

	// Message on SMS: the admin has no SMS media configured.
	assert.False(t, msgs[1].Recipients[0].ReachableViaMedia)
}

func TestResolveShowUnavailable(t *testing.T) {
	snap := testSnapshot()
	// Point the group's rights at an unrelated host group so the ops user
	// loses the right to see the trigger.
	snap.UserGroups[0].HostGroupRights = map[string]int{"99": 3}
	resolver := NewResolver(nil)

	hidden := resolver.Resolve(snap, Options{})
	ops := hidden.Triggers[0].Messages[0].Recipients[1]
	assert.False(t, ops.HasRight)
	assert.False(t, ops.Show)

	shown := resolver.Resolve(snap, Options{ShowUnavailable: true})
	ops = shown.Triggers[0].Messages[0].Recipients[1]
	assert.False(t, ops.HasRight)
	assert.True(t, ops.Show)
}

func TestResolveSkipsUnevaluableAction(t *testing.T) {
	snap := testSnapshot()
	snap.Actions = append(snap.Actions, routing.Action{
		ID:   "31",
		Name: "Broken priority filter",
		Filter: &routing.Filter{
			EvalFormula: "A",
			Conditions: []routing.Condition{{
				Type:      routing.ConditionPriority,
				Operator:  routing.OperatorGreaterOrEqual,
				Value:     "high",
				FormulaID: "A",
			}},
		},
	})

	result := NewResolver(nil).Resolve(snap, Options{})
	require.Len(t, result.SkippedActions, 1)
	skipped := result.SkippedActions[0]
	assert.Equal(t, "31", skipped.ActionID)
	assert.Equal(t, "700", skipped.TriggerID)
	assert.Contains(t, skipped.Reason, "numbers")

	// The healthy action still routes.
	assert.Len(t, result.Triggers[0].Messages, 2)
}

func TestResolveDeterministic(t *testing.T) {
	resolver := NewResolver(nil)
	snap := testSnapshot()

	first, err := json.Marshal(resolver.Resolve(snap, Options{}))
	require.NoError(t, err)
	second, err := json.Marshal(resolver.Resolve(snap, Options{}))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveCounts(t *testing.T) {
	result := NewResolver(nil).Resolve(testSnapshot(), Options{})
	assert.Equal(t, 1, result.TriggerCount())
	assert.Equal(t, 2, result.MessageCount())
	assert.Equal(t, 4, result.RecipientCount())
}
