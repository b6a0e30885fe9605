package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/internal/testutil"
)

func TestSessionBuilder_PrefilledState(t *testing.T) {
	sess := testutil.NewSessionBuilder("sess-1").
		Persona(testutil.NewPersonaBuilder("writer").Capabilities("draft").Build()).
		Policy(core.RetryPolicy{MaxRetries: 2}).
		History("task", "response").
		Context("topic", "go").
		Build()

	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "writer", sess.Persona.Name)
	assert.True(t, sess.Persona.HasCapability("draft"))
	assert.Equal(t, []string{"task", "response"}, sess.History())

	topic, ok := sess.GetContext("topic")
	require.True(t, ok)
	assert.Equal(t, "go", topic)
}

func TestSessionBuilder_CloneDiverges(t *testing.T) {
	sess := testutil.NewSessionBuilder("sess-1").History("a").Build()

	clone := sess.Clone()
	clone.AppendHistory("b")

	assert.Equal(t, []string{"a"}, sess.History())
	assert.Equal(t, []string{"a", "b"}, clone.History())
}
