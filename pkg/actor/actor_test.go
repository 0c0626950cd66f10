package actor_test

import (
	"context"
	"testing"

	"github.com/shiftboard/shiftboard-backend/pkg/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActor_IsPrivileged(t *testing.T) {
	tests := []struct {
		name  string
		actor *actor.Actor
		want  bool
	}{
		{"nil actor", nil, false},
		{"admin", &actor.Actor{ID: "u1", Role: "admin"}, true},
		{"manager any case", &actor.Actor{ID: "u1", Role: "Manager"}, true},
		{"employee", &actor.Actor{ID: "u1", Role: "employee"}, false},
		{"no role", &actor.Actor{ID: "u1"}, false},
		{"system", actor.SystemActor(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.IsPrivileged())
		})
	}
}

func TestActor_IDPtr(t *testing.T) {
	var nilActor *actor.Actor
	assert.Nil(t, nilActor.IDPtr())
	assert.Nil(t, actor.SystemActor().IDPtr())

	id := (&actor.Actor{ID: "user-1"}).IDPtr()
	require.NotNil(t, id)
	assert.Equal(t, "user-1", *id)
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, actor.FromContext(context.Background()))

	a := &actor.Actor{ID: "user-1", Role: actor.RoleManager}
	ctx := actor.WithActor(context.Background(), a)
	assert.Same(t, a, actor.FromContext(ctx))
}

func TestActor_String(t *testing.T) {
	var nilActor *actor.Actor
	assert.Equal(t, "system", nilActor.String())
	assert.Equal(t, "u1 <a@b.c> [admin]", (&actor.Actor{ID: "u1", Email: "a@b.c", Role: "admin"}).String())
	assert.Equal(t, "u1 [employee]", (&actor.Actor{ID: "u1", Role: "employee"}).String())
}
