package gate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaop25/NerdStore/internal/identity/gate"
	"github.com/joaop25/NerdStore/internal/identity/identitytest"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		seed     func(ctx context.Context, t *testing.T, g *gate.Gate)
		wantErr  error
	}{
		{
			name:     "new account succeeds",
			email:    "a@x.com",
			password: "Str0ng!pw",
		},
		{
			name:     "duplicate email is rejected",
			email:    "a@x.com",
			password: "Str0ng!pw",
			seed: func(ctx context.Context, t *testing.T, g *gate.Gate) {
				_, err := g.Register(ctx, "a@x.com", "Str0ng!pw")
				require.NoError(t, err)
			},
			wantErr: gate.ErrRegistrationRejected,
		},
		{
			name:     "weak password is rejected",
			email:    "a@x.com",
			password: "short",
			wantErr:  gate.ErrRegistrationRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			g := gate.New(identitytest.NewStore())
			if tt.seed != nil {
				tt.seed(ctx, t, g)
			}

			id, err := g.Register(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, id)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.email, id.Email)
			assert.True(t, id.EmailConfirmed, "confirmation is bypassed at registration")
			assert.NotEmpty(t, id.ID)
		})
	}
}

func TestLoginOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("correct password yields identity", func(t *testing.T) {
		g := gate.New(identitytest.NewStore())
		registered, err := g.Register(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)

		id, err := g.Login(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, id.ID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		g := gate.New(identitytest.NewStore())
		_, err := g.Register(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)

		id, err := g.Login(ctx, "a@x.com", "wrong-password")
		require.ErrorIs(t, err, gate.ErrInvalidCredentials)
		assert.Nil(t, id)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		g := gate.New(identitytest.NewStore())

		_, err := g.Login(ctx, "nobody@x.com", "whatever1")
		require.ErrorIs(t, err, gate.ErrInvalidCredentials)
	})
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()

	t.Run("fifth consecutive failure locks the account", func(t *testing.T) {
		g := gate.New(identitytest.NewStore())
		_, err := g.Register(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			_, err := g.Login(ctx, "a@x.com", "wrong")
			require.ErrorIs(t, err, gate.ErrInvalidCredentials)
		}

		_, err = g.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, gate.ErrLockedOut)
	})

	t.Run("lockout wins over a correct password", func(t *testing.T) {
		g := gate.New(identitytest.NewStore())
		_, err := g.Register(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			_, _ = g.Login(ctx, "a@x.com", "wrong")
		}

		_, err = g.Login(ctx, "a@x.com", "Str0ng!pw")
		assert.ErrorIs(t, err, gate.ErrLockedOut,
			"locked account must report lockout, not invalid credentials")
	})

	t.Run("successful login resets the failure counter", func(t *testing.T) {
		g := gate.New(identitytest.NewStore())
		_, err := g.Register(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			_, _ = g.Login(ctx, "a@x.com", "wrong")
		}

		_, err = g.Login(ctx, "a@x.com", "Str0ng!pw")
		require.NoError(t, err)

		// counter restarted: one more failure stays a credential error
		_, err = g.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, gate.ErrInvalidCredentials)
	})
}
