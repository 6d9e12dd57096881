package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, userID uint, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.client, "client is nil")
	assert.Equal(t, "session", repo.prefix)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{
			name:    "success: create session",
			session: createTestSession("session-001", 1, 7*24*time.Hour),
			wantErr: false,
		},
		{
			name:    "failure: expired session",
			session: createTestSession("expired-session", 1, -1*time.Hour),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, mr := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)

				// Verify session exists in Redis with a TTL
				data, err := client.Get(context.Background(), repo.sessionKey(tt.session.ID)).Result()
				assert.NoError(t, err)
				assert.NotEmpty(t, data)
				assert.Greater(t, mr.TTL(repo.sessionKey(tt.session.ID)), time.Duration(0))
			}
		})
	}
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sessionID   string
		setupFunc   func(t *testing.T, repo *SessionRedis)
		wantErr     bool
		expectedErr error
	}{
		{
			name:      "success: find session",
			sessionID: "find-session-id",
			setupFunc: func(t *testing.T, repo *SessionRedis) {
				session := createTestSession("find-session-id", 1, 7*24*time.Hour)
				err := repo.Create(context.Background(), session)
				require.NoError(t, err)
			},
			wantErr: false,
		},
		{
			name:        "failure: session not found",
			sessionID:   "nonexistent-id",
			wantErr:     true,
			expectedErr: usecase.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			if tt.setupFunc != nil {
				tt.setupFunc(t, repo)
			}

			found, err := repo.FindByID(context.Background(), tt.sessionID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, found)
				assert.Equal(t, tt.sessionID, found.ID)
			}
		})
	}
}

func TestSessionRedis_FindByID_ExpiredByTTL(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	session := createTestSession("ttl-session", 1, time.Hour)
	require.NoError(t, repo.Create(context.Background(), session))

	// Redis evicts the key once the TTL elapses
	mr.FastForward(2 * time.Hour)

	_, err := repo.FindByID(context.Background(), "ttl-session")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sessionID   string
		setupFunc   func(t *testing.T, repo *SessionRedis)
		wantErr     bool
		expectedErr error
	}{
		{
			name:      "success: revoke session",
			sessionID: "revoke-session-id",
			setupFunc: func(t *testing.T, repo *SessionRedis) {
				session := createTestSession("revoke-session-id", 1, 7*24*time.Hour)
				err := repo.Create(context.Background(), session)
				require.NoError(t, err)
			},
			wantErr: false,
		},
		{
			name:        "failure: session not found",
			sessionID:   "nonexistent-id",
			wantErr:     true,
			expectedErr: usecase.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			if tt.setupFunc != nil {
				tt.setupFunc(t, repo)
			}

			err := repo.Revoke(context.Background(), tt.sessionID)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				assert.NoError(t, err)

				// Verify session is revoked but still readable
				found, err := repo.FindByID(context.Background(), tt.sessionID)
				assert.NoError(t, err)
				assert.NotNil(t, found.RevokedAt)
				assert.True(t, found.IsRevoked())
			}
		})
	}
}

func TestSessionRedis_KeyGeneration(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "test-prefix")

	assert.Equal(t, "test-prefix:session-id", repo.sessionKey("session-id"))
}
