package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

const apiKeyPrefix = "prfk_"

type APIKeyInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	CreatedBy     *string `json:"created_by"`
	IsActive      *bool   `json:"is_active"`
	ExpiresInDays *int    `json:"expires_in_days"`
	ExpiresAt     *string `json:"expires_at"`
}

// APIKeyCreated carries the raw key. It is returned exactly once.
type APIKeyCreated struct {
	KeyID       string     `json:"key_id"`
	APIKey      string     `json:"api_key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"created_by"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type APIKeyRotated struct {
	KeyID       string     `json:"key_id"`
	APIKey      string     `json:"api_key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"created_by"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	RotatedAt   time.Time  `json:"rotated_at"`
}

type APIKeyRevoked struct {
	KeyID     string    `json:"key_id"`
	IsActive  bool      `json:"is_active"`
	RevokedAt time.Time `json:"revoked_at"`
}

type APIKeyDeleted struct {
	KeyID     string    `json:"key_id"`
	Deleted   bool      `json:"deleted"`
	DeletedAt time.Time `json:"deleted_at"`
}

type APIKeyValidated struct {
	Valid       bool       `json:"valid"`
	KeyID       string     `json:"key_id"`
	Name        string     `json:"name"`
	ExpiresAt   *time.Time `json:"expires_at"`
	ValidatedAt time.Time  `json:"validated_at"`
}

// AuthService manages API keys and authenticates requests. Raw keys are shown
// once at creation or rotation; only SHA-256 hashes are stored.
type AuthService interface {
	Authenticate(ctx context.Context, rawKey string) (*types.APIKey, error)
	CreateKey(ctx context.Context, input APIKeyInput) (*APIKeyCreated, error)
	ListKeys(ctx context.Context) ([]*types.APIKey, error)
	GetKey(ctx context.Context, keyID string) (*types.APIKey, error)
	UpdateKey(ctx context.Context, keyID string, input APIKeyInput) (*types.APIKey, error)
	DeleteKey(ctx context.Context, keyID string) (*APIKeyDeleted, error)
	RevokeKey(ctx context.Context, keyID string) (*APIKeyRevoked, error)
	RotateKey(ctx context.Context, keyID string) (*APIKeyRotated, error)
	Validate(ctx context.Context, rawKey string) (*APIKeyValidated, error)
	Bootstrap(ctx context.Context, rawKey string) error
}

type authService struct {
	log  *logger.Logger
	keys repos.APIKeyRepo
}

func NewAuthService(log *logger.Logger, keys repos.APIKeyRepo) AuthService {
	return &authService{
		log:  log.With("service", "AuthService"),
		keys: keys,
	}
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}

func (s *authService) Authenticate(ctx context.Context, rawKey string) (*types.APIKey, error) {
	key, err := s.keys.GetByHash(ctx, nil, hashSecret(rawKey))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid API key")
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !key.IsActive {
		return nil, apperr.Unauthorized("API key is inactive")
	}
	if key.Expired(now) {
		return nil, apperr.Unauthorized("API key is expired")
	}

	if err := s.keys.TouchLastUsed(ctx, nil, key, now); err != nil {
		s.log.Warn("Failed to update key last_used_at", "key_id", key.KeyID, "error", err)
	}
	return key, nil
}

func (s *authService) CreateKey(ctx context.Context, input APIKeyInput) (*APIKeyCreated, error) {
	errs := apperr.FieldErrors{}
	if input.Name == nil || *input.Name == "" {
		errs["name"] = "name is required"
	}
	if input.CreatedBy == nil || *input.CreatedBy == "" {
		errs["created_by"] = "created_by is required"
	}
	if errs.HasErrors() {
		return nil, errs
	}

	rawKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key := &types.APIKey{
		KeyID:     uuid.New().String(),
		KeyHash:   hashSecret(rawKey),
		Name:      *input.Name,
		CreatedBy: *input.CreatedBy,
		IsActive:  true,
	}
	if input.Description != nil {
		key.Description = *input.Description
	}
	if input.ExpiresInDays != nil && *input.ExpiresInDays > 0 {
		expiresAt := now.AddDate(0, 0, *input.ExpiresInDays)
		key.ExpiresAt = &expiresAt
	}

	if err := s.keys.Create(ctx, nil, key); err != nil {
		s.log.Error("Failed to create API key", "error", err)
		return nil, err
	}
	s.log.Info("API key created", "key_id", key.KeyID, "name", key.Name)

	return &APIKeyCreated{
		KeyID:       key.KeyID,
		APIKey:      rawKey,
		Name:        key.Name,
		Description: key.Description,
		CreatedBy:   key.CreatedBy,
		IsActive:    key.IsActive,
		ExpiresAt:   key.ExpiresAt,
		CreatedAt:   key.CreatedAt,
	}, nil
}

func (s *authService) ListKeys(ctx context.Context) ([]*types.APIKey, error) {
	return s.keys.List(ctx, nil)
}

func (s *authService) GetKey(ctx context.Context, keyID string) (*types.APIKey, error) {
	return s.keys.GetByKeyID(ctx, nil, keyID)
}

func (s *authService) UpdateKey(ctx context.Context, keyID string, input APIKeyInput) (*types.APIKey, error) {
	key, err := s.keys.GetByKeyID(ctx, nil, keyID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.Name != nil {
		key.Name = *input.Name
		changed = true
	}
	if input.Description != nil {
		key.Description = *input.Description
		changed = true
	}
	if input.IsActive != nil {
		key.IsActive = *input.IsActive
		changed = true
	}
	if input.ExpiresAt != nil {
		if *input.ExpiresAt == "" {
			key.ExpiresAt = nil
		} else {
			parsed, err := time.Parse(time.RFC3339, *input.ExpiresAt)
			if err != nil {
				return nil, apperr.Invalid("Invalid expires_at format. Use ISO 8601 format")
			}
			key.ExpiresAt = &parsed
		}
		changed = true
	}

	if changed {
		key.UpdatedAt = time.Now().UTC()
		if err := s.keys.Save(ctx, nil, key); err != nil {
			s.log.Error("Failed to update API key", "key_id", keyID, "error", err)
			return nil, err
		}
	}
	return key, nil
}

func (s *authService) DeleteKey(ctx context.Context, keyID string) (*APIKeyDeleted, error) {
	key, err := s.keys.GetByKeyID(ctx, nil, keyID)
	if err != nil {
		return nil, err
	}
	if err := s.keys.Delete(ctx, nil, key); err != nil {
		s.log.Error("Failed to delete API key", "key_id", keyID, "error", err)
		return nil, err
	}
	return &APIKeyDeleted{
		KeyID:     keyID,
		Deleted:   true,
		DeletedAt: time.Now().UTC(),
	}, nil
}

func (s *authService) RevokeKey(ctx context.Context, keyID string) (*APIKeyRevoked, error) {
	key, err := s.keys.GetByKeyID(ctx, nil, keyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key.IsActive = false
	key.UpdatedAt = now
	if err := s.keys.Save(ctx, nil, key); err != nil {
		s.log.Error("Failed to revoke API key", "key_id", keyID, "error", err)
		return nil, err
	}
	s.log.Info("API key revoked", "key_id", keyID)

	return &APIKeyRevoked{KeyID: keyID, IsActive: false, RevokedAt: now}, nil
}

func (s *authService) RotateKey(ctx context.Context, keyID string) (*APIKeyRotated, error) {
	key, err := s.keys.GetByKeyID(ctx, nil, keyID)
	if err != nil {
		return nil, err
	}

	rawKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key.KeyHash = hashSecret(rawKey)
	key.UpdatedAt = now
	if err := s.keys.Save(ctx, nil, key); err != nil {
		s.log.Error("Failed to rotate API key", "key_id", keyID, "error", err)
		return nil, err
	}
	s.log.Info("API key rotated", "key_id", keyID)

	return &APIKeyRotated{
		KeyID:       key.KeyID,
		APIKey:      rawKey,
		Name:        key.Name,
		Description: key.Description,
		CreatedBy:   key.CreatedBy,
		IsActive:    key.IsActive,
		ExpiresAt:   key.ExpiresAt,
		RotatedAt:   now,
	}, nil
}

func (s *authService) Validate(ctx context.Context, rawKey string) (*APIKeyValidated, error) {
	key, err := s.Authenticate(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	return &APIKeyValidated{
		Valid:       true,
		KeyID:       key.KeyID,
		Name:        key.Name,
		ExpiresAt:   key.ExpiresAt,
		ValidatedAt: time.Now().UTC(),
	}, nil
}

// Bootstrap seeds an initial key from the environment when no keys exist yet.
func (s *authService) Bootstrap(ctx context.Context, rawKey string) error {
	if rawKey == "" {
		return nil
	}
	count, err := s.keys.Count(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	key := &types.APIKey{
		KeyID:       uuid.New().String(),
		KeyHash:     hashSecret(rawKey),
		Name:        "bootstrap",
		Description: "Initial key seeded from the environment",
		CreatedBy:   "system",
		IsActive:    true,
	}
	if err := s.keys.Create(ctx, nil, key); err != nil {
		return err
	}
	s.log.Info("Bootstrap API key seeded", "key_id", key.KeyID)
	return nil
}
