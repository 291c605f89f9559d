package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGormConfig_TranslatesDriverErrors(t *testing.T) {
	cfg := newGormConfig()

	// Without this, a Postgres unique violation reaches callers as a raw
	// driver error instead of gorm.ErrDuplicatedKey, and duplicate-key
	// creates would answer 500 instead of 409.
	assert.True(t, cfg.TranslateError)
	assert.NotNil(t, cfg.Logger)
}
