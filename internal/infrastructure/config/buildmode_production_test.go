//go:build !dev

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEnvironment_ProductionBuild(t *testing.T) {
	assert.Equal(t, EnvProduction, defaultEnvironment)
	assert.False(t, Default().IsDevelopment())
}
