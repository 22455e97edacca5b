package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:   config.EnvDevelopment,
		Store: config.StoreConfig{Backend: config.StoreBackendMemory},
	}
}

func TestRunStatus(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), memoryConfig(), []string{"--store", "memory", "status"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "mode: local")
}

func TestRunExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(context.Background(), memoryConfig(), []string{"bogus"}, &stdout, &stderr))
	assert.Equal(t, 2, run(context.Background(), memoryConfig(), []string{"--nope"}, &stdout, &stderr))

	stderr.Reset()
	assert.Equal(t, 1, run(context.Background(), memoryConfig(), []string{"whoami"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "UNAUTHORIZED")
}
