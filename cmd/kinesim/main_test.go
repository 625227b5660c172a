package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `{"objects": [
	{"name": "floor", "static": true, "position": [0, -0.5, 0],
	 "components": [{"type": "BoxCollider", "size": [20, 1, 20]}]},
	{"name": "hero", "position": [0, 2, 0], "components": [{"type": "Player", "move": [1, 0, 0]}]}
]}`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(testScene), 0644))
	return path
}

func TestParseOptionsEnvThenFlags(t *testing.T) {
	t.Setenv("KINESIM_TICKS", "42")
	t.Setenv("KINESIM_SCENE", "env.json")

	opts, err := parseOptions([]string{"-scene", "flag.json", "-console=false"})
	require.NoError(t, err)
	assert.Equal(t, 42, opts.Ticks)
	assert.Equal(t, "flag.json", opts.Scene)
	assert.Equal(t, 50, opts.ReportEvery)
	assert.False(t, opts.Console)

	_, err = parseOptions([]string{"-bogus"})
	assert.Error(t, err)
}

func TestRunReportsEntities(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-scene", writeScene(t), "-ticks", "60", "-report-every", "30", "-console=false",
	}, &out)
	require.NoError(t, err)

	logs := out.String()
	assert.Contains(t, logs, `"message":"simulation started"`)
	assert.Contains(t, logs, `"entity":"hero"`)
	assert.Contains(t, logs, `"tick":30`)
	assert.Contains(t, logs, `"state":"walk"`)
	assert.Contains(t, logs, `"message":"simulation finished"`)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, []string{"-scene", writeScene(t), "-console=false"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "simulation interrupted")
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-scene", filepath.Join(t.TempDir(), "none.json")}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read scene")

	err = run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "none.yaml")}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
