package main

import (
	"os"
	"path/filepath"
	"testing"

	"pagecheck/internal/check"

	"github.com/stretchr/testify/require"
)

func TestInitWritesLoadableSuite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(initCmd, []string{dir}))

	path := filepath.Join(dir, "checks.yaml")
	suite, err := check.LoadSuite(path)
	require.NoError(t, err)

	require.Equal(t, "dashboard", suite.Name)
	require.Len(t, suite.Checks, 1)

	c := suite.Checks[0]
	require.Equal(t, "impact-section", c.Name)
	require.Equal(t, "http://localhost:3000", c.URL)
	require.Equal(t, "#impact", c.Section)
	require.Equal(t, ".metric-counter", c.CountSelector)
	require.NotNil(t, c.ExpectCount)
	require.Equal(t, 3, *c.ExpectCount)
	require.Equal(t, ".text-2xl.font-bold", c.TextSelector)
	require.Equal(t, "impact-section.png", c.Screenshot)
	require.Equal(t, "animated metrics", c.GetCountLabel())
	require.Equal(t, "Mini metrics", c.GetTextLabel())
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: precious\n"), 0o644))

	err := runInit(initCmd, []string{dir})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	// --force replaces it.
	initForce = true
	defer func() { initForce = false }()
	require.NoError(t, runInit(initCmd, []string{dir}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "impact-section")
}
