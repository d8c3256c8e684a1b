package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSeedMemoryStore(t *testing.T) {
	t.Setenv("SEED_CATALOG", "false")

	out := runCLI(t, "seed", "--store", "memory", "--log-level", "error")
	assert.Contains(t, out, "Inserted 5 products.")
}

func TestOrdersEmptyStore(t *testing.T) {
	out := runCLI(t, "orders", "--store", "memory", "--log-level", "error", "--user", "5511999990000")
	assert.Contains(t, out, "No orders found.")
}
