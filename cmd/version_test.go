package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npow/galactic-uprising/internal/content"
)

func TestPrintVersionSummarizesContent(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)

	var out bytes.Buffer
	printVersion(&out, cat)

	assert.Contains(t, out.String(), "galactic dev (none, built unknown")
	assert.Contains(t, out.String(), "content: 32 systems, 15 unit types, 14 objectives, 14 turns")
	assert.Contains(t, out.String(), "Dominion: 6 leaders, 10 missions, 6 tactic cards")
	assert.Contains(t, out.String(), "Liberation: 6 leaders, 10 missions, 6 tactic cards")
}
