package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	out, _, err := executeCommand(t, newVersionCmd(), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "fitstatus "+Version+"\n", out)
}
