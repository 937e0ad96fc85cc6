package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserID(t *testing.T) {
	id, err := parseUserID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseUserID(bad)
		assert.Error(t, err, bad)
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	cmd, _, err := root.Find([]string{"season", "open"})
	require.NoError(t, err)
	assert.Equal(t, "open", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("days"))

	cmd, _, err = root.Find([]string{"subscription", "deactivate"})
	require.NoError(t, err)
	assert.Equal(t, "deactivate", cmd.Name())
}

func TestSubscriptionRequiresUserID(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"subscription", "activate"})
	assert.Error(t, root.Execute())
}
