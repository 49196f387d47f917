package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home := "/home/tester"
	require.Equal(t, "/home/tester/x/y", expandHome("~/x/y", home))
	require.Equal(t, "/abs/path", expandHome("/abs/path", home))
	require.Equal(t, "~", expandHome("~", home))
	require.Equal(t, "~weird", expandHome("~weird", home))
}
