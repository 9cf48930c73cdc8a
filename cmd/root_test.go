package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	for _, name := range []string{"host", "port", "metrics-addr", "debug"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}

	host, err := cmd.Flags().GetString("host")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", host)

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 12000, port)
}

func TestSetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { SetVersion(orig) })

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "1.2.3", rootCmd.Version)
}
