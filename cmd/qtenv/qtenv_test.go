//go:build !windows

package main

import (
	"bytes"
	"os"
	"syscall"
	"testing"

	"github.com/qtgo/qrc/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	env, err := plugin.Config{
		SearchPath:       []string{"/opt/qt/plugins", "/usr/lib/qt/plugins"},
		NoSignalHandlers: true,
	}.Environ()
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, Print(&b, env))
	assert.Equal(t, "QT_PLUGIN_PATH=/opt/qt/plugins:/usr/lib/qt/plugins\nQT_QPA_NO_SIGNAL_HANDLER=1\n", b.String())
}

func TestRun(t *testing.T) {
	t.Setenv(plugin.EnvPluginPath, "/inherited")

	// the child sees the configured value, not the inherited one
	code, err := Run([]string{"QT_PLUGIN_PATH=/configured"}, []string{"sh", "-c", `test "$QT_PLUGIN_PATH" = /configured`})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = Run(nil, []string{"sh", "-c", "exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	code, err = Run(nil, []string{"sh", "-c", "kill -TERM $$"})
	require.NoError(t, err)
	assert.Equal(t, 128+int(syscall.SIGTERM), code)

	assert.Equal(t, "/inherited", os.Getenv(plugin.EnvPluginPath))

	_, err = Run(nil, []string{"/nonexistent/qt-app"})
	assert.Error(t, err)
}
