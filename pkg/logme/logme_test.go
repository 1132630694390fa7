package logme

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestDebugIsGated(t *testing.T) {
	color.NoColor = true
	origOut, origErr := stdout, stderr
	defer SetOutput(origOut, origErr)
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)

	SetDebug(false)
	DebugFln("hidden %d", 1)
	require.Empty(t, out.String())

	SetDebug(true)
	defer SetDebug(false)
	DebugFln("shown %d", 2)
	require.Contains(t, out.String(), "shown 2\n")
}

func TestWarningsAndErrorsGoToStderr(t *testing.T) {
	color.NoColor = true
	origOut, origErr := stdout, stderr
	defer SetOutput(origOut, origErr)
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)

	WarnFln("ignoring %s", "value")
	Errorln("boom")
	Infoln("done")

	require.Equal(t, "done\n", out.String())
	require.Contains(t, errOut.String(), "ignoring value\n")
	require.Contains(t, errOut.String(), "boom\n")
}
