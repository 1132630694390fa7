package logme

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var isDebugMode bool = os.Getenv("DEBUG") == "1"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	debugPrefix = color.New(color.FgCyan).Sprint("[DEBUG] ")
	warnPrefix  = color.New(color.FgYellow).Sprint("[WARN] ")
)

// SetDebug toggles debug output regardless of the DEBUG environment variable.
func SetDebug(enabled bool) {
	isDebugMode = enabled
}

// SetOutput redirects both streams, mostly for tests.
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
}

func DebugF(msg string, args ...interface{}) {
	// check if ENV DEBUG is 1
	if isDebugMode {
		fmt.Fprint(stdout, debugPrefix)
		fmt.Fprintf(stdout, msg, args...)
	}
}

func DebugFln(msg string, args ...interface{}) {
	if isDebugMode {
		fmt.Fprint(stdout, debugPrefix)
		fmt.Fprintf(stdout, msg+"\n", args...)
	}
}

func Debugln(args ...interface{}) {
	// check if ENV DEBUG is 1
	if isDebugMode {
		fmt.Fprint(stdout, debugPrefix)
		fmt.Fprintln(stdout, args...)
	}
}

func InfoF(msg string, args ...interface{}) {
	fmt.Fprintf(stdout, msg, args...)
}

func Infoln(arg ...interface{}) {
	fmt.Fprintln(stdout, arg...)
}

func WarnFln(msg string, args ...interface{}) {
	fmt.Fprint(stderr, warnPrefix)
	fmt.Fprintf(stderr, msg+"\n", args...)
}

func ErrorF(msg string, args ...interface{}) {
	fmt.Fprintf(stderr, msg, args...)
}

func Errorln(arg ...interface{}) {
	fmt.Fprintln(stderr, color.RedString("error:"), fmt.Sprint(arg...))
}
