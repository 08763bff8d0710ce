package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("phase %d", 2)
	assert.Equal(t, "phase 2", got)

	got = ""
	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("ignored") })
	assert.Empty(t, got)
}

func TestSetWarnLogger(t *testing.T) {
	original := Warnf
	defer func() { Warnf = original }()

	calls := 0
	SetWarnLogger(func(string, ...interface{}) { calls++ })
	Warnf("double press")
	assert.Equal(t, 1, calls)

	SetWarnLogger(nil)
	Warnf("double press")
	assert.Equal(t, 1, calls)
}

func TestMute(t *testing.T) {
	origLog, origWarn := Logf, Warnf
	defer func() { Logf, Warnf = origLog, origWarn }()

	Mute()
	assert.NotPanics(t, func() {
		Logf("x")
		Warnf("y")
	})
}
