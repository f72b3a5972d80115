package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Status("OK", "all good")
	assert.Equal(t, "OK all good\n", buf.String())
}

func TestWriter_StatusNoIcon(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Status("", "indented")
	assert.Equal(t, "   indented\n", buf.String())
}

func TestWriter_SuccessWarningError(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Success("php found")
	w.Warning("two services running")
	w.Error("valet missing")

	out := buf.String()
	assert.Contains(t, out, "✅ php found")
	assert.Contains(t, out, "two services running")
	assert.Contains(t, out, "❌ valet missing")
}

func TestWriter_Formatted(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Successf("PHP %s active", "8.3.1")
	w.Linef("checked %d items", 6)

	out := buf.String()
	assert.Contains(t, out, "PHP 8.3.1 active")
	assert.Contains(t, out, "checked 6 items")
}
