package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.0.0")
	assert.Contains(t, buf.String(), "billing network 1.0.0")
	assert.Contains(t, buf.String(), "|_|")
}
