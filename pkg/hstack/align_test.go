package hstack

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignerEnviron(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	sep := string(os.PathListSeparator)

	a := NewAligner(nil)
	assert.Equal(t, os.Environ(), a.environ())

	a.ExtraPaths = []string{"/opt/hugin/bin", "/opt/other"}
	want := "PATH=/usr/bin" + sep + "/opt/hugin/bin" + sep + "/opt/other"

	var got string
	for _, kv := range a.environ() {
		if strings.HasPrefix(kv, "PATH=") {
			got = kv
		}
	}
	assert.Equal(t, want, got)
}
