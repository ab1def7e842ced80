package framework

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerSharesOutputWithChildren(t *testing.T) {
	parent := &CapturingLogger{}
	parent.Printf("before %d", 1)

	child := &CapturingLogger{}
	parent.AddChildLogger(child)
	parent.Println("during")
	child.Println("child only")
	parent.RemoveChildLogger(child)
	parent.Println("after")

	var childMessages []string
	for _, m := range child.Output() {
		childMessages = append(childMessages, m.Message)
	}
	assert.Equal(t, []string{"before 1", "during", "child only"}, childMessages)

	var parentMessages []string
	for _, m := range parent.Output() {
		parentMessages = append(parentMessages, m.Message)
	}
	assert.Equal(t, []string{"before 1", "after"}, parentMessages)
}

func TestCapturedOutputToString(t *testing.T) {
	l := &CapturingLogger{}
	l.Println("a")
	l.Println("b")
	s := l.Output().ToString("  ")
	assert.Regexp(t, `^  \[[^\]]+\] a\n  \[[^\]]+\] b$`, s)
}

func TestLoggerWithPrefix(t *testing.T) {
	l := &CapturingLogger{}
	p := LoggerWithPrefix(l, "[x] ")
	p.Printf("n=%d", 2)
	p.Println("done")
	out := l.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "[x] n=2", out[0].Message)
	assert.Equal(t, "[x]  done", out[1].Message)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.InfoLevel)

	ZerologLogger(base, zerolog.DebugLevel).Printf("hidden")
	assert.Empty(t, buf.String())

	ZerologLogger(base, zerolog.WarnLevel).Println("shown", 3)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"message":"shown 3"`)
}
