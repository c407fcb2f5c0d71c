package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestKeyCodesMatchGLFW(t *testing.T) {
	assert.Equal(t, glfw.KeyW, glfw.Key(common.KeyW))
	assert.Equal(t, glfw.KeyA, glfw.Key(common.KeyA))
	assert.Equal(t, glfw.KeyS, glfw.Key(common.KeyS))
	assert.Equal(t, glfw.KeyD, glfw.Key(common.KeyD))
	assert.Equal(t, glfw.KeySpace, glfw.Key(common.KeySpace))
	assert.Equal(t, glfw.KeyEscape, glfw.Key(common.KeyEsc))
}

func TestCloseRequested(t *testing.T) {
	tests := []struct {
		name   string
		key    glfw.Key
		action glfw.Action
		want   bool
	}{
		{"escape press", glfw.KeyEscape, glfw.Press, true},
		{"escape repeat", glfw.KeyEscape, glfw.Repeat, false},
		{"escape release", glfw.KeyEscape, glfw.Release, false},
		{"other key", glfw.KeyW, glfw.Press, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, closeRequested(tt.key, tt.action))
		})
	}
}
