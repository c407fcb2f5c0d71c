package camera

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/stretchr/testify/assert"
)

type fakeKeys struct {
	down   map[uint32]bool
	cx, cy float64
}

func (f *fakeKeys) KeyDown(keyCode uint32) bool { return f.down[keyCode] }
func (f *fakeKeys) Cursor() (x, y float64)      { return f.cx, f.cy }

func TestControllerMovesWhileKeysHeld(t *testing.T) {
	tests := []struct {
		name string
		keys []uint32
		want [3]float32
	}{
		{"forward", []uint32{common.KeyW}, [3]float32{0, 0, 1}},
		{"back", []uint32{common.KeyS}, [3]float32{0, 0, -1}},
		{"left", []uint32{common.KeyA}, [3]float32{-1, 0, 0}},
		{"right", []uint32{common.KeyD}, [3]float32{1, 0, 0}},
		{"opposing keys cancel", []uint32{common.KeyW, common.KeyS}, [3]float32{}},
		{"diagonal", []uint32{common.KeyW, common.KeyD}, [3]float32{1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := &fakeKeys{down: map[uint32]bool{}}
			for _, k := range tt.keys {
				keys.down[k] = true
			}
			cc := NewCameraController(NewCamera(), WithSpeed(2))
			cc.Update(0.5, keys)
			assert.Equal(t, tt.want, cc.Camera().Position())
		})
	}
}

func TestControllerNilInput(t *testing.T) {
	cc := NewCameraController(NewCamera())
	cc.Update(1, nil)
	cc.HandleKeyDown(common.KeySpace, nil)
	assert.Equal(t, [3]float32{}, cc.Camera().Position())
	assert.Equal(t, float32(1), cc.Speed())
	cc.SetSpeed(3)
	assert.Equal(t, float32(3), cc.Speed())
}

func TestControllerSpaceLogsCursor(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cc := NewCameraController(NewCamera())
	keys := &fakeKeys{cx: 12, cy: 34.5}
	cc.HandleKeyDown(common.KeyW, keys)
	assert.Empty(t, buf.String())

	cc.HandleKeyDown(common.KeySpace, keys)
	assert.Contains(t, buf.String(), "[Camera] cursor at (12.0, 34.5)")
}
