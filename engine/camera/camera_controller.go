package camera

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// KeyState is the polled input a CameraController reads each tick.
// window.InputState satisfies it.
type KeyState interface {
	KeyDown(keyCode uint32) bool
	Cursor() (x, y float64)
}

// CameraController moves a Camera from keyboard input. W/S move along z and A/D along x
// while held, scaled by the tick duration and the controller speed. Space logs the
// cursor position.
type CameraController interface {
	// Update applies the movement of every held key for a tick of dt seconds.
	//
	// Parameters:
	//   - dt: seconds since the previous tick
	//   - input: the polled key state
	Update(dt float32, input KeyState)

	// HandleKeyDown reacts to one-shot key presses.
	//
	// Parameters:
	//   - keyCode: the pressed key
	//   - input: the polled input state, used for the cursor position
	HandleKeyDown(keyCode uint32, input KeyState)

	// Camera returns the controlled camera.
	Camera() Camera

	// Speed returns the movement speed in world units per second.
	Speed() float32

	// SetSpeed sets the movement speed in world units per second.
	SetSpeed(speed float32)
}

type cameraControllerImpl struct {
	mu     *sync.Mutex
	camera Camera
	speed  float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a keyboard controller for cam moving one world unit per second.
//
// Parameters:
//   - cam: the camera to move
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		speed:  1,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Update(dt float32, input KeyState) {
	if input == nil {
		return
	}
	cc.mu.Lock()
	step := dt * cc.speed
	cc.mu.Unlock()

	var dx, dz float32
	if input.KeyDown(common.KeyW) {
		dz += step
	}
	if input.KeyDown(common.KeyS) {
		dz -= step
	}
	if input.KeyDown(common.KeyA) {
		dx -= step
	}
	if input.KeyDown(common.KeyD) {
		dx += step
	}
	if dx != 0 || dz != 0 {
		cc.camera.Translate(dx, 0, dz)
	}
}

func (cc *cameraControllerImpl) HandleKeyDown(keyCode uint32, input KeyState) {
	if keyCode != common.KeySpace || input == nil {
		return
	}
	x, y := input.Cursor()
	log.Printf("[Camera] cursor at (%.1f, %.1f)", x, y)
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) SetSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.speed = speed
}
