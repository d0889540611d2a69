// Package gui renders a running console to an SDL2 window and forwards
// keyboard input to its two controller ports.
package gui

import (
	"fmt"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/yoshiomiyamae/gones2c02/pkg/input"
	"github.com/yoshiomiyamae/gones2c02/pkg/logger"
	"github.com/yoshiomiyamae/gones2c02/pkg/nes"
	"github.com/yoshiomiyamae/gones2c02/pkg/video"
)

const (
	WindowWidth  = video.Width * 3
	WindowHeight = video.Height * 3
	WindowTitle  = "gones2c02"

	// TargetFPS is the NES's actual NTSC frame rate: 1789773/29780.5.
	TargetFPS = 60.0988
)

// FrameTime is the wall-clock budget for one frame at TargetFPS.
var FrameTime = time.Duration(16639267) * time.Nanosecond

// NESGUI owns the SDL window/renderer/texture and pumps keyboard events
// into a running console.
type NESGUI struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	nes      *nes.NES
	running  bool

	screenshotNum int

	fpsCounter int
	fpsTimer   time.Time
	currentFPS float64
	showFPS    bool
}

// NewNESGUI creates an SDL window and texture sized for the NES's
// 256x240 frame, scaled 3x.
func NewNESGUI(nesSystem *nes.NES) (*NESGUI, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	window, err := sdl.CreateWindow(
		WindowTitle,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		WindowWidth,
		WindowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, err
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.Width,
		video.Height,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}
	texture.SetBlendMode(sdl.BLENDMODE_NONE)

	gui := &NESGUI{
		window:   window,
		renderer: renderer,
		texture:  texture,
		nes:      nesSystem,
		running:  true,
		fpsTimer: time.Now(),
		showFPS:  true,
	}

	return gui, nil
}

// Destroy releases SDL resources.
func (g *NESGUI) Destroy() {
	if g.texture != nil {
		g.texture.Destroy()
	}
	if g.renderer != nil {
		g.renderer.Destroy()
	}
	if g.window != nil {
		g.window.Destroy()
	}
	sdl.Quit()
}

// Run pumps events, steps one frame, and presents it, paced to TargetFPS
// by measuring elapsed wall-clock time against the frame count rather than
// sleeping a fixed duration every iteration (which drifts under Sleep()'s
// own inaccuracy).
func (g *NESGUI) Run() {
	frameCount := 0
	startTime := time.Now()

	for g.running {
		g.handleEvents()
		g.update()
		g.render()

		frameCount++
		targetEndTime := startTime.Add(time.Duration(frameCount) * FrameTime)
		if now := time.Now(); now.Before(targetEndTime) {
			time.Sleep(targetEndTime.Sub(now))
		}
	}
}

func (g *NESGUI) handleEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			g.running = false
		case *sdl.KeyboardEvent:
			g.handleKeyboard(e)
		}
	}
}

// handleKeyboard maps keyboard input onto controller 1. Controller 2 has
// no keyboard binding; it exists for games/peripherals exercised via a
// future second input source.
func (g *NESGUI) handleKeyboard(event *sdl.KeyboardEvent) {
	pressed := event.State == sdl.PRESSED
	port1 := &g.nes.Input.Port1

	switch event.Keysym.Sym {
	case sdl.K_z:
		port1.SetButton(input.ButtonMaskA, pressed)
	case sdl.K_x:
		port1.SetButton(input.ButtonMaskB, pressed)
	case sdl.K_a:
		port1.SetButton(input.ButtonMaskSelect, pressed)
	case sdl.K_s:
		port1.SetButton(input.ButtonMaskStart, pressed)
	case sdl.K_UP:
		port1.SetButton(input.ButtonMaskUp, pressed)
	case sdl.K_DOWN:
		port1.SetButton(input.ButtonMaskDown, pressed)
	case sdl.K_LEFT:
		port1.SetButton(input.ButtonMaskLeft, pressed)
	case sdl.K_RIGHT:
		port1.SetButton(input.ButtonMaskRight, pressed)
	case sdl.K_ESCAPE:
		g.running = false
	case sdl.K_F12:
		if pressed {
			g.saveScreenshot()
		}
	case sdl.K_F3:
		if pressed {
			g.showFPS = !g.showFPS
		}
	}
}

func (g *NESGUI) update() {
	g.nes.StepFrame()
	g.updateFPS()
}

func (g *NESGUI) render() {
	rgba := g.nes.Video.RGBA()

	g.texture.Update(nil, unsafe.Pointer(&rgba[0]), video.Width*4)

	g.renderer.SetDrawColor(0, 0, 0, 255)
	g.renderer.Clear()
	g.renderer.Copy(g.texture, nil, nil)

	if g.showFPS {
		g.updateWindowTitle()
	}

	g.renderer.Present()
}

func (g *NESGUI) saveScreenshot() {
	filename := fmt.Sprintf("screenshot_%03d.raw", g.screenshotNum)
	g.screenshotNum++

	w, h, _ := g.renderer.GetOutputSize()
	pixels := make([]byte, w*h*4)
	if err := g.renderer.ReadPixels(nil, sdl.PIXELFORMAT_RGBA8888, unsafe.Pointer(&pixels[0]), int(w*4)); err != nil {
		logger.LogError("failed to read pixels: %v", err)
		return
	}

	file, err := os.Create(filename)
	if err != nil {
		logger.LogError("failed to create screenshot file %s: %v", filename, err)
		return
	}
	defer file.Close()

	if _, err := file.Write(pixels); err != nil {
		logger.LogError("failed to write screenshot file %s: %v", filename, err)
	}
}

func (g *NESGUI) updateFPS() {
	g.fpsCounter++

	elapsed := time.Since(g.fpsTimer)
	if elapsed >= 500*time.Millisecond {
		g.currentFPS = float64(g.fpsCounter) / elapsed.Seconds()
		g.fpsCounter = 0
		g.fpsTimer = time.Now()
	}
}

func (g *NESGUI) updateWindowTitle() {
	g.window.SetTitle(fmt.Sprintf("%s - FPS: %.1f", WindowTitle, g.currentFPS))
}
