package main

import (
	"flag"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-sandbox/engine"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/config"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/shape"
	"github.com/chewxy/math32"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML sandbox config")
	backend := flag.String("backend", "", "renderer backend override: wgpu or gl")
	profile := flag.Bool("profile", false, "log frame and packing statistics")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("[Sandbox] %v", err)
		}
		cfg = loaded
	}
	if *backend != "" {
		cfg.Renderer.Backend = *backend
	}
	if *profile {
		cfg.Engine.Profiling.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Sandbox] %v", err)
	}

	eng := engine.NewEngine(cfg.EngineOptions()...)

	rect := shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1})
	eng.SetRenderCallback(func(float32) []buffer.Renderable {
		t := float32(eng.Window().Time())
		c, s := math32.Cos(t), math32.Sin(t)
		rect.Color = [4]float32{c * c, s * s, c * c, 1}
		return []buffer.Renderable{rect}
	})

	if err := eng.Run(); err != nil {
		log.Printf("[Sandbox] stopped: %v", err)
		os.Exit(1)
	}
}
