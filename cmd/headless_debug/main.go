package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/yoshiomiyamae/gones2c02/pkg/cartridge"
	"github.com/yoshiomiyamae/gones2c02/pkg/logger"
	"github.com/yoshiomiyamae/gones2c02/pkg/nes"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: headless_debug <rom_file> [frames]")
		os.Exit(1)
	}

	romFile := os.Args[1]
	maxFrames := 10
	if len(os.Args) >= 3 {
		fmt.Sscanf(os.Args[2], "%d", &maxFrames)
	}

	if err := logger.Initialize(logger.LogLevelDebug, ""); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	file, err := os.Open(romFile)
	if err != nil {
		log.Fatalf("failed to open ROM file: %v", err)
	}
	defer file.Close()

	cart, err := cartridge.LoadFromReader(file, filepath.Base(romFile))
	if err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)
	logger.LogInfo("=== Headless Debug Mode ===")
	logger.LogInfo("ROM: %s", romFile)
	logger.LogInfo("Mapper: %d", mapperNumber)
	logger.LogInfo("Max frames to run: %d", maxFrames)

	nesSystem := nes.New()
	nesSystem.LoadCartridge(cart)
	nesSystem.Reset()

	logger.LogInfo("=== Initial State ===")
	logger.LogInfo("Frame: %d", nesSystem.Frame())

	logger.LogInfo("=== Starting Emulation ===")
	startTime := time.Now()

	for i := 0; i < maxFrames; i++ {
		frameStart := time.Now()
		nesSystem.StepFrame()
		frameTime := time.Since(frameStart)

		logger.LogInfo("frame %d completed in %v", nesSystem.Frame(), frameTime)

		if i == 0 {
			printPPUState(nesSystem)
		}

		if i == maxFrames-1 {
			name := fmt.Sprintf("debug_frame_%d.rgba", nesSystem.Frame())
			saveFramebuffer(nesSystem.Video.RGBA(), name)
		}
	}

	totalTime := time.Since(startTime)
	logger.LogInfo("=== Final Results ===")
	logger.LogInfo("completed %d frames in %v", nesSystem.Frame(), totalTime)
	logger.LogInfo("average frame time: %v", totalTime/time.Duration(maxFrames))
}

func printPPUState(nesSystem *nes.NES) {
	logger.LogInfo("  PPU State:")
	logger.LogInfo("    frame=%d scanline=%d cycle=%d", nesSystem.PPU.Frame, nesSystem.PPU.Scanline, nesSystem.PPU.Cycle)
	logger.LogInfo("    PPUCTRL=0x%02X PPUMASK=0x%02X PPUSTATUS=0x%02X",
		nesSystem.PPU.PPUCTRL, nesSystem.PPU.PPUMASK, nesSystem.PPU.PPUSTATUS)
	logger.LogInfo("    NMI requested: %v", nesSystem.PPU.NMIRequested)
}

func saveFramebuffer(rgba []uint8, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		logger.LogError("error creating framebuffer file: %v", err)
		return
	}
	defer file.Close()

	if _, err := file.Write(rgba); err != nil {
		logger.LogError("error writing framebuffer: %v", err)
		return
	}

	logger.LogInfo("framebuffer saved to %s (%d bytes)", filename, len(rgba))
}
