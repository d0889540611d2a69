package ppu

import (
	"testing"
)

func TestPaletteManagerCreation(t *testing.T) {
	pm := NewPaletteManager()

	if pm == nil {
		t.Fatal("PaletteManager should not be nil")
	}
	if pm.Emphasis != 0 {
		t.Errorf("Expected emphasis=0, got %02X", pm.Emphasis)
	}
	for i, v := range pm.PaletteRAM {
		if v != 0 {
			t.Errorf("Expected zeroed palette RAM at power-up, index %d = %02X", i, v)
		}
	}
}

func TestPaletteReadWrite(t *testing.T) {
	pm := NewPaletteManager()

	pm.WritePalette(0x01, 0x30)
	if value := pm.ReadPalette(0x01); value != 0x30 {
		t.Errorf("Expected palette value 0x30, got %02X", value)
	}

	// Test 6-bit masking
	pm.WritePalette(0x02, 0xFF)
	if value := pm.ReadPalette(0x02); value != 0x3F {
		t.Errorf("Expected palette value 0x3F (masked), got %02X", value)
	}
}

func TestBackdropMirroring(t *testing.T) {
	pm := NewPaletteManager()

	pm.WritePalette(0x00, 0x0F)

	testCases := []struct {
		addr     uint8
		expected uint8
	}{
		{0x10, 0x0F}, // Should read from $00
		{0x14, 0x00}, // Should read from $04 (power-up zero)
		{0x18, 0x00}, // Should read from $08
		{0x1C, 0x00}, // Should read from $0C
	}

	for _, tc := range testCases {
		if value := pm.ReadPalette(tc.addr); value != tc.expected {
			t.Errorf("Expected mirrored value 0x%02X at address %02X, got %02X", tc.expected, tc.addr, value)
		}
	}

	// Write to mirrored location, check original location.
	pm.WritePalette(0x10, 0x20)
	if value := pm.ReadPalette(0x00); value != 0x20 {
		t.Errorf("Expected backdrop value 0x20, got %02X", value)
	}
}

func TestBackgroundColors(t *testing.T) {
	pm := NewPaletteManager()

	pm.WritePalette(0x00, 0x0F)
	pm.WritePalette(0x01, 0x30)
	pm.WritePalette(0x02, 0x27)
	pm.WritePalette(0x03, 0x17)

	color0 := pm.GetBackgroundColor(0, 0)
	color1 := pm.GetBackgroundColor(0, 1)
	color2 := pm.GetBackgroundColor(0, 2)
	color3 := pm.GetBackgroundColor(0, 3)

	if color0 == color1 || color1 == color2 || color2 == color3 {
		t.Error("Background colors should be different")
	}

	backdropFromPalette1 := pm.GetBackgroundColor(1, 0)
	if color0 != backdropFromPalette1 {
		t.Error("Universal backdrop should be same for all palettes")
	}
}

func TestSpriteColors(t *testing.T) {
	pm := NewPaletteManager()

	pm.WritePalette(0x11, 0x30)
	pm.WritePalette(0x12, 0x27)
	pm.WritePalette(0x13, 0x17)

	_, opaque0 := pm.GetSpriteColor(0, 0)
	if opaque0 {
		t.Error("Sprite color index 0 should always be transparent")
	}

	color1, opaque1 := pm.GetSpriteColor(0, 1)
	color2, opaque2 := pm.GetSpriteColor(0, 2)
	color3, opaque3 := pm.GetSpriteColor(0, 3)

	if !opaque1 || !opaque2 || !opaque3 {
		t.Error("Nonzero sprite color indices should be opaque")
	}
	if color1 == color2 || color2 == color3 {
		t.Error("Sprite colors should be different")
	}
}

func TestColorEmphasis(t *testing.T) {
	pm := NewPaletteManager()
	pm.WritePalette(0x01, 0x30)

	normalColor := pm.GetBackgroundColor(0, 1)

	pm.SetEmphasis(0x20)
	emphasizedColor := pm.GetBackgroundColor(0, 1)
	if normalColor == emphasizedColor {
		t.Error("Colors should be different with emphasis applied")
	}

	pm.SetEmphasis(0xE0)
	allEmphasisColor := pm.GetBackgroundColor(0, 1)
	if emphasizedColor == allEmphasisColor {
		t.Error("Different emphasis settings should produce different colors")
	}
}

func TestMasterPaletteAllOpaque(t *testing.T) {
	pm := NewPaletteManager()

	for i := 0; i < 64; i++ {
		pm.WritePalette(0x01, uint8(i))
		color := pm.GetBackgroundColor(0, 1)
		if color&0xFF000000 != 0xFF000000 {
			t.Errorf("Master palette color %d should be opaque, got %08X", i, color)
		}
	}
}
