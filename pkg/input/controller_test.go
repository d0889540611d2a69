package input

import "testing"

func TestSetButtonSetsAndClearsBits(t *testing.T) {
	var c Controller
	c.SetButton(ButtonMaskA, true)
	c.SetButton(ButtonMaskStart, true)
	if c.Buttons() != ButtonMaskA|ButtonMaskStart {
		t.Fatalf("expected A|Start, got %08b", c.Buttons())
	}

	c.SetButton(ButtonMaskA, false)
	if c.Buttons() != ButtonMaskStart {
		t.Fatalf("expected Start only, got %08b", c.Buttons())
	}
}

func TestStrobeHighAlwaysReadsButtonA(t *testing.T) {
	var c Controller
	c.SetButton(ButtonMaskA, true)
	c.write(true)

	for i := 0; i < 3; i++ {
		if got := c.read() & 1; got != 1 {
			t.Errorf("read %d: expected A bit set while strobe held high, got %d", i, got)
		}
	}
}

func TestStrobeLowShiftsThroughAllEightButtons(t *testing.T) {
	var c Controller
	c.SetButton(ButtonMaskA, true)
	c.SetButton(ButtonMaskRight, true)
	c.write(true)
	c.write(false)

	want := []uint8{1, 0, 0, 0, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.read() & 1; got != w {
			t.Errorf("bit %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestReadPastEighthBitReturnsOpenBusOne(t *testing.T) {
	var c Controller
	c.write(true)
	c.write(false)

	for i := 0; i < 8; i++ {
		c.read()
	}
	if got := c.read() & 1; got != 1 {
		t.Errorf("expected open-bus 1 past the eighth shift, got %d", got)
	}
}

func TestReadSetsUpperBitsToFixedOpenBusPattern(t *testing.T) {
	var c Controller
	c.write(true)
	if got := c.read(); got&0x40 == 0 {
		t.Errorf("expected bit 6 set on every read, got %02X", got)
	}
}

func TestControllersWriteStrobeLatchesBothPortsSimultaneously(t *testing.T) {
	c := New()
	c.Port1.SetButton(ButtonMaskA, true)
	c.Port2.SetButton(ButtonMaskB, true)

	c.WriteStrobe(0x01)
	if got := c.ReadPort1() & 1; got != 1 {
		t.Errorf("expected port 1 bit 0 set for pressed A, got %d", got)
	}
	if got := c.ReadPort2() & 1; got != 0 {
		t.Errorf("expected port 2 bit 0 clear while strobe high (its A is not pressed), got %d", got)
	}

	c.WriteStrobe(0x00)
	if got := c.ReadPort1() & 1; got != 1 {
		t.Errorf("expected port 1 first shifted bit still A, got %d", got)
	}
	c.ReadPort2() // port 2's first shifted bit is A
	if got := c.ReadPort2() & 1; got != 1 {
		t.Errorf("expected port 2 second shifted bit set for pressed B, got %d", got)
	}
}
