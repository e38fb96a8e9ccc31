package adapter

import (
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUSBAdapterAuto(t *testing.T) {
	a, err := NewUSBAdapterAuto()
	if err != nil {
		assert.ErrorIs(t, err, ErrNoPrinter)
		t.Skip("No USB printer found, skipping test")
	}
	defer a.Close()

	assert.NotNil(t, a.ctx)
	assert.NotNil(t, a.device)
	assert.False(t, a.IsOpen())
}

func TestFindPrinters(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	printers := FindPrinters(ctx)
	if len(printers) == 0 {
		t.Skip("No USB printers found")
	}

	for _, p := range printers {
		assert.True(t, IsPrinter(p))
		p.Close()
	}
}

func TestIsPrinterNil(t *testing.T) {
	assert.False(t, IsPrinter(nil))
}

func TestPrinterInfoString(t *testing.T) {
	bare := PrinterInfo{Vendor: 0x04b8, Product: 0x0202}
	assert.Equal(t, "USB 04b8:0202", bare.String())

	named := PrinterInfo{Vendor: 0x04b8, Product: 0x0202, Manufacturer: "EPSON", Name: "TM-T20"}
	assert.Equal(t, "USB EPSON TM-T20 (04b8:0202)", named.String())
}

func TestUSBAdapterWrite(t *testing.T) {
	a, err := NewUSBAdapterAuto()
	if err != nil {
		t.Skip("No USB printer found, skipping test")
	}
	defer a.Close()

	// Test write without opening
	_, err = a.Write([]byte("test"))
	assert.ErrorIs(t, err, ErrNotOpen)

	require.NoError(t, a.Open())
	assert.True(t, a.IsOpen())

	n, err := a.Write([]byte{0x1B, 0x40})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, a.Close())
	assert.False(t, a.IsOpen())
	assert.NoError(t, a.Close())
}
