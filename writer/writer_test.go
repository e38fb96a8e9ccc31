package writer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixxel-company-limited/kiosk-printer/adapter"
)

func deviceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func TestRunWritesPayload(t *testing.T) {
	path := deviceFile(t)
	payload := []byte{0x1B, 0x40, 'h', 'i', 0x0A, 0x1B, 0x64, 0x02}

	code := New(FileDevice(path), nil).Run([]string{encode(payload)})
	assert.Equal(t, ExitOK, code)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRunEmptyPayload(t *testing.T) {
	path := deviceFile(t)

	assert.Equal(t, ExitOK, New(FileDevice(path), nil).Run([]string{""}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunMalformed(t *testing.T) {
	path := deviceFile(t)
	w := New(FileDevice(path), nil)

	testCases := []struct {
		name string
		args []string
	}{
		{"NoArgs", nil},
		{"TwoArgs", []string{"AA==", "AA=="}},
		{"NotBase64", []string{"!!not base64!!"}},
		{"BadPadding", []string{"AAA"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, ExitMalformed, w.Run(tc.args))
		})
	}

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunDeviceMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")

	code := New(FileDevice(path), nil).Run([]string{encode([]byte("x"))})
	assert.Equal(t, ExitDeviceMissing, code)

	// The writer must not leave a regular file where the device belongs.
	assert.False(t, adapter.Present(path))
}

func TestRunDeviceVanishedBeforeOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	device := func() (adapter.Adapter, error) {
		return adapter.NewFileAdapter(path), nil
	}

	assert.Equal(t, ExitDeviceMissing, New(device, nil).Run([]string{encode([]byte("x"))}))
}

func TestRunOpenFails(t *testing.T) {
	// A directory exists, so the device check passes, but it cannot be
	// opened for writing.
	dir := t.TempDir()

	assert.Equal(t, ExitWriteFailed, New(FileDevice(dir), nil).Run([]string{encode([]byte("x"))}))
}

type fakeAdapter struct {
	open     bool
	closed   int
	openErr  error
	chunk    int
	writeErr error
	closeErr error
	written  bytes.Buffer
}

func (f *fakeAdapter) Open() error {
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	return nil
}

func (f *fakeAdapter) Write(data []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	n := len(data)
	if f.chunk > 0 && n > f.chunk {
		n = f.chunk
	}
	f.written.Write(data[:n])
	return n, nil
}

func (f *fakeAdapter) Read(buf []byte) (int, error) { return 0, nil }

func (f *fakeAdapter) Close() error {
	f.open = false
	f.closed++
	return f.closeErr
}

func (f *fakeAdapter) IsOpen() bool { return f.open }

func TestRunShortWrites(t *testing.T) {
	fake := &fakeAdapter{chunk: 3}
	device := func() (adapter.Adapter, error) { return fake, nil }
	payload := []byte("a longer payload than one chunk")

	assert.Equal(t, ExitOK, New(device, nil).Run([]string{encode(payload)}))
	assert.Equal(t, payload, fake.written.Bytes())
	assert.False(t, fake.open)
}

func TestRunWriteError(t *testing.T) {
	fake := &fakeAdapter{writeErr: errors.New("broken pipe")}
	device := func() (adapter.Adapter, error) { return fake, nil }

	assert.Equal(t, ExitWriteFailed, New(device, nil).Run([]string{encode([]byte("x"))}))
	assert.False(t, fake.open)
}

func TestRunCloseError(t *testing.T) {
	fake := &fakeAdapter{closeErr: errors.New("flush failed")}
	device := func() (adapter.Adapter, error) { return fake, nil }

	assert.Equal(t, ExitWriteFailed, New(device, nil).Run([]string{encode([]byte("x"))}))
}

func TestRunOpenErrorReleasesAdapter(t *testing.T) {
	fake := &fakeAdapter{openErr: errors.New("claim interface: busy")}
	device := func() (adapter.Adapter, error) { return fake, nil }

	assert.Equal(t, ExitWriteFailed, New(device, nil).Run([]string{encode([]byte("x"))}))
	assert.Equal(t, 1, fake.closed)
}

func TestRunOpenNotExistIsDeviceMissing(t *testing.T) {
	fake := &fakeAdapter{openErr: &os.PathError{Op: "open", Path: "/dev/usb/lp0", Err: os.ErrNotExist}}
	device := func() (adapter.Adapter, error) { return fake, nil }

	assert.Equal(t, ExitDeviceMissing, New(device, nil).Run([]string{encode([]byte("x"))}))
	assert.Equal(t, 1, fake.closed)
}

func TestRunDeviceError(t *testing.T) {
	device := func() (adapter.Adapter, error) { return nil, errors.New("libusb: access denied") }

	assert.Equal(t, ExitWriteFailed, New(device, nil).Run([]string{encode([]byte("x"))}))
}

func TestBase64RoundTrip(t *testing.T) {
	for n := 0; n <= 300; n++ {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i * 7)
		}
		got, err := base64.StdEncoding.DecodeString(encode(b))
		require.NoError(t, err)
		assert.Equal(t, b, got, "length %d", n)
	}
}
