package escpos

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.January, 15, 8, 5, 0, 0, time.Local)
	}
}

func TestFixedCommands(t *testing.T) {
	testCases := []struct {
		name string
		job  Job
		want []byte
	}{
		{"Initialize", Initialize(), []byte{0x1B, 0x40}},
		{"SetSizeDouble", SetSize(SizeDoubleWidth), []byte{0x1D, 0x21, 0x01}},
		{"SetSizeNormal", SetSize(SizeNormal), []byte{0x1D, 0x21, 0x00}},
		{"CenterAlign", CenterAlign(), []byte{0x1B, 0x61, 0x01}},
		{"CancelKanji", CancelKanji(), []byte{0x1C, 0x2E}},
		{"PartialCut", PartialCut(), []byte{0x1B, 0x64, 0x02}},
		{"SelfTest", SelfTest(), []byte{0x1D, 0x28, 0x41, 0x02, 0x00, 0x00, 0x64}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.job.Bytes())
		})
	}
}

func TestPrep(t *testing.T) {
	want := []byte{
		0x1B, 0x40,
		0x1C, 0x2E,
		0x1B, 0x61, 0x01,
		0x1D, 0x21, 0x01,
	}
	assert.Equal(t, want, Prep().Bytes())
}

func TestTextJobFraming(t *testing.T) {
	inputs := []string{"", "hello world", "a\nb\nc", "\n\n", "Name: ~!@#$%^&*()"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			job, err := TextJob(in)
			require.NoError(t, err)

			b := job.Bytes()
			encoded, err := Encode(in)
			require.NoError(t, err)

			assert.True(t, bytes.HasPrefix(b, encoded))

			tail := append(bytes.Repeat([]byte{LF}, TearFeed), 0x1B, 0x64, 0x02)
			assert.True(t, bytes.HasSuffix(b, tail))
			assert.Equal(t, len(encoded)+1+TearFeed+3, len(b))
			assert.Equal(t, byte(LF), b[len(encoded)])
		})
	}
}

func TestTextJobNewlines(t *testing.T) {
	job, err := TextJob("a\nb")
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 0x0A, 'b', 0x0A}, job.Bytes()[:4])
}

func TestTextJobRejectsNonASCII(t *testing.T) {
	_, err := TextJob("Zoë")
	require.Error(t, err)

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 2, encErr.Offset)
	assert.Equal(t, 'ë', encErr.Rune)
}

func TestTextJobRejectsInvalidUTF8(t *testing.T) {
	_, err := TextJob(string([]byte{'a', 0xFF}))
	var encErr *EncodingError
	assert.True(t, errors.As(err, &encErr))
}

func TestJobImmutable(t *testing.T) {
	src := []byte{1, 2, 3}
	job := Raw(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, job.Bytes())

	out := job.Bytes()
	out[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, job.Bytes())
}

func TestConcat(t *testing.T) {
	job := Concat(Raw([]byte{1}), Raw(nil), Raw([]byte{2, 3}))
	assert.Equal(t, []byte{1, 2, 3}, job.Bytes())
	assert.Equal(t, 3, job.Len())
}

func TestLateSlipText(t *testing.T) {
	b := NewBuilder(fixedClock())

	assert.Equal(t,
		"LATE SLIP\nName: Jane Doe\nTime: 08:05 AM\nDate: 01/15/2024",
		b.SlipText(LabelLate, "Jane Doe"))

	job, err := b.LateSlip("Jane Doe")
	require.NoError(t, err)
	want, err := TextJob("LATE SLIP\nName: Jane Doe\nTime: 08:05 AM\nDate: 01/15/2024")
	require.NoError(t, err)
	assert.Equal(t, want.Bytes(), job.Bytes())
}

func TestVisitorSlipAfternoon(t *testing.T) {
	b := NewBuilder(func() time.Time {
		return time.Date(2024, time.March, 2, 13, 45, 0, 0, time.Local)
	})

	assert.Equal(t,
		"VISITOR:\nName: John Smith\nTime: 01:45 PM\nDate: 03/02/2024",
		b.SlipText(LabelVisitor, "John Smith"))

	_, err := b.VisitorSlip("John Smith")
	assert.NoError(t, err)
}

func TestSlipRejectsNonASCIIName(t *testing.T) {
	_, err := NewBuilder(fixedClock()).LateSlip("José")
	var encErr *EncodingError
	assert.True(t, errors.As(err, &encErr))
}

func TestZeroBuilderUsesWallClock(t *testing.T) {
	var b *Builder
	assert.Contains(t, b.SlipText(LabelLate, "x"), "Date: ")
}

func TestUnescapeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb", UnescapeNewlines(`a\nb`))
	assert.Equal(t, "plain", UnescapeNewlines("plain"))
}
