// Package escpos builds the byte streams sent to an ESC/POS thermal printer.
//
// Only the subset of the protocol the kiosk uses is implemented.
// Command Reference: https://reference.epson-biz.com/modules/ref_escpos/index.php?content_id=72
package escpos

import (
	"fmt"
	"strings"
	"time"
)

// Control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	FS  = 0x1C
	LF  = 0x0A
)

// TearFeed is the number of blank lines fed after a slip so it can be torn off.
const TearFeed = 10

// Size flags for SetSize
const (
	SizeNormal      byte = 0x00
	SizeDoubleWidth byte = 0x01
)

var (
	cmdInitialize  = []byte{ESC, 0x40}
	cmdSetSize     = []byte{GS, 0x21}
	cmdCenterAlign = []byte{ESC, 0x61, 0x01}
	cmdCancelKanji = []byte{FS, 0x2E}
	cmdPartialCut  = []byte{ESC, 0x64, 0x02}
	cmdSelfTest    = []byte{GS, 0x28, 0x41, 0x02, 0x00, 0x00, 0x64}
)

// Slip labels
const (
	LabelLate    = "LATE SLIP"
	LabelVisitor = "VISITOR:"
)

// Job is a fully formed command stream. It is never modified after creation.
type Job struct {
	data []byte
}

// Raw wraps arbitrary bytes as a Job. The bytes are copied.
func Raw(b []byte) Job {
	return Job{data: append([]byte(nil), b...)}
}

// Bytes returns a copy of the command stream.
func (j Job) Bytes() []byte {
	return append([]byte(nil), j.data...)
}

// Len returns the number of bytes in the job.
func (j Job) Len() int {
	return len(j.data)
}

// Concat returns a new Job made of the given jobs in order.
func Concat(jobs ...Job) Job {
	var n int
	for _, j := range jobs {
		n += len(j.data)
	}
	out := make([]byte, 0, n)
	for _, j := range jobs {
		out = append(out, j.data...)
	}
	return Job{data: out}
}

// EncodingError reports text that cannot be sent as 7-bit ASCII.
type EncodingError struct {
	Offset int
	Rune   rune
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("escpos: cannot encode %q at byte %d as ASCII", e.Rune, e.Offset)
}

// Initialize returns ESC @, which resets the printer to its power-on state.
func Initialize() Job {
	return Raw(cmdInitialize)
}

// SetSize returns GS ! n.
func SetSize(n byte) Job {
	return Raw(append(append([]byte(nil), cmdSetSize...), n))
}

// CenterAlign returns ESC a 1.
func CenterAlign() Job {
	return Raw(cmdCenterAlign)
}

// CancelKanji returns FS . which turns off double-byte character mode.
func CancelKanji() Job {
	return Raw(cmdCancelKanji)
}

// PartialCut returns ESC d 2.
func PartialCut() Job {
	return Raw(cmdPartialCut)
}

// SelfTest returns GS ( A, which makes the printer print its test page.
func SelfTest() Job {
	return Raw(cmdSelfTest)
}

// Prep returns the setup sequence sent when the kiosk starts:
// initialize, cancel Kanji mode, center text and double its width.
func Prep() Job {
	return Concat(Initialize(), CancelKanji(), CenterAlign(), SetSize(SizeDoubleWidth))
}

// Encode converts text to ASCII bytes, mapping newlines to LF.
func Encode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for i, r := range text {
		if r > 0x7F {
			return nil, &EncodingError{Offset: i, Rune: r}
		}
		if r == '\n' {
			out = append(out, LF)
			continue
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// TextJob frames text as a printable slip: the text, a line feed, the
// tear-off feed and a partial cut.
func TextJob(text string) (Job, error) {
	body, err := Encode(text)
	if err != nil {
		return Job{}, err
	}

	data := make([]byte, 0, len(body)+1+TearFeed+len(cmdPartialCut))
	data = append(data, body...)
	data = append(data, LF)
	for i := 0; i < TearFeed; i++ {
		data = append(data, LF)
	}
	data = append(data, cmdPartialCut...)
	return Job{data: data}, nil
}

// UnescapeNewlines turns the two-character sequence `\n` into a newline.
// Admins type custom print text into a single-line prompt.
func UnescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// Builder produces dated slips. The zero value uses time.Now.
type Builder struct {
	Now func() time.Time
}

// NewBuilder creates a builder reading time from now. A nil now means time.Now.
func NewBuilder(now func() time.Time) *Builder {
	return &Builder{Now: now}
}

func (b *Builder) now() time.Time {
	if b == nil || b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// SlipText returns the body of a slip before framing.
func (b *Builder) SlipText(label, name string) string {
	t := b.now()
	return fmt.Sprintf("%s\nName: %s\nTime: %s\nDate: %s",
		label, name, t.Format("03:04 PM"), t.Format("01/02/2006"))
}

// LateSlip builds a late slip for a student.
func (b *Builder) LateSlip(name string) (Job, error) {
	return TextJob(b.SlipText(LabelLate, name))
}

// VisitorSlip builds a visitor pass.
func (b *Builder) VisitorSlip(name string) (Job, error) {
	return TextJob(b.SlipText(LabelVisitor, name))
}
