package panelkit

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/unix"
)

// Screen manages the terminal display with double buffering and
// diff-based updates. TermHost composites panel windows into the back
// buffer and flushes once per event-loop turn.
type Screen struct {
	front  *Buffer
	back   *Buffer
	writer io.Writer
	fd     int

	width  int
	height int

	origTermios *unix.Termios
	inRawMode   bool

	resizeChan chan Size
	sigChan    chan os.Signal

	lastStyle Style
	buf       bytes.Buffer

	// protects buffer access during resize
	mu sync.Mutex
}

// Size represents dimensions.
type Size struct {
	Width  int
	Height int
}

// NewScreen creates a screen writing to the given writer. Pass nil to
// use os.Stdout.
func NewScreen(w io.Writer) (*Screen, error) {
	if w == nil {
		w = os.Stdout
	}

	fd := int(os.Stdout.Fd())
	width, height, err := getTerminalSize(fd)
	if err != nil {
		width, height = 80, 24
	}

	return &Screen{
		front:      NewBuffer(width, height),
		back:       NewBuffer(width, height),
		writer:     w,
		fd:         fd,
		width:      width,
		height:     height,
		resizeChan: make(chan Size, 1),
		sigChan:    make(chan os.Signal, 1),
		lastStyle:  DefaultStyle(),
	}, nil
}

func getTerminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// Size returns the current screen dimensions.
func (s *Screen) Size() Size {
	return Size{Width: s.width, Height: s.height}
}

// Buffer returns the back buffer for drawing.
func (s *Screen) Buffer() *Buffer {
	return s.back
}

// ResizeChan receives size updates on terminal resize.
func (s *Screen) ResizeChan() <-chan Size {
	return s.resizeChan
}

// EnterRawMode puts the terminal into raw mode and switches to the
// alternate screen.
func (s *Screen) EnterRawMode() error {
	if s.inRawMode {
		return nil
	}

	termios, err := unix.IoctlGetTermios(s.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}
	s.origTermios = termios

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}

	s.inRawMode = true

	signal.Notify(s.sigChan, syscall.SIGWINCH)
	go s.handleSignals()

	s.writeString("\x1b[?1049h") // enter alternate screen
	s.writeString("\x1b[2J")
	s.writeString("\x1b[H")
	s.writeString("\x1b[?25l")
	s.writeString("\x1b[?2004h") // bracketed paste

	return nil
}

// ExitRawMode restores the terminal to its original state.
func (s *Screen) ExitRawMode() error {
	if !s.inRawMode {
		return nil
	}

	s.writeString("\x1b[?2004l")
	s.writeString("\x1b[?25h")
	s.writeString("\x1b[?1049l")

	signal.Stop(s.sigChan)

	if s.origTermios != nil {
		if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, s.origTermios); err != nil {
			return fmt.Errorf("failed to restore termios: %w", err)
		}
	}

	s.inRawMode = false
	return nil
}

func (s *Screen) handleSignals() {
	for range s.sigChan {
		width, height, err := getTerminalSize(s.fd)
		if err != nil {
			continue
		}
		if width != s.width || height != s.height {
			s.mu.Lock()
			s.width = width
			s.height = height
			s.front.Resize(width, height)
			s.back.Resize(width, height)
			s.front.Clear()
			s.back.Clear()
			s.writeString("\x1b[2J")
			s.mu.Unlock()
			select {
			case s.resizeChan <- Size{Width: width, Height: height}:
			default:
			}
		}
	}
}

// Flush renders the back buffer to the terminal using a per-cell diff.
// Only cells that changed since the last frame are written.
func (s *Screen) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()

	changed := false
	cursorX, cursorY := -1, -1

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			backCell := s.back.Get(x, y)
			if backCell == s.front.Get(x, y) {
				continue
			}

			// second half of double-width chars
			if backCell.Rune == 0 {
				s.front.Set(x, y, backCell)
				continue
			}

			changed = true
			if cursorX != x || cursorY != y {
				s.buf.WriteString("\x1b[")
				s.writeIntToBuf(y + 1)
				s.buf.WriteByte(';')
				s.writeIntToBuf(x + 1)
				s.buf.WriteByte('H')
			}

			s.writeCell(&s.buf, backCell)
			s.front.Set(x, y, backCell)
			rw := runewidth.RuneWidth(backCell.Rune)
			if rw == 0 {
				rw = 1
			}
			cursorX = x + rw
			cursorY = y
		}
	}

	if changed {
		s.buf.WriteString("\x1b[0m")
		s.lastStyle = DefaultStyle()
	}
	// FlushBuffer writes, so cursor ops can batch into the same syscall
}

func (s *Screen) writeIntToBuf(n int) {
	if n == 0 {
		s.buf.WriteByte('0')
		return
	}
	if n < 0 {
		s.buf.WriteByte('-')
		n = -n
	}
	var scratch [10]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	s.buf.Write(scratch[i:])
}

// FlushFull does a complete redraw without diffing.
func (s *Screen) FlushFull() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	s.buf.WriteString("\x1b[2J\x1b[H")

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			cell := s.back.Get(x, y)
			s.writeCell(&s.buf, cell)
			s.front.Set(x, y, cell)
		}
		if y < s.height-1 {
			s.buf.WriteString("\r\n")
		}
	}

	s.buf.WriteString("\x1b[0m")
	s.lastStyle = DefaultStyle()

	s.writer.Write(s.buf.Bytes())
	s.buf.Reset()
}

func (s *Screen) writeCell(buf *bytes.Buffer, cell Cell) {
	if !cell.Style.Equal(s.lastStyle) {
		s.writeStyle(buf, cell.Style)
		s.lastStyle = cell.Style
	}
	buf.WriteRune(cell.Rune)
}

func (s *Screen) writeStyle(buf *bytes.Buffer, style Style) {
	buf.WriteString("\x1b[0")

	if style.Attr.Has(AttrBold) {
		buf.WriteString(";1")
	}
	if style.Attr.Has(AttrDim) {
		buf.WriteString(";2")
	}
	if style.Attr.Has(AttrItalic) {
		buf.WriteString(";3")
	}
	if style.Attr.Has(AttrUnderline) {
		buf.WriteString(";4")
	}
	if style.Attr.Has(AttrBlink) {
		buf.WriteString(";5")
	}
	if style.Attr.Has(AttrInverse) {
		buf.WriteString(";7")
	}
	if style.Attr.Has(AttrStrikethrough) {
		buf.WriteString(";9")
	}

	s.writeColor(buf, style.FG, true)
	s.writeColor(buf, style.BG, false)

	buf.WriteString("m")
}

func (s *Screen) writeColor(buf *bytes.Buffer, c Color, fg bool) {
	switch c.Mode {
	case ColorDefault:
		if fg {
			buf.WriteString(";39")
		} else {
			buf.WriteString(";49")
		}
	case Color16:
		base := 30
		if !fg {
			base = 40
		}
		if c.Index >= 8 {
			base += 60
			buf.WriteByte(';')
			s.writeIntToBuf(base + int(c.Index-8))
		} else {
			buf.WriteByte(';')
			s.writeIntToBuf(base + int(c.Index))
		}
	case Color256:
		if fg {
			buf.WriteString(";38;5;")
		} else {
			buf.WriteString(";48;5;")
		}
		s.writeIntToBuf(int(c.Index))
	case ColorRGB:
		if fg {
			buf.WriteString(";38;2;")
		} else {
			buf.WriteString(";48;2;")
		}
		s.writeIntToBuf(int(c.R))
		buf.WriteByte(';')
		s.writeIntToBuf(int(c.G))
		buf.WriteByte(';')
		s.writeIntToBuf(int(c.B))
	}
}

func (s *Screen) writeString(str string) {
	io.WriteString(s.writer, str)
}

// Clear clears the back buffer.
func (s *Screen) Clear() {
	s.back.Clear()
}

// BufferCursor writes cursor positioning and visibility to the internal
// buffer. Call before FlushBuffer to batch cursor ops with content in
// one syscall.
func (s *Screen) BufferCursor(x, y int, visible bool, shape CursorShape) {
	s.buf.WriteString("\x1b[")
	s.writeIntToBuf(int(shape))
	s.buf.WriteString(" q")

	s.buf.WriteString("\x1b[")
	s.writeIntToBuf(y + 1)
	s.buf.WriteByte(';')
	s.writeIntToBuf(x + 1)
	s.buf.WriteByte('H')

	if visible {
		s.buf.WriteString("\x1b[?25h")
	} else {
		s.buf.WriteString("\x1b[?25l")
	}
}

// FlushBuffer writes the accumulated buffer to the terminal in one
// syscall.
func (s *Screen) FlushBuffer() {
	if s.buf.Len() > 0 {
		s.writer.Write(s.buf.Bytes())
		s.buf.Reset()
	}
}

// CursorShape represents the terminal cursor shape.
type CursorShape int

const (
	CursorDefault        CursorShape = 0
	CursorBlockBlink     CursorShape = 1
	CursorBlock          CursorShape = 2
	CursorUnderlineBlink CursorShape = 3
	CursorUnderline      CursorShape = 4
	CursorBarBlink       CursorShape = 5
	CursorBar            CursorShape = 6
)
