package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrInputClosed = errors.New("input closed")

// lineReader reads lines on its own goroutine so a blocked terminal read
// never keeps the game loop from seeing a cancelled context.
type lineReader struct {
	lines chan string
	stop  chan struct{}
	err   error
}

func newLineReader(r io.Reader) *lineReader {
	that := &lineReader{
		lines: make(chan string),
		stop:  make(chan struct{}),
	}

	go that.run(r)

	return that
}

func (that *lineReader) run(r io.Reader) {
	defer close(that.lines)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case that.lines <- scanner.Text():
		case <-that.stop:
			return
		}
	}

	// read after lines is closed, so no lock is needed
	that.err = scanner.Err()
}

func (that *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("read interrupted: %w", ctx.Err())
	case line, ok := <-that.lines:
		if ok {
			return line, nil
		}

		if that.err != nil {
			return "", fmt.Errorf("failed to read input: %w", that.err)
		}

		return "", ErrInputClosed
	}
}

func (that *lineReader) Close() {
	close(that.stop)
}
