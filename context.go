package scpi

import "fmt"

// Context holds all per-connection parser state: the immutable command
// table and transport interface, the streaming input buffer, the
// current command's matching/output bookkeeping, and the error queue.
// A Context is not safe for concurrent use — spec.md §5 assumes all
// calls on one Context are serialised by the caller; separate
// Contexts share nothing and may run on separate goroutines freely.
type Context struct {
	commands []*Command
	iface    *Interface
	opts     Options

	inputBuffer []byte
	bufferPos   int

	errorQueue ErrorQueue

	outputCount       int
	outputBinaryCount int
	inputCount        int
	cmdError          bool

	currentCmd    *Command
	currentHeader string
	currentData   []byte
	paramsPos     int

	prevHeader string

	userContext interface{}
	idn         [4]string
}

// NewContext builds a Context around an immutable command table, a
// transport Interface, and a fixed-capacity input buffer. bufferSize
// must be large enough to hold the longest expected message; no slack
// is needed for compound headers, since composeCompoundHeader builds
// them by string concatenation rather than by rewriting the buffer.
func NewContext(commands []*Command, iface *Interface, bufferSize int, opts Options) *Context {
	if opts.LineEnding == "" {
		opts.LineEnding = "\n"
	}
	eq := opts.ErrorQueue
	if eq == nil {
		eq = newRingQueue(opts.QueueSize)
	}
	return &Context{
		commands:    commands,
		iface:       iface,
		opts:        opts,
		inputBuffer: make([]byte, bufferSize),
		errorQueue:  eq,
	}
}

// SetIDN sets the four *IDN? identity strings (manufacturer, model,
// serial, firmware revision). The core never reads these itself —
// they exist so a callback implementing "*IDN?" has somewhere
// standard to pull them from.
func (c *Context) SetIDN(manufacturer, model, serial, version string) {
	c.idn = [4]string{manufacturer, model, serial, version}
}

// IDN returns the four identity strings set by SetIDN.
func (c *Context) IDN() (manufacturer, model, serial, version string) {
	return c.idn[0], c.idn[1], c.idn[2], c.idn[3]
}

// SetUserContext attaches caller-defined state reachable from any
// callback via GetUserContext.
func (c *Context) SetUserContext(ctx interface{}) { c.userContext = ctx }

// GetUserContext retrieves state attached with SetUserContext.
func (c *Context) GetUserContext() interface{} { return c.userContext }

// ErrorPush adds an error to the queue and marks the current command
// as failed (Context.cmdError), notifying Interface.OnError if set.
func (c *Context) ErrorPush(err *Error) {
	c.errorQueue.Push(err)
	c.cmdError = true
	if c.iface != nil && c.iface.OnError != nil {
		c.iface.OnError(err)
	}
}

// ErrorPop removes and returns the oldest queued error, or nil.
func (c *Context) ErrorPop() *Error { return c.errorQueue.Pop() }

// ErrorCount reports how many errors are queued.
func (c *Context) ErrorCount() int { return c.errorQueue.Count() }

// IsCmd reports whether the currently executing command's pattern
// equals pattern, letting one callback registered under several
// patterns (or reached through tags) tell them apart.
func (c *Context) IsCmd(pattern string) bool {
	return c.currentCmd != nil && c.currentCmd.Pattern == pattern
}

// CurrentCommandTag returns the matched command's Tag and true, or
// (0, false) if Options.UseCommandTags is not set or no command is
// current.
func (c *Context) CurrentCommandTag() (int32, bool) {
	if !c.opts.UseCommandTags || c.currentCmd == nil {
		return 0, false
	}
	return c.currentCmd.Tag, true
}

// CommandNumbers extracts the numeric suffixes captured from the
// current header against the matched command's pattern (see
// match.go's "#" suffix grammar), padding any uncaptured or absent
// slot with defaultValue.
func (c *Context) CommandNumbers(count int, defaultValue int32) []int32 {
	return commandSuffixes(c.currentCmd, c.currentHeader, count, defaultValue)
}

// Input feeds a fragment of the incoming byte stream to the driver. A
// zero-length call means "no more data is coming right now — process
// whatever is buffered even if it lacks a terminator" (a forced
// flush); a non-empty call appends bytes and dispatches every complete
// program message (one ending in a newline) it can find, in order,
// regardless of how the caller chose to chop the stream into Input
// calls — see spec.md §8's fragmentation invariant.
func (c *Context) Input(data []byte) error {
	if len(data) == 0 {
		if c.bufferPos == 0 {
			return nil
		}
		err := c.parseMessage(c.inputBuffer[:c.bufferPos], true)
		c.bufferPos = 0
		return err
	}

	if len(data) > len(c.inputBuffer)-c.bufferPos {
		c.ErrorPush(&Error{Code: ErrInputBufferOverrun, Info: "Input buffer overrun"})
		c.bufferPos = 0
		return fmt.Errorf("scpi: input buffer overrun")
	}
	copy(c.inputBuffer[c.bufferPos:], data)
	c.bufferPos += len(data)

	cursor := 0
	lastMessageEnd := 0
	var firstErr error
	for cursor < c.bufferPos {
		u, n, ok := parseUnit(c.inputBuffer[:c.bufferPos], cursor, false)
		if !ok {
			break
		}
		cursor += n
		if u.Termination == TerminationNewline {
			if err := c.parseMessage(c.inputBuffer[lastMessageEnd:cursor], false); err != nil && firstErr == nil {
				firstErr = err
			}
			lastMessageEnd = cursor
		}
	}

	if lastMessageEnd > 0 {
		remaining := c.bufferPos - lastMessageEnd
		copy(c.inputBuffer, c.inputBuffer[lastMessageEnd:c.bufferPos])
		c.bufferPos = remaining
	}
	return firstErr
}

// parseMessage walks one complete program message (a span ending in a
// newline, or the whole pending buffer on a forced flush), dispatching
// each unit's command in order and threading compound-command
// inheritance and output punctuation across units within it.
func (c *Context) parseMessage(data []byte, forced bool) error {
	c.prevHeader = ""
	cursor := 0
	asciiOut, binaryOut := 0, 0

	for cursor < len(data) {
		u, n, ok := parseUnit(data, cursor, forced)
		if !ok {
			break
		}
		cursor += n

		switch {
		case u.HeaderInvalid:
			c.ErrorPush(&Error{Code: ErrInvalidCharacter, Info: "Invalid character"})
			if u.Termination == TerminationNewline {
				c.prevHeader = ""
			}
			continue
		case u.Header == "":
			// Bare terminator: an empty unit, IEEE-488.2 allows it.
			if u.Termination == TerminationNewline {
				c.prevHeader = ""
			}
			continue
		}

		header := composeCompoundHeader(c.prevHeader, u.Header)
		cmd := findCommand(c.commands, header)
		if cmd == nil {
			c.ErrorPush(&Error{Code: ErrUndefinedHeader, Info: fmt.Sprintf("Undefined header: %s", header)})
		} else {
			c.processCommand(cmd, header, u.Data)
			asciiOut += c.outputCount
			binaryOut += c.outputBinaryCount
		}

		if u.Termination == TerminationNewline {
			c.prevHeader = ""
		} else {
			c.prevHeader = header
		}
	}

	// processCommand resets the counters per unit, so hand
	// writeMessageEnd the totals for the whole message.
	c.outputCount, c.outputBinaryCount = asciiOut, binaryOut
	c.writeMessageEnd()
	c.outputCount = 0
	c.outputBinaryCount = 0
	return nil
}

// processCommand runs one matched command's callback, per spec.md
// §4.7: emit the pending inter-command ';' left over from whatever the
// previous unit in this message produced, reset the per-command
// counters, invoke the callback, and enforce "all parameters
// consumed".
func (c *Context) processCommand(cmd *Command, header string, data []byte) {
	if c.outputCount > 0 || c.outputBinaryCount > 0 {
		c.writeRaw([]byte(";"))
	}

	c.cmdError = false
	c.outputCount = 0
	c.outputBinaryCount = 0
	c.inputCount = 0

	c.currentCmd = cmd
	c.currentHeader = header
	c.currentData = data
	c.paramsPos = 0

	if cmd.Callback == nil {
		return
	}

	result := cmd.Callback(c)
	if result != ResOK && !c.cmdError {
		c.ErrorPush(&Error{Code: ErrExecutionError, Info: "Execution error"})
	}

	if c.paramsPos < len(c.currentData) && !c.cmdError {
		c.ErrorPush(&Error{Code: ErrParameterNotAllowed, Info: "Parameter not allowed"})
	}
}

func (c *Context) writeRaw(data []byte) {
	if c.iface == nil || c.iface.Write == nil {
		return
	}
	c.iface.Write(data)
}

func (c *Context) flush() {
	if c.iface != nil && c.iface.Flush != nil {
		c.iface.Flush()
	}
}

// writeMessageEnd implements spec.md §4.6's line-ending rule: a
// newline (plus flush) if any ASCII result was emitted this message,
// otherwise a bare flush if only binary blocks were emitted, otherwise
// nothing.
func (c *Context) writeMessageEnd() {
	switch {
	case c.outputCount > 0:
		c.writeRaw([]byte(c.opts.LineEnding))
		c.flush()
	case c.outputBinaryCount > 0:
		c.flush()
	}
}

func (c *Context) writeDelimiter() {
	if c.outputCount > 0 {
		c.writeRaw([]byte(","))
	}
}
