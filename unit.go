package scpi

// Unit is one parsed program-message unit: a header plus its raw
// parameter-data segment and how it ended.
type Unit struct {
	Header        string
	HeaderInvalid bool
	Data          []byte
	Termination   Termination
}

// lexHeader recognises a SCPI program header: optional leading '*' for
// a common command (letters only, no hierarchy) or optional leading
// ':' for an compound/absolute header, keyword segments separated by
// ':' (each optionally followed by a decimal numeric suffix), and an
// optional trailing '?'.
func lexHeader(st *lexState) (string, bool) {
	start := st.pos

	if st.peek() == '*' {
		st.advance(1)
		kwStart := st.pos
		for !st.isEOS() && isAlpha(st.peek()) {
			st.advance(1)
		}
		if st.pos == kwStart {
			st.pos = start
			return "", false
		}
		if st.peek() == '?' {
			st.advance(1)
		}
		return string(st.buffer[start:st.pos]), true
	}

	if st.peek() == ':' {
		st.advance(1)
	}

	first := true
	for {
		kwStart := st.pos
		for !st.isEOS() && isAlpha(st.peek()) {
			st.advance(1)
		}
		if st.pos == kwStart {
			st.pos = start
			return "", false
		}
		first = false
		for !st.isEOS() && isDigit(st.peek()) {
			st.advance(1)
		}
		if !st.isEOS() && st.peek() == ':' {
			st.advance(1)
			continue
		}
		break
	}
	_ = first

	if st.peek() == '?' {
		st.advance(1)
	}
	return string(st.buffer[start:st.pos]), true
}

// parseUnit attempts to read one program-message unit starting at
// data[start:]. ok is false when the buffer does not yet contain a
// complete unit (no terminator seen); the caller should hold the
// pending bytes and retry once more data arrives, per spec.md §4.2's
// "anything else leaves termination as none" rule — applied uniformly
// so a trailing unterminated unit never gets dispatched early,
// regardless of its position in the message (see SPEC_FULL.md's note
// on the driver's mid-unit break condition).
// force, set only by the driver's flush path, tells parseUnit to
// finalize a unit at end-of-buffer instead of reporting "need more
// data" — used when the caller explicitly signalled there is nothing
// more coming (a zero-length Input call).
func parseUnit(data []byte, start int, force bool) (u Unit, consumed int, ok bool) {
	st := &lexState{buffer: data, pos: start, len: len(data)}
	st.lexWhitespace()

	if st.isEOS() {
		return Unit{}, 0, false
	}

	switch st.peek() {
	case '\n', '\r':
		st.lexNewline()
		return Unit{Termination: TerminationNewline}, st.pos - start, true
	case ';':
		st.advance(1)
		return Unit{Termination: TerminationSemicolon}, st.pos - start, true
	}

	headerStart := st.pos
	header, headerOK := lexHeader(st)
	if !headerOK {
		st.pos = headerStart
		st.advance(1)
		for {
			if st.isEOS() {
				if force {
					return Unit{HeaderInvalid: true, Termination: TerminationNewline}, st.pos - start, true
				}
				return Unit{}, 0, false
			}
			switch st.peek() {
			case ';':
				st.advance(1)
				return Unit{HeaderInvalid: true, Termination: TerminationSemicolon}, st.pos - start, true
			case '\n', '\r':
				st.lexNewline()
				return Unit{HeaderInvalid: true, Termination: TerminationNewline}, st.pos - start, true
			default:
				st.advance(1)
			}
		}
	}

	u.Header = header

	st.lexWhitespace()
	dataStart := st.pos
	st.scanDataSegment()
	if st.pos > dataStart {
		u.Data = data[dataStart:st.pos]
	}

	if st.isEOS() {
		if force {
			u.Termination = TerminationNewline
			return u, st.pos - start, true
		}
		return Unit{}, 0, false
	}

	switch st.peek() {
	case ';':
		st.advance(1)
		u.Termination = TerminationSemicolon
	case '\n', '\r':
		st.lexNewline()
		u.Termination = TerminationNewline
	default:
		// Not a legal terminator: leave Termination at its zero value
		// (TerminationNone) instead of claiming a newline was seen.
	}
	return u, st.pos - start, true
}

// scanDataSegment advances st past a unit's entire parameter-data
// segment, stopping at the first unescaped ';', '\n', '\r', or at
// end-of-buffer. It drives the real program-data recognizers for
// quoted strings, arbitrary blocks, and parenthesised expressions so a
// byte that would otherwise look like a terminator, but sits inside
// one of those constructs, doesn't end the segment early. Comma
// separation between parameters is left for parameters.go to validate
// when a callback actually reads them.
func (l *lexState) scanDataSegment() {
	for !l.isEOS() {
		switch l.peek() {
		case ';', '\n', '\r':
			return
		case '"', '\'':
			if _, n := l.lexStringProgramData(); n > 0 {
				continue
			}
			l.pos = l.len
			return
		case '(':
			if _, n := l.lexProgramExpression(); n > 0 {
				continue
			}
			l.pos = l.len
			return
		case '#':
			if isDigit(l.peekAt(1)) {
				if _, n := l.lexArbitraryBlock(); n > 0 {
					continue
				}
				l.pos = l.len
				return
			}
			l.advance(1)
		default:
			l.advance(1)
		}
	}
}
