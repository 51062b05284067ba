// Package scpi implements the core of a SCPI (Standard Commands for
// Programmable Instruments) parser and dispatcher: a lexer for SCPI
// program-data syntax, a long-form/short-form command matcher with
// compound-command inheritance, a parameter extraction API, a result
// writer, and a streaming driver that threads an error queue through
// all of it.
//
// The package never touches a transport directly — callers supply an
// Interface that writes bytes somewhere, and a Command table that does
// the instrument-specific work. See package transport for ready-made
// Interface implementations, and cmd/scpi-sim for a worked example.
package scpi

// Result is the outcome a command callback reports back to the driver.
type Result int

const (
	// ResOK indicates the callback completed successfully.
	ResOK Result = 1
	// ResErr indicates the callback failed. If it did not already push
	// an error, the driver synthesizes ExecutionError.
	ResErr Result = -1
)

// TokenKind identifies the lexical category of a Token.
type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenInvalid
	TokenWhiteSpace
	TokenNewline
	TokenComma
	TokenSemicolon
	TokenProgramMnemonic
	TokenDecimalNumeric
	TokenDecimalNumericWithSuffix
	TokenHexNum
	TokenOctNum
	TokenBinNum
	TokenSingleQuoteString
	TokenDoubleQuoteString
	TokenArbitraryBlock
	TokenProgramExpression
	TokenAllProgramData
)

func (k TokenKind) String() string {
	switch k {
	case TokenInvalid:
		return "Invalid"
	case TokenWhiteSpace:
		return "WhiteSpace"
	case TokenNewline:
		return "Newline"
	case TokenComma:
		return "Comma"
	case TokenSemicolon:
		return "Semicolon"
	case TokenProgramMnemonic:
		return "ProgramMnemonic"
	case TokenDecimalNumeric:
		return "DecimalNumeric"
	case TokenDecimalNumericWithSuffix:
		return "DecimalNumericWithSuffix"
	case TokenHexNum:
		return "HexNum"
	case TokenOctNum:
		return "OctNum"
	case TokenBinNum:
		return "BinNum"
	case TokenSingleQuoteString:
		return "SingleQuoteString"
	case TokenDoubleQuoteString:
		return "DoubleQuoteString"
	case TokenArbitraryBlock:
		return "ArbitraryBlock"
	case TokenProgramExpression:
		return "ProgramExpression"
	case TokenAllProgramData:
		return "AllProgramData"
	default:
		return "Unknown"
	}
}

// Token is a lexical unit carrying a slice into the buffer it was cut
// from. A Token never outlives that buffer — in particular, tokens
// handed to a command callback must not be retained past the
// callback's return, since the driver may shift or reuse the
// underlying buffer on the next Input call.
type Token struct {
	Kind TokenKind
	Data []byte
	Pos  int
}

func (t Token) isAbsent() bool { return t.Kind == TokenUnknown && t.Data == nil }

// Termination records how a program-message unit ended.
type Termination int

const (
	// TerminationNone means the buffer ran out mid-unit; the driver
	// should wait for more bytes before dispatching anything.
	TerminationNone Termination = iota
	TerminationSemicolon
	TerminationNewline
)

// Command is one entry in the caller-supplied, immutable command
// table. Pattern uses the grammar documented in match.go. Tag is only
// meaningful when Options.UseCommandTags is set; it lets one Callback
// serve several patterns and dispatch on Context.CurrentCommandTag.
type Command struct {
	Pattern  string
	Callback func(*Context) Result
	Tag      int32
}

// Error is one entry in the SCPI error/event queue (IEEE 488.2 §21).
type Error struct {
	Code int16
	Info string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Info
}

// Standard SCPI error codes (IEEE 488.2 / SCPI-99 error numbering).
const (
	ErrInvalidCharacter      int16 = -101
	ErrUndefinedHeader       int16 = -113
	ErrInvalidSeparator      int16 = -103
	ErrDataTypeError         int16 = -104
	ErrParameterNotAllowed   int16 = -108
	ErrMissingParameter      int16 = -109
	ErrInvalidStringData     int16 = -151
	ErrSuffixNotAllowed      int16 = -138
	ErrIllegalParameterValue int16 = -224
	ErrExecutionError        int16 = -200
	ErrInputBufferOverrun    int16 = -363
	ErrQueueOverflow         int16 = -350
	ErrSystemError           int16 = -310
)

// ErrorQueue is the caller-pluggable error/event queue backend. The
// default used by NewContext is a bounded ring buffer (see errors.go);
// callers with their own SCPI status-reporting infrastructure can
// supply their own implementation instead.
type ErrorQueue interface {
	Push(err *Error)
	Pop() *Error
	Count() int
}

// Interface bundles the transport write/flush hooks with an optional
// error observer and a reset hook. The core never calls Reset itself;
// it is there for a command callback (such as one for *RST) to call.
// Flush is optional; a nil Flush is treated as always-OK, matching the
// transport contract in spec.md §6.
type Interface struct {
	Write   func(data []byte) (int, error)
	Flush   func() error
	Reset   func() error
	OnError func(err *Error)
}

// ArrayFormat selects how array-shaped results are put on the wire.
type ArrayFormat int

const (
	// FormatASCII emits "{a,b,c}"-style comma lists.
	FormatASCII ArrayFormat = iota
	// FormatBinaryBigEndian emits an IEEE-488.2 definite-length block
	// with multi-byte samples in network (big-endian) byte order.
	FormatBinaryBigEndian
	// FormatBinaryLittleEndian emits a definite-length block with
	// little-endian samples, for instruments that stray from network
	// byte order.
	FormatBinaryLittleEndian
)

// ChoiceDef names one option of a ParamChoice list.
type ChoiceDef struct {
	Name string
	Tag  int32
}

// ChannelListEntry is one entry of a SCPI channel-list expression
// "(@1,3:5,2!1:2!4)" per SCPI-99 §8.3.2. Dimensions within one entry
// are '!'-separated; a range uses ':' between two (possibly
// multi-dimensional) addresses.
type ChannelListEntry struct {
	IsRange    bool
	From       []int32
	To         []int32
	Dimensions int
}

// SpecialNumber tags a non-literal numeric parameter value such as
// MIN, MAX, or DEF (see numbers.go / ParamNumber).
type SpecialNumber int

const (
	NumNumber SpecialNumber = iota
	NumMin
	NumMax
	NumDef
	NumUp
	NumDown
	NumNaN
	NumInf
	NumNInf
	NumAuto
)

// Number is a numeric parameter that may carry a special value instead
// of a literal double.
type Number struct {
	Special SpecialNumber
	Value   float64
}

// Options configures a Context at construction time. LineEnding is
// required (spec.md §6); the rest have sensible zero values.
type Options struct {
	// LineEnding is the byte sequence written as the message
	// terminator, e.g. "\r\n" or "\n".
	LineEnding string
	// UseCommandTags enables Context.CurrentCommandTag.
	UseCommandTags bool
	// BinaryOutput is stored with the Context's options, but no result
	// function reads it: ResultArrayInt32 and ResultArrayFloat64 choose
	// ASCII or binary-block output from their ArrayFormat argument alone.
	BinaryOutput bool
	// ErrorQueue overrides the default bounded ring-buffer queue.
	ErrorQueue ErrorQueue
	// QueueSize bounds the default error queue when ErrorQueue is nil.
	// Zero means 16.
	QueueSize int
}
