// Package room implements the Room wire protocol's data model: the
// lexical scanners and validated token types (Verb, Channel, Count) that
// the stream codec composes into framed messages.
//
// Wire format:
//
//	<VERB> SP <CHANNEL> SP <COUNT> SP <CONTENT[COUNT bytes]>
//
// SP is exactly one blank-class byte; the writer always emits 0x20 but a
// reader accepts any byte in the blank class.
package room

// isBlank reports whether b is a blank-class byte: space, tab, newline,
// carriage return or form feed.
func isBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

// isSign reports whether b is a Channel sign byte.
func isSign(b byte) bool {
	return b == '+' || b == '-'
}

// isLetter reports whether b is a Verb letter: [A-Za-z_].
func isLetter(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// isDigit reports whether b is a decimal digit.
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isHex reports whether b is a hexadecimal digit (either case).
func isHex(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

// scanRun returns the count of leading bytes of view matching class,
// if that count lies within [min, max]; otherwise it returns 0. It never
// reads past len(view) and never panics on an empty view.
func scanRun(view []byte, class func(byte) bool, min, max int) int {
	n := 0
	for n < len(view) && class(view[n]) {
		n++
	}
	if n < min || n > max {
		return 0
	}
	return n
}

// scanWord returns the length of the leading run of letter-class bytes
// in view, or 0 if that run is empty or longer than max. Used to
// validate a Verb's stored bytes.
func scanWord(view []byte, max int) int {
	return scanRun(view, isLetter, 1, max)
}

// scanHex returns the length of the leading run of hex-class bytes in
// view (possibly 0), or 0 if that run is longer than max.
func scanHex(view []byte, max int) int {
	return scanRun(view, isHex, 0, max)
}

// scanDigit returns the length of the leading run of digit-class bytes
// in view, or 0 if that run is empty or longer than max.
func scanDigit(view []byte, max int) int {
	return scanRun(view, isDigit, 1, max)
}
