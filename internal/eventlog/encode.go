package eventlog

import "strconv"

// Events render as {"id":<int>,"t":<int>,"on":<0|1>}. The shape is kept
// byte-for-byte stable: external consumers parse exactly this and the fit
// checks below assume a homogeneous element format.

// appendJSON renders ev onto dst and returns the extended slice.
func appendJSON(dst []byte, ev Event) []byte {
	dst = append(dst, `{"id":`...)
	dst = strconv.AppendInt(dst, int64(ev.ZoneID), 10)
	dst = append(dst, `,"t":`...)
	dst = strconv.AppendInt(dst, ev.Time, 10)
	dst = append(dst, `,"on":`...)
	if ev.On {
		dst = append(dst, '1')
	} else {
		dst = append(dst, '0')
	}
	return append(dst, '}')
}

// AppendEvent writes one complete rendered event into dst, with an
// optional leading comma. The element must fit with one byte to spare for
// a NUL terminator; if it does not, -1 is returned and dst is untouched.
// Returns the number of bytes written (comma included).
func AppendEvent(dst []byte, ev Event, comma bool) int {
	var scratch [48]byte
	el := appendJSON(scratch[:0], ev)

	n := len(el)
	if comma {
		n++
	}
	if n+1 > len(dst) {
		return -1
	}

	i := 0
	if comma {
		dst[0] = ','
		i = 1
	}
	copy(dst[i:], el)
	return n
}

// Encode renders the log into dst as a JSON array, newest first, and
// returns the number of bytes written excluding the NUL that always
// follows them. Elements are appended whole: the first one that does not
// fit ends the render, and no later element is attempted. dst is never
// written past its length, and the result is always a syntactically valid
// array — "[]" at minimum.
//
// A dst shorter than 3 bytes cannot hold "[]" plus the NUL; nothing is
// written and 0 is returned.
func Encode(dst []byte, log *Log) int {
	if len(dst) < 3 {
		return 0
	}

	idx := 1
	dst[0] = '['

	first := true
	log.Each(func(ev Event) bool {
		// One byte stays reserved for the closing ']'; the NUL byte is
		// part of AppendEvent's own fit check.
		free := len(dst) - idx - 1
		written := AppendEvent(dst[idx:idx+free], ev, !first)
		first = false
		if written < 0 {
			return false
		}
		idx += written
		return true
	})

	dst[idx] = ']'
	idx++
	dst[idx] = 0
	return idx
}
