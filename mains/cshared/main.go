// Command cshared builds the boundary operation as a C shared library:
//
//	go build -buildmode=c-shared -o libstablebot.so ./mains/cshared
//
// Callers free every returned string with StablebotFree.
package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

//export StablebotBestMove
func StablebotBestMove(fen *C.char, depth C.int) *C.char {
	return C.CString(bestMove(C.GoString(fen), int(depth)))
}

//export StablebotFree
func StablebotFree(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
