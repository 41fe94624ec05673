// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lzma implements the LZMA stream variant used inside lzip
// members. The variant fixes the literal context to the three high bits of
// the previous byte, uses two position bits, limits match distances to the
// dictionary size and terminates every stream with an explicit marker: a
// match with the distance offset 0xffffffff and length 2 ends the stream,
// length 3 resets the range coder (sync flush).
//
// The Decoder decodes a single member body; the Encoder produces one. The
// member header and trailer of the lzip container are handled by the parent
// package.
package lzma
