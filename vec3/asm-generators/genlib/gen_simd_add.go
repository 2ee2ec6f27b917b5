package genlib

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	. "github.com/mmcloughlin/avo/reg"
)

// GenSIMDAdd emits an element-wise float32 add of n elements from aPtr and
// bPtr into rPtr, unroll XMM registers per block.  Elements past the last
// whole group of four are left for the caller.
//
// Only unaligned moves touch memory, so the slices need no particular
// alignment.
func GenSIMDAdd(n Register, rPtr, aPtr, bPtr Register, unroll int) {
	xs := make([]VecVirtual, unroll)
	ys := make([]VecVirtual, unroll)
	for i := 0; i < unroll; i++ {
		xs[i] = XMM()
	}
	for i := 0; i < unroll; i++ {
		ys[i] = XMM()
	}

	blockitems := 4 * unroll
	blocksize := 4 * blockitems

	Label("addblockloop")
	CMPQ(n, U32(blockitems))
	JL(LabelRef("addtail"))

	for i := 0; i < unroll; i++ {
		MOVUPS(Mem{Base: aPtr}.Offset(16*i), xs[i])
	}
	for i := 0; i < unroll; i++ {
		MOVUPS(Mem{Base: bPtr}.Offset(16*i), ys[i])
	}
	for i := 0; i < unroll; i++ {
		ADDPS(ys[i], xs[i])
	}
	for i := 0; i < unroll; i++ {
		MOVUPS(xs[i], Mem{Base: rPtr}.Offset(16*i))
	}

	ADDQ(U32(blocksize), aPtr)
	ADDQ(U32(blocksize), bPtr)
	ADDQ(U32(blocksize), rPtr)

	SUBQ(U32(blockitems), n)

	JMP(LabelRef("addblockloop"))

	// Whole groups of four that did not fill a block.
	Label("addtail")
	CMPQ(n, U32(4))
	JL(LabelRef("adddone"))

	x, y := XMM(), XMM()
	MOVUPS(Mem{Base: aPtr}, x)
	MOVUPS(Mem{Base: bPtr}, y)
	ADDPS(y, x)
	MOVUPS(x, Mem{Base: rPtr})

	ADDQ(U32(16), aPtr)
	ADDQ(U32(16), bPtr)
	ADDQ(U32(16), rPtr)
	SUBQ(U32(4), n)
	JMP(LabelRef("addtail"))

	Label("adddone")
}
