package bipbuffer

// Push stores as much of src as fits and returns the number of elements stored.
// Elements may land in two blocks when the free space wraps around.
// Any outstanding reservation is discarded.
func Push[T any](b *Buffer[T], src []T) int {
	stored := 0
	for stored < len(src) {
		block, err := b.Reserve(len(src) - stored)
		if err != nil {
			break
		}
		n := copy(block, src[stored:])
		_ = b.Commit(n)
		stored += n
	}
	return stored
}

// Pop moves up to len(dst) of the oldest elements into dst and returns how
// many were moved. Data that wrapped around is picked up as soon as the block
// before it has been drained.
func Pop[T any](b *Buffer[T], dst []T) int {
	moved := 0
	for moved < len(dst) {
		block, err := b.Read()
		if err != nil {
			break
		}
		n := copy(dst[moved:], block)
		_, _ = b.Decommit(n)
		moved += n
	}
	return moved
}
