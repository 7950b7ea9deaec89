package utils

// CalculateOffset turns a from/size pair into a row offset.
// from is rounded down to a page boundary: from=5, size=20 starts at row 0.
func CalculateOffset(from, size int) int {
	if from < 0 || size < 1 {
		return 0
	}
	page := from / size
	return page * size
}
