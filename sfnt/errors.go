package sfnt

import "fmt"

var (
	errMissingTable = fmt.Errorf("required table missing")
	errOverlap      = fmt.Errorf("table directory entries overlap")
)

func errTableOOB(tag string) error {
	return fmt.Errorf("table %q extends beyond end of file", tag)
}
