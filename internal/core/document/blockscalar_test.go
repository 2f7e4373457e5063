package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockScalarLines(t *testing.T) {
	src := "# top\n" +
		"help: |-\n" +
		"  line\n" +
		"  # inside\n" +
		"\n" +
		"# after\n" +
		"list:\n" +
		"  - >\n" +
		"    folded\n" +
		"    # inside too\n" +
		"  - plain\n" +
		"nested:\n" +
		"  deep: |\n" +
		"    x\n" +
		"  # nested comment\n" +
		"  other: 1\n"

	got := BlockScalarLines([]byte(src))
	assert.Equal(t, map[int]bool{2: true, 3: true, 4: true, 5: true, 8: true, 9: true, 10: true, 13: true, 14: true}, got)
}

func TestBlockScalarLines_NoBlocks(t *testing.T) {
	assert.Empty(t, BlockScalarLines([]byte("# c\na: \"x # y\"\nb:\n  - 1\n")))
	assert.Empty(t, BlockScalarLines([]byte("a: [unclosed\n")))
	assert.Empty(t, BlockScalarLines(nil))
}
