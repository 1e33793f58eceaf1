package compiler

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/wisp/internal/filetest"
)

var updateDumpTests = flag.Bool("test.update-dump-tests", false, "update lang/compiler testdata golden files")

// TestDumpGolden compiles every testdata/*.wisp fixture and diffs its
// disassembly against the matching testdata/*.wisp.want golden file,
// the same golden-file discipline the teacher's parser/resolver suites
// use for their own dumps.
func TestDumpGolden(t *testing.T) {
	dir := "testdata"
	for _, fi := range filetest.SourceFiles(t, dir, ".wisp") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}
			code := compile(t, string(src))
			filetest.DiffCustom(t, fi, "bytecode", ".want", Dump(code), dir, updateDumpTests)
		})
	}
}
