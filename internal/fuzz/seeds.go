package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// lineSeeds are single lines covering every body kind.
var lineSeeds = []string{
	`1690000000.1 getpid() = 99`,
	`12345 1690000000.123456 open("/etc/passwd", O_RDONLY) = 3`,
	`[pid 7] 12:00:00.5 read(3, <unfinished ...>`,
	`1.0 <... read resumed>"abc", 3) = 3 <0.000012>`,
	`1.0 <... wait4 resumed>, 0, NULL) = 12`,
	`1.0 fstat(3</etc/ld.so.cache>, {st_mode=S_IFREG|0644, st_size=1, ...}) = 0`,
	`1.0 rt_sigprocmask(SIG_SETMASK, ~[RTMIN RT_1], [CHLD], 8) = 0`,
	`1.0 execve("/bin/ls", ["ls", "-l"], 0x7ffd /* 30 vars */) = 0`,
	`1.0 mknod("/dev/x", S_IFCHR, makedev(0x1, 0x3)) = 0`,
	`1.0 --- SIGCHLD {si_signo=SIGCHLD, si_code=CLD_EXITED, si_pid=42} ---`,
	`1.0 +++ exited with 0 +++`,
	`1.0 write(1, "\x41\x42\n\0", 4) = 4`,
	`1.0 open("abc`,
	`1.0 f({{{{{{{{`,
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range lineSeeds {
		f.Add([]byte(s + "\n"))
	}
	f.Add([]byte{})
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.strace файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".strace" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
