package source

type (
	// FileID uniquely identifies a trace log within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a loaded log.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileDecompressed marks a log that was stored as .gz or .zst on disk.
	FileDecompressed
)

// File captures metadata and content for a single trace log.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a log.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
