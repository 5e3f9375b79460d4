package collect

// Result describes a completed collection run.
type Result struct {
	Output string   // Absolute path of the written output file
	Files  []string // Absolute paths of collected files, in walk order
}

// Constants
const (
	ChunkSize  = 8192           // Buffer size for reading sources and writing the staging file
	MarkerTag  = "[FILE_PATH] " // Prefix of the line preceding each collected file
	OutputPerm = 0o644          // Mode applied to the output before it is moved into place
)
